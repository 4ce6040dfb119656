package referrals

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcastellanos/vendapoint-backend/pkg/config"
	"github.com/dcastellanos/vendapoint-backend/pkg/db"
	"github.com/dcastellanos/vendapoint-backend/pkg/db/models"
	pkgerrors "github.com/dcastellanos/vendapoint-backend/pkg/errors"
	"github.com/dcastellanos/vendapoint-backend/pkg/logger"
)

// Unambiguous alphabet: no 0/O or 1/I/L, codes get read over the phone.
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const maxCodeAttempts = 5

// UplineEntry is one account in a referral chain. Level 1 is the chain root
// itself; each step up the ReferrerID link increments the level.
type UplineEntry struct {
	Account models.Account
	Level   int
}

// Service resolves referral chains and manages promo codes.
type Service interface {
	ResolveUpline(ctx context.Context, accountID uuid.UUID) ([]UplineEntry, error)
	GenerateCode(ctx context.Context, accountID uuid.UUID) (*models.ReferralCode, error)
	GenerateCodeTx(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) (*models.ReferralCode, error)
	LookupCode(ctx context.Context, code string) (*models.ReferralCode, error)
	ListCodes(ctx context.Context, accountID uuid.UUID) ([]models.ReferralCode, error)
	DeactivateCode(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo     Repository
	settings config.SettingsConfig
	logg     *logger.Logger
}

// NewService wires a referrals service.
func NewService(repo Repository, settings config.SettingsConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("referrals repository required")
	}
	if settings.CommissionDepth < 1 {
		return nil, fmt.Errorf("commission depth must be positive")
	}
	return &service{repo: repo, settings: settings, logg: logg}, nil
}

// ResolveUpline walks the referrer chain starting at accountID. The result
// always contains the account itself at level 1; the walk stops at the
// configured depth, at the first missing referrer, or when a stored cycle
// would revisit an account.
func (s *service) ResolveUpline(ctx context.Context, accountID uuid.UUID) ([]UplineEntry, error) {
	if accountID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account id is required")
	}

	root, err := s.repo.FindAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	entries := []UplineEntry{{Account: *root, Level: 1}}
	visited := map[uuid.UUID]bool{root.ID: true}

	current := root
	for level := 2; level <= s.settings.CommissionDepth; level++ {
		if current.ReferrerID == nil {
			break
		}
		if visited[*current.ReferrerID] {
			if s.logg != nil {
				logCtx := s.logg.WithAccountID(ctx, accountID.String())
				s.logg.Warn(logCtx, "referral chain contains a cycle, truncating upline")
			}
			break
		}

		next, err := s.repo.FindAccount(ctx, *current.ReferrerID)
		if err != nil {
			if pkgErr := pkgerrors.As(err); pkgErr != nil && pkgErr.Code() == pkgerrors.CodeNotFound {
				// dangling referrer id; treat as end of chain
				break
			}
			return nil, err
		}

		entries = append(entries, UplineEntry{Account: *next, Level: level})
		visited[next.ID] = true
		current = next
	}

	return entries, nil
}

// GenerateCode creates a unique promo code for the account, retrying on
// collisions with the unique index.
func (s *service) GenerateCode(ctx context.Context, accountID uuid.UUID) (*models.ReferralCode, error) {
	return s.generate(ctx, s.repo, accountID)
}

// GenerateCodeTx is GenerateCode inside a caller-owned transaction so the code
// commits or rolls back with account registration.
func (s *service) GenerateCodeTx(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) (*models.ReferralCode, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction required")
	}
	return s.generate(ctx, s.repo.WithTx(tx), accountID)
}

func (s *service) generate(ctx context.Context, repo Repository, accountID uuid.UUID) (*models.ReferralCode, error) {
	if accountID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account id is required")
	}
	if _, err := repo.FindAccount(ctx, accountID); err != nil {
		return nil, err
	}

	var lastErr error
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		value, err := randomCode(s.settings.ReferralCodeLength)
		if err != nil {
			return nil, err
		}
		code := &models.ReferralCode{
			Code:      value,
			AccountID: accountID,
			IsActive:  true,
		}
		if err := repo.CreateCode(ctx, code); err != nil {
			if db.IsUniqueViolation(err, "") {
				lastErr = err
				continue
			}
			return nil, err
		}
		return code, nil
	}
	return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, lastErr, "could not generate a unique referral code")
}

func (s *service) LookupCode(ctx context.Context, code string) (*models.ReferralCode, error) {
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}
	return s.repo.FindCodeByValue(ctx, code)
}

func (s *service) ListCodes(ctx context.Context, accountID uuid.UUID) ([]models.ReferralCode, error) {
	if accountID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account id is required")
	}
	return s.repo.ListCodesByAccount(ctx, accountID)
}

func (s *service) DeactivateCode(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "code id is required")
	}
	return s.repo.DeactivateCode(ctx, id)
}

func randomCode(length int) (string, error) {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating referral code: %w", err)
	}
	out := make([]byte, length)
	for i, b := range buf {
		out[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(out), nil
}
