package accounts

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dcastellanos/vendapoint-backend/pkg/db"
	"github.com/dcastellanos/vendapoint-backend/pkg/db/models"
	pkgerrors "github.com/dcastellanos/vendapoint-backend/pkg/errors"
	"github.com/dcastellanos/vendapoint-backend/pkg/logger"
	"github.com/dcastellanos/vendapoint-backend/pkg/mailer"
	"github.com/dcastellanos/vendapoint-backend/pkg/pagination"
)

const (
	memberNumberDigits   = 9
	maxRegisterAttempts  = 5
	maxAncestorWalkDepth = 1000
)

// RegisterInput captures a new member account.
type RegisterInput struct {
	Email             string
	FirstName         string
	LastName          string
	MembershipLevelID *uuid.UUID
	// ReferralCode, when present, resolves to the referrer account.
	ReferralCode string
}

// UpdateInput holds optional mutation values for an account.
type UpdateInput struct {
	Email             *string
	FirstName         *string
	LastName          *string
	MembershipLevelID *uuid.UUID
	IsActive          *bool
}

// RegisterResult bundles what registration created.
type RegisterResult struct {
	Account *models.Account
	Code    *models.ReferralCode
}

// Service exposes member account management.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterResult, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Account, error)
	List(ctx context.Context, params pagination.Params) ([]models.Account, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Account, error)
	SetReferrer(ctx context.Context, id uuid.UUID, referrerID *uuid.UUID) error
}

type codeIssuer interface {
	GenerateCodeTx(ctx context.Context, tx *gorm.DB, accountID uuid.UUID) (*models.ReferralCode, error)
	LookupCode(ctx context.Context, code string) (*models.ReferralCode, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo  Repository
	codes codeIssuer
	tx    txRunner
	mail  mailer.Sender
	logg  *logger.Logger
}

// NewService wires an accounts service.
func NewService(repo Repository, codes codeIssuer, tx txRunner, mail mailer.Sender, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("accounts repository required")
	}
	if codes == nil {
		return nil, fmt.Errorf("code issuer required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	return &service{repo: repo, codes: codes, tx: tx, mail: mail, logg: logg}, nil
}

// Register creates the account, assigns a member number, resolves the inviting
// referral code into ReferrerID, and issues the account's own code, all in one
// transaction.
func (s *service) Register(ctx context.Context, input RegisterInput) (*RegisterResult, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "first and last name are required")
	}

	var referrerID *uuid.UUID
	if code := strings.TrimSpace(input.ReferralCode); code != "" {
		referral, err := s.codes.LookupCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if !referral.IsActive {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "referral code is no longer active")
		}
		referrerID = &referral.AccountID
	}

	var result *RegisterResult
	var lastErr error
	for attempt := 0; attempt < maxRegisterAttempts; attempt++ {
		memberNumber, err := randomMemberNumber()
		if err != nil {
			return nil, err
		}

		account := &models.Account{
			MemberNumber:      memberNumber,
			Email:             email,
			FirstName:         strings.TrimSpace(input.FirstName),
			LastName:          strings.TrimSpace(input.LastName),
			MembershipLevelID: input.MembershipLevelID,
			ReferrerID:        referrerID,
			IsActive:          true,
		}

		txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			if err := s.repo.WithTx(tx).Create(ctx, account); err != nil {
				return err
			}
			code, err := s.codes.GenerateCodeTx(ctx, tx, account.ID)
			if err != nil {
				return err
			}
			result = &RegisterResult{Account: account, Code: code}
			return nil
		})
		if txErr == nil {
			break
		}
		if db.IsUniqueViolation(txErr, "accounts_member_number_key") ||
			db.IsUniqueViolation(txErr, "ix_accounts_member_number") {
			lastErr = txErr
			continue
		}
		if db.IsUniqueViolation(txErr, "accounts_email_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an account with this email already exists")
		}
		return nil, txErr
	}
	if result == nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, lastErr, "could not assign a member number")
	}

	s.sendWelcome(ctx, result)
	return result, nil
}

func (s *service) sendWelcome(ctx context.Context, result *RegisterResult) {
	if s.mail == nil {
		return
	}
	body, err := mailer.RenderWelcome(mailer.WelcomeData{
		FirstName:    result.Account.FirstName,
		MemberNumber: result.Account.MemberNumber,
		ReferralCode: result.Code.Code,
	})
	if err == nil {
		err = s.mail.Send(ctx, mailer.Message{
			To:      []string{result.Account.Email},
			Subject: "Welcome to VendaPoint",
			HTML:    body,
		})
	}
	if err != nil && s.logg != nil {
		s.logg.Error(ctx, "sending welcome email", err)
	}
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Account, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "account id is required")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]models.Account, error) {
	return s.repo.List(ctx, params)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Account, error) {
	account, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*input.Email))
		if email == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "email cannot be empty")
		}
		account.Email = email
	}
	if input.FirstName != nil {
		account.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		account.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.MembershipLevelID != nil {
		account.MembershipLevelID = input.MembershipLevelID
	}
	if input.IsActive != nil {
		account.IsActive = *input.IsActive
	}

	if err := s.repo.Update(ctx, account); err != nil {
		if db.IsUniqueViolation(err, "accounts_email_key") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "an account with this email already exists")
		}
		return nil, err
	}
	return account, nil
}

// SetReferrer re-parents an account. The new referrer's ancestor chain must
// never reach the account being moved, otherwise the write would create a
// cycle in the referral graph.
func (s *service) SetReferrer(ctx context.Context, id uuid.UUID, referrerID *uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "account id is required")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}

	if referrerID != nil {
		if *referrerID == id {
			return pkgerrors.New(pkgerrors.CodeValidation, "account cannot refer itself")
		}
		if err := s.ensureNoCycle(ctx, id, *referrerID); err != nil {
			return err
		}
	}

	return s.repo.SetReferrer(ctx, id, referrerID)
}

func (s *service) ensureNoCycle(ctx context.Context, accountID, referrerID uuid.UUID) error {
	visited := map[uuid.UUID]bool{}
	current := referrerID
	for depth := 0; depth < maxAncestorWalkDepth; depth++ {
		if current == accountID {
			return pkgerrors.New(pkgerrors.CodeValidation, "referrer change would create a referral cycle")
		}
		if visited[current] {
			// pre-existing cycle upstream; the proposed edge does not reach
			// the account, so the write itself is safe
			return nil
		}
		visited[current] = true

		ancestor, err := s.repo.FindByID(ctx, current)
		if err != nil {
			if pkgErr := pkgerrors.As(err); pkgErr != nil && pkgErr.Code() == pkgerrors.CodeNotFound {
				if current == referrerID {
					return pkgerrors.New(pkgerrors.CodeValidation, "referrer account not found")
				}
				return nil
			}
			return err
		}
		if ancestor.ReferrerID == nil {
			return nil
		}
		current = *ancestor.ReferrerID
	}
	return nil
}

func randomMemberNumber() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < memberNumberDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("generating member number: %w", err)
	}
	return fmt.Sprintf("VP%0*d", memberNumberDigits, n), nil
}
