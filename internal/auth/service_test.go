package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/dcastellanos/vendapoint-backend/pkg/auth"
	"github.com/dcastellanos/vendapoint-backend/pkg/config"
	"github.com/dcastellanos/vendapoint-backend/pkg/db/models"
	"github.com/dcastellanos/vendapoint-backend/pkg/enums"
	pkgerrors "github.com/dcastellanos/vendapoint-backend/pkg/errors"
	"github.com/dcastellanos/vendapoint-backend/pkg/security"
)

type fakeUserRepo struct {
	byEmail    map[string]*models.User
	lastLogins map[uuid.UUID]time.Time
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	f.lastLogins[id] = at
	return nil
}

type fakeSessions struct {
	generated []string
}

func (f *fakeSessions) Generate(ctx context.Context, accessID string) (string, error) {
	f.generated = append(f.generated, accessID)
	return "refresh-" + accessID, nil
}

type fakeLimiter struct {
	counts map[string]int64
	limit  int64
}

func (f *fakeLimiter) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	f.counts[scope]++
	return f.counts[scope] <= f.limit, f.counts[scope], nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-test-secret-test-secret!",
		Issuer:            "vendapoint-test",
		ExpirationMinutes: 15,
	}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

type fixture struct {
	repo     *fakeUserRepo
	sessions *fakeSessions
	limiter  *fakeLimiter
	svc      Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		repo:     &fakeUserRepo{byEmail: map[string]*models.User{}, lastLogins: map[uuid.UUID]time.Time{}},
		sessions: &fakeSessions{},
		limiter:  &fakeLimiter{counts: map[string]int64{}, limit: 5},
	}
	svc, err := NewService(ServiceParams{
		UserRepo:       f.repo,
		SessionManager: f.sessions,
		Limiter:        f.limiter,
		JWTConfig:      testJWTConfig(),
		RateLimit:      config.AuthRateLimitConfig{LoginWindow: time.Minute, LoginEmailLimit: 5},
		PasswordConfig: testPasswordConfig(),
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	f.svc = svc
	return f
}

func (f *fixture) addUser(t *testing.T, email, password string, active bool) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig())
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	u := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    "Dana",
		LastName:     "Ops",
		Role:         enums.UserRoleStaff,
		IsActive:     active,
	}
	f.repo.byEmail[email] = u
	return u
}

func TestLoginIssuesTokens(t *testing.T) {
	f := newFixture(t)
	user := f.addUser(t, "dana@example.com", "correct horse battery", true)

	resp, err := f.svc.Login(context.Background(), LoginRequest{
		Email:    "Dana@Example.com",
		Password: "correct horse battery",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("tokens must be issued")
	}
	if resp.User == nil || resp.User.ID != user.ID {
		t.Fatal("response must carry the user")
	}
	if _, ok := f.repo.lastLogins[user.ID]; !ok {
		t.Fatal("last login must be recorded")
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig(), resp.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != enums.UserRoleStaff {
		t.Fatalf("claims = %+v", claims)
	}
	if len(f.sessions.generated) != 1 || claims.ID != f.sessions.generated[0] {
		t.Fatal("session accessID must match the token jti")
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "dana@example.com", "right password", true)

	_, err := f.svc.Login(context.Background(), LoginRequest{
		Email:    "dana@example.com",
		Password: "wrong password!",
	})
	pkgErr := pkgerrors.As(err)
	if pkgErr == nil || pkgErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	pkgErr := pkgerrors.As(err)
	if pkgErr == nil || pkgErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "dana@example.com", "right password", false)

	_, err := f.svc.Login(context.Background(), LoginRequest{
		Email:    "dana@example.com",
		Password: "right password",
	})
	pkgErr := pkgerrors.As(err)
	if pkgErr == nil || pkgErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginRateLimited(t *testing.T) {
	f := newFixture(t)
	f.addUser(t, "dana@example.com", "right password", true)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		f.svc.Login(ctx, LoginRequest{Email: "dana@example.com", Password: "wrong"})
	}

	_, err := f.svc.Login(ctx, LoginRequest{Email: "dana@example.com", Password: "right password"})
	pkgErr := pkgerrors.As(err)
	if pkgErr == nil || pkgErr.Code() != pkgerrors.CodeRateLimit {
		t.Fatalf("expected rate limit, got %v", err)
	}
}
