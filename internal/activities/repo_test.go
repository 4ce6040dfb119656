package activities

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dcastellanos/vendapoint-backend/pkg/db/models"
	"github.com/dcastellanos/vendapoint-backend/pkg/enums"
	"github.com/dcastellanos/vendapoint-backend/pkg/pagination"
)

func setupActivitiesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	activities := `
CREATE TABLE IF NOT EXISTS activities (
  id TEXT PRIMARY KEY,
  account_id TEXT NOT NULL,
  type TEXT NOT NULL,
  amount NUMERIC NOT NULL,
  wallet TEXT NOT NULL,
  status TEXT NOT NULL,
  membership_level_id TEXT,
  product_variant_id TEXT,
  reference_kind TEXT NOT NULL,
  reference_id TEXT NOT NULL,
  created_by_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(activities).Error)
	return db
}

func insertActivity(t *testing.T, db *gorm.DB, accountID uuid.UUID, amount string, wallet enums.Wallet, status enums.ActivityStatus, created time.Time) *models.Activity {
	t.Helper()

	row := &models.Activity{
		ID:            uuid.New(),
		AccountID:     accountID,
		Type:          enums.ActivityTypeReferralLinkUsage,
		Amount:        decimal.RequireFromString(amount),
		Wallet:        wallet,
		Status:        status,
		ReferenceKind: enums.ReferenceKindOrder,
		ReferenceID:   uuid.New(),
		CreatedAt:     created,
		UpdatedAt:     created,
	}
	require.NoError(t, db.Create(row).Error)
	return row
}

func TestRepositorySumByWallet(t *testing.T) {
	db := setupActivitiesTestDB(t)
	repo := NewRepository(db)

	accountID := uuid.New()
	now := time.Now().UTC()
	insertActivity(t, db, accountID, "10.25", enums.WalletMemberCash, enums.ActivityStatusDone, now)
	insertActivity(t, db, accountID, "5.25", enums.WalletMemberCash, enums.ActivityStatusDone, now)
	insertActivity(t, db, accountID, "100.00", enums.WalletMemberCash, enums.ActivityStatusPending, now)
	insertActivity(t, db, accountID, "7.00", enums.WalletPointValue, enums.ActivityStatusDone, now)
	insertActivity(t, db, uuid.New(), "99.00", enums.WalletMemberCash, enums.ActivityStatusDone, now)

	done, err := repo.SumByWallet(context.Background(), accountID, enums.WalletMemberCash, []enums.ActivityStatus{enums.ActivityStatusDone})
	require.NoError(t, err)
	assert.True(t, done.Equal(decimal.RequireFromString("15.5")), "got %s", done)

	all, err := repo.SumByWallet(context.Background(), accountID, enums.WalletMemberCash, nil)
	require.NoError(t, err)
	assert.True(t, all.Equal(decimal.RequireFromString("115.5")), "got %s", all)

	empty, err := repo.SumByWallet(context.Background(), uuid.New(), enums.WalletMemberCash, nil)
	require.NoError(t, err)
	assert.True(t, empty.IsZero())
}

func TestRepositoryListByAccountCursor(t *testing.T) {
	db := setupActivitiesTestDB(t)
	repo := NewRepository(db)

	accountID := uuid.New()
	base := time.Now().UTC().Truncate(time.Second)
	insertActivity(t, db, accountID, "1.00", enums.WalletMemberCash, enums.ActivityStatusDone, base.Add(-2*time.Hour))
	insertActivity(t, db, accountID, "2.00", enums.WalletMemberCash, enums.ActivityStatusDone, base.Add(-time.Hour))
	newest := insertActivity(t, db, accountID, "3.00", enums.WalletMemberCash, enums.ActivityStatusDone, base)

	first, err := repo.ListByAccount(context.Background(), accountID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first, 3, "limit buffer keeps one extra row for cursor detection")
	assert.Equal(t, newest.ID, first[0].ID)

	cursor := pagination.EncodeCursor(pagination.Cursor{CreatedAt: first[1].CreatedAt, ID: first[1].ID})
	rest, err := repo.ListByAccount(context.Background(), accountID, pagination.Params{Limit: 2, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.True(t, rest[0].Amount.Equal(decimal.RequireFromString("1.00")))

	_, err = repo.ListByAccount(context.Background(), accountID, pagination.Params{Limit: 2, Cursor: "!!bad!!"})
	require.Error(t, err)
}

func TestRepositoryUpdateStatus(t *testing.T) {
	db := setupActivitiesTestDB(t)
	repo := NewRepository(db)

	row := insertActivity(t, db, uuid.New(), "50.00", enums.WalletMemberCash, enums.ActivityStatusPending, time.Now().UTC())

	require.NoError(t, repo.UpdateStatus(context.Background(), row.ID, enums.ActivityStatusDone))

	found, err := repo.FindByID(context.Background(), row.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ActivityStatusDone, found.Status)
}
