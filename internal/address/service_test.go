package address

import (
	"context"
	"testing"

	pkgerrors "github.com/MuzPas1/fleety-mobile/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (g gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

func setupAddressTest(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	addresses := `
CREATE TABLE IF NOT EXISTS addresses (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  label TEXT NOT NULL DEFAULT 'other',
  full_address TEXT NOT NULL,
  phone TEXT NOT NULL,
  lat REAL,
  lon REAL,
  is_default INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(addresses).Error)

	svc, err := NewService(NewRepository(db), gormTxRunner{db: db})
	require.NoError(t, err)
	return svc, db
}

func TestCreateAndListAddresses(t *testing.T) {
	svc, _ := setupAddressTest(t)
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, CreateInput{
		Label:       "home",
		FullAddress: "12 MG Road",
		Phone:       "9999999999",
		IsDefault:   true,
	})
	require.NoError(t, err)
	assert.True(t, created.IsDefault)
	assert.Equal(t, "home", created.Label.String())

	_, err = svc.Create(ctx, userID, CreateInput{
		Label:       "nonsense",
		FullAddress: "44 Brigade Road",
		Phone:       "8888888888",
	})
	require.NoError(t, err)

	list, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "12 MG Road", list[0].FullAddress, "default address listed first")
	assert.Equal(t, "other", list[1].Label.String(), "unknown label falls back to other")
}

func TestCreateAddressValidation(t *testing.T) {
	svc, _ := setupAddressTest(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, uuid.New(), CreateInput{Phone: "9999999999"})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	_, err = svc.Create(ctx, uuid.New(), CreateInput{FullAddress: "12 MG Road"})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestSetDefaultUnsetsPrevious(t *testing.T) {
	svc, _ := setupAddressTest(t)
	ctx := context.Background()
	userID := uuid.New()

	first, err := svc.Create(ctx, userID, CreateInput{
		Label: "home", FullAddress: "12 MG Road", Phone: "9999999999", IsDefault: true,
	})
	require.NoError(t, err)
	second, err := svc.Create(ctx, userID, CreateInput{
		Label: "work", FullAddress: "44 Brigade Road", Phone: "8888888888",
	})
	require.NoError(t, err)

	require.NoError(t, svc.SetDefault(ctx, userID, second.ID))

	reloadedFirst, err := svc.Get(ctx, userID, first.ID)
	require.NoError(t, err)
	assert.False(t, reloadedFirst.IsDefault)

	reloadedSecond, err := svc.Get(ctx, userID, second.ID)
	require.NoError(t, err)
	assert.True(t, reloadedSecond.IsDefault)
}

func TestAddressOwnership(t *testing.T) {
	svc, _ := setupAddressTest(t)
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, CreateInput{
		Label: "home", FullAddress: "12 MG Road", Phone: "9999999999",
	})
	require.NoError(t, err)

	_, err = svc.Get(ctx, uuid.New(), created.ID)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.CodeOf(err))

	err = svc.Delete(ctx, uuid.New(), created.ID)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.CodeOf(err))
}

func TestDeleteAddress(t *testing.T) {
	svc, _ := setupAddressTest(t)
	ctx := context.Background()
	userID := uuid.New()

	created, err := svc.Create(ctx, userID, CreateInput{
		Label: "home", FullAddress: "12 MG Road", Phone: "9999999999",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, userID, created.ID))

	_, err = svc.Get(ctx, userID, created.ID)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}
