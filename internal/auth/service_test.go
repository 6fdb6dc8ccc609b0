package auth

import (
	"context"
	"testing"

	pkgauth "github.com/MuzPas1/fleety-mobile/pkg/auth"
	"github.com/MuzPas1/fleety-mobile/pkg/config"
	pkgerrors "github.com/MuzPas1/fleety-mobile/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeSessions struct {
	generated []string
	revoked   []string
}

func (f *fakeSessions) Generate(_ context.Context, accessID string) (string, error) {
	f.generated = append(f.generated, accessID)
	return "refresh-" + accessID, nil
}

func (f *fakeSessions) Revoke(_ context.Context, accessID string) error {
	f.revoked = append(f.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret",
		Issuer:                 "fleety",
		ExpirationMinutes:      60,
		RefreshTokenTTLMinutes: 43200,
	}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func setupAuthTest(t *testing.T) (Service, *fakeSessions) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)

	sessions := &fakeSessions{}
	svc, err := NewService(NewRepository(db), sessions, testJWTConfig(), testPasswordConfig())
	require.NoError(t, err)
	return svc, sessions
}

func validRegister() RegisterInput {
	return RegisterInput{
		Email:    "Asha@Example.com",
		Name:     "Asha",
		Password: "correct horse",
	}
}

func TestRegisterIssuesCredentials(t *testing.T) {
	svc, sessions := setupAuthTest(t)

	creds, err := svc.Register(context.Background(), validRegister())
	require.NoError(t, err)

	assert.Equal(t, "asha@example.com", creds.User.Email)
	assert.NotEmpty(t, creds.AccessToken)
	assert.NotEmpty(t, creds.RefreshToken)
	require.Len(t, sessions.generated, 1)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), creds.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, creds.User.ID, claims.UserID)
	assert.Equal(t, sessions.generated[0], claims.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := setupAuthTest(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	_, err = svc.Register(ctx, validRegister())
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.CodeOf(err))
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := setupAuthTest(t)
	ctx := context.Background()

	cases := []RegisterInput{
		{Email: "", Name: "Asha", Password: "correct horse"},
		{Email: "not-an-email", Name: "Asha", Password: "correct horse"},
		{Email: "asha@example.com", Name: "", Password: "correct horse"},
		{Email: "asha@example.com", Name: "Asha", Password: "short"},
	}
	for _, input := range cases {
		_, err := svc.Register(ctx, input)
		assert.Equalf(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err), "input %+v", input)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := setupAuthTest(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	creds, err := svc.Login(ctx, LoginInput{Email: "asha@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, creds.AccessToken)

	_, err = svc.Login(ctx, LoginInput{Email: "asha@example.com", Password: "wrong"})
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err))

	_, err = svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "correct horse"})
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(err))
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, sessions := setupAuthTest(t)

	require.NoError(t, svc.Logout(context.Background(), "jti-1"))
	assert.Equal(t, []string{"jti-1"}, sessions.revoked)
}

func TestProfile(t *testing.T) {
	svc, _ := setupAuthTest(t)
	ctx := context.Background()

	creds, err := svc.Register(ctx, validRegister())
	require.NoError(t, err)

	user, err := svc.Profile(ctx, creds.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", user.Name)

	_, err = svc.Profile(ctx, uuid.New())
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}
