package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/epiphanyresto/menu-backend/internal/hash"
	"github.com/epiphanyresto/menu-backend/internal/models"
	"github.com/epiphanyresto/menu-backend/internal/repo"
)

func newAdminService(t *testing.T) (*AdminService, *gorm.DB) {
	db := initTestDB(t)
	return &AdminService{Repo: repo.New(db)}, db
}

func countAdminRows(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.AdminSetting{}).Count(&count).Error)
	return count
}

func TestVerifyBootstrapsDefault(t *testing.T) {
	svc, db := newAdminService(t)
	ctx := context.Background()

	require.Zero(t, countAdminRows(t, db))

	require.False(t, svc.VerifyAdminCredentials(ctx, DefaultAdminUsername, "wrong"))
	require.Zero(t, countAdminRows(t, db))

	require.True(t, svc.VerifyAdminCredentials(ctx, DefaultAdminUsername, DefaultAdminPassword))
	require.EqualValues(t, 1, countAdminRows(t, db))

	// Bootstrap is idempotent: a second default login keeps one row.
	require.True(t, svc.VerifyAdminCredentials(ctx, DefaultAdminUsername, DefaultAdminPassword))
	require.EqualValues(t, 1, countAdminRows(t, db))
}

func TestGetCredentialsBootstrapsAndRedacts(t *testing.T) {
	svc, db := newAdminService(t)
	ctx := context.Background()

	credentials, err := svc.GetAdminCredentials(ctx)
	require.NoError(t, err)
	require.Equal(t, DefaultAdminUsername, credentials.Username)
	require.Empty(t, credentials.Password)
	require.EqualValues(t, 1, countAdminRows(t, db))

	var row models.AdminSetting
	require.NoError(t, db.First(&row).Error)
	require.NotEqual(t, DefaultAdminPassword, row.PasswordHash)
	require.True(t, hash.CheckPassword(row.PasswordHash, DefaultAdminPassword))
}

func TestUpdateCredentialsRoundTrip(t *testing.T) {
	svc, db := newAdminService(t)
	ctx := context.Background()

	require.NoError(t, svc.UpdateAdminCredentials(ctx, "newuser", "newpass123"))
	require.EqualValues(t, 1, countAdminRows(t, db))

	require.True(t, svc.VerifyAdminCredentials(ctx, "newuser", "newpass123"))
	require.False(t, svc.VerifyAdminCredentials(ctx, "newuser", "oldpass"))
	require.False(t, svc.VerifyAdminCredentials(ctx, DefaultAdminUsername, DefaultAdminPassword))

	// Rotation again replaces in place.
	require.NoError(t, svc.UpdateAdminCredentials(ctx, "other", "otherpass"))
	require.EqualValues(t, 1, countAdminRows(t, db))
	require.True(t, svc.VerifyAdminCredentials(ctx, "other", "otherpass"))
	require.False(t, svc.VerifyAdminCredentials(ctx, "newuser", "newpass123"))

	credentials, err := svc.GetAdminCredentials(ctx)
	require.NoError(t, err)
	require.Equal(t, "other", credentials.Username)
	require.Empty(t, credentials.Password)
}

func TestUpdateCredentialsValidation(t *testing.T) {
	svc, db := newAdminService(t)
	ctx := context.Background()

	require.ErrorIs(t, svc.UpdateAdminCredentials(ctx, "", "pass"), ErrValidation)
	require.ErrorIs(t, svc.UpdateAdminCredentials(ctx, "user", ""), ErrValidation)
	require.Zero(t, countAdminRows(t, db))
}

func TestPasswordNeverStoredInPlaintext(t *testing.T) {
	svc, db := newAdminService(t)
	ctx := context.Background()

	require.NoError(t, svc.UpdateAdminCredentials(ctx, "newuser", "newpass123"))

	var row models.AdminSetting
	require.NoError(t, db.First(&row).Error)
	require.NotEqual(t, "newpass123", row.PasswordHash)
	require.NotContains(t, row.PasswordHash, "newpass123")
	require.True(t, hash.CheckPassword(row.PasswordHash, "newpass123"))
}

func TestVerifyFallsBackToDefaultOnStorageError(t *testing.T) {
	svc, db := newAdminService(t)
	ctx := context.Background()

	// Simulate a broken store: reads fail with something other than
	// "record not found". The verify path degrades to the default pair
	// instead of failing closed.
	require.NoError(t, db.Migrator().DropTable(&models.AdminSetting{}))

	require.True(t, svc.VerifyAdminCredentials(ctx, DefaultAdminUsername, DefaultAdminPassword))
	require.False(t, svc.VerifyAdminCredentials(ctx, DefaultAdminUsername, "wrong"))
	require.False(t, svc.VerifyAdminCredentials(ctx, "someone", DefaultAdminPassword))
}
