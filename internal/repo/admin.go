package repo

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/epiphanyresto/menu-backend/internal/models"
)

func (r *GormRepo) GetAdminSetting(ctx context.Context) (*models.AdminSetting, error) {
	setting := models.AdminSetting{}
	if err := r.DB.WithContext(ctx).First(&setting, "id = ?", models.AdminSettingID).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

// UpsertAdminSetting writes the singleton row under its fixed key, so two
// concurrent writers cannot produce a second row.
func (r *GormRepo) UpsertAdminSetting(ctx context.Context, username, passwordHash string) error {
	setting := models.AdminSetting{
		ID:           models.AdminSettingID,
		Username:     username,
		PasswordHash: passwordHash,
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"username", "password_hash", "updated_at"}),
	}).Create(&setting).Error
}

// InsertAdminSetting inserts the singleton row without overwriting an
// existing one; a conflict on the fixed key is reported as an error.
func (r *GormRepo) InsertAdminSetting(ctx context.Context, username, passwordHash string) error {
	setting := models.AdminSetting{
		ID:           models.AdminSettingID,
		Username:     username,
		PasswordHash: passwordHash,
	}
	return r.DB.WithContext(ctx).Create(&setting).Error
}
