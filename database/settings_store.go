package database

import (
	"context"
	"errors"

	"github.com/querocurso/marketplace/models"
	"gorm.io/gorm"
)

type SettingsStore struct {
	db       *gorm.DB
	defaults models.Setting
}

func NewSettingsStore(db *gorm.DB, defaults models.Setting) *SettingsStore {
	defaults.ID = models.SettingsID
	return &SettingsStore{db: db, defaults: defaults}
}

// GetSettings falls back to the defaults when the row has not been seeded.
func (s *SettingsStore) GetSettings(ctx context.Context) (models.Setting, error) {
	var setting models.Setting
	err := s.db.WithContext(ctx).First(&setting, "id = ?", models.SettingsID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.defaults, nil
	}
	return setting, err
}

func (s *SettingsStore) SaveSettings(ctx context.Context, setting models.Setting) (models.Setting, error) {
	setting.ID = models.SettingsID
	err := s.db.WithContext(ctx).Save(&setting).Error
	return setting, err
}
