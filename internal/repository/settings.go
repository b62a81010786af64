package repository

import (
	"context"
	"errors"

	"github.com/tarmuz-dev/tarmuz/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Settings gives access to the single global settings row.
type Settings struct {
	db *gorm.DB
}

// Get returns the settings row, creating it with defaults on first access.
func (r *Settings) Get(ctx context.Context) (*models.Settings, error) {
	settings, err := r.find(ctx)

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return settings, translate("get settings", err)
	}

	defaults := models.DefaultSettings()

	// The unique singleton index turns a concurrent first access into a no-op.
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&defaults).Error; err != nil {
		return nil, translate("create settings", err)
	}

	settings, err = r.find(ctx)
	return settings, translate("get settings", err)
}

// Update applies mutate to the settings row and persists it.
func (r *Settings) Update(ctx context.Context, mutate func(*models.Settings)) (*models.Settings, error) {
	settings, err := r.Get(ctx)

	if err != nil {
		return nil, err
	}

	mutate(settings)

	if err := r.db.WithContext(ctx).Save(settings).Error; err != nil {
		return nil, translate("save settings", err)
	}

	return settings, nil
}

// All returns every settings row. Outside of legacy imports there is exactly one.
func (r *Settings) All(ctx context.Context) ([]models.Settings, error) {
	var rows []models.Settings

	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, translate("list settings", err)
	}

	return rows, nil
}

func (r *Settings) Save(ctx context.Context, settings *models.Settings) error {
	return translate("save settings", r.db.WithContext(ctx).Save(settings).Error)
}

func (r *Settings) find(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings

	if err := r.db.WithContext(ctx).Where("singleton = ?", models.SettingsSingleton).First(&settings).Error; err != nil {
		return nil, err
	}

	return &settings, nil
}
