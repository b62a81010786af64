package repository

import (
	"context"
	"errors"

	"github.com/tarmuz-dev/tarmuz/internal/models"
	"gorm.io/gorm"
)

type Contents struct {
	db *gorm.DB
}

func (r *Contents) List(ctx context.Context) ([]models.Content, error) {
	var contents []models.Content

	if err := r.db.WithContext(ctx).Order("id ASC").Find(&contents).Error; err != nil {
		return nil, translate("list content", err)
	}

	return contents, nil
}

func (r *Contents) GetByType(ctx context.Context, contentType string) (*models.Content, error) {
	var content models.Content

	if err := r.db.WithContext(ctx).Where("type = ?", contentType).First(&content).Error; err != nil {
		return nil, translate("get content", err)
	}

	return &content, nil
}

func (r *Contents) Create(ctx context.Context, content *models.Content) error {
	return translate("create content", r.db.WithContext(ctx).Create(content).Error)
}

func (r *Contents) Save(ctx context.Context, content *models.Content) error {
	return translate("save content", r.db.WithContext(ctx).Save(content).Error)
}

// Upsert loads the document of the given type, or starts a fresh one, applies
// mutate and persists the result. created reports whether a new row was written.
func (r *Contents) Upsert(ctx context.Context, contentType string, mutate func(*models.Content) error) (content *models.Content, created bool, err error) {
	content, err = r.GetByType(ctx, contentType)

	if errors.Is(err, ErrNotFound) {
		content = &models.Content{Type: contentType}
		created = true
	} else if err != nil {
		return nil, false, err
	}

	if err := mutate(content); err != nil {
		return nil, false, err
	}
	content.Type = contentType

	if created {
		err = r.Create(ctx, content)
		if errors.Is(err, ErrDuplicate) {
			// lost a race with a concurrent upsert of the same type
			return r.Upsert(ctx, contentType, mutate)
		}
	} else {
		err = r.Save(ctx, content)
	}

	if err != nil {
		return nil, false, err
	}

	return content, created, nil
}

func (r *Contents) DeleteByType(ctx context.Context, contentType string) error {
	result := r.db.WithContext(ctx).Where("type = ?", contentType).Delete(&models.Content{})

	if result.Error != nil {
		return translate("delete content", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
