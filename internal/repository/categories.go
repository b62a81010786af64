package repository

import (
	"context"
	"strings"

	"github.com/tarmuz-dev/tarmuz/internal/models"
	"gorm.io/gorm"
)

type Categories struct {
	db *gorm.DB
}

func (r *Categories) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category

	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, translate("list categories", err)
	}

	return categories, nil
}

// Ensure returns the category with the given name, creating it when missing.
// An existing category gains an Arabic name if it had none.
func (r *Categories) Ensure(ctx context.Context, name, nameAr string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	nameAr = strings.TrimSpace(nameAr)

	category := models.Category{Name: name, NameAr: nameAr}

	if err := r.db.WithContext(ctx).Where("name = ?", name).FirstOrCreate(&category).Error; err != nil {
		return nil, translate("ensure category", err)
	}

	if category.NameAr == "" && nameAr != "" {
		category.NameAr = nameAr
		if err := r.db.WithContext(ctx).Save(&category).Error; err != nil {
			return nil, translate("save category", err)
		}
	}

	return &category, nil
}
