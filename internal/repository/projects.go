package repository

import (
	"context"

	"github.com/tarmuz-dev/tarmuz/internal/models"
	"gorm.io/gorm"
)

type Projects struct {
	db *gorm.DB
}

// List returns every project, newest first.
func (r *Projects) List(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project

	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&projects).Error; err != nil {
		return nil, translate("list projects", err)
	}

	return projects, nil
}

func (r *Projects) Get(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project

	if err := r.db.WithContext(ctx).First(&project, id).Error; err != nil {
		return nil, translate("get project", err)
	}

	return &project, nil
}

func (r *Projects) GetBySlug(ctx context.Context, slug string) (*models.Project, error) {
	var project models.Project

	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&project).Error; err != nil {
		return nil, translate("get project by slug", err)
	}

	return &project, nil
}

func (r *Projects) Create(ctx context.Context, project *models.Project) error {
	return translate("create project", r.db.WithContext(ctx).Create(project).Error)
}

func (r *Projects) Save(ctx context.Context, project *models.Project) error {
	return translate("save project", r.db.WithContext(ctx).Save(project).Error)
}

func (r *Projects) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Project{}, id)

	if result.Error != nil {
		return translate("delete project", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
