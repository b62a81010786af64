package repository

import (
	"context"

	"github.com/tarmuz-dev/tarmuz/internal/models"
	"gorm.io/gorm"
)

type Team struct {
	db *gorm.DB
}

func (r *Team) ordered(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Order("sort_order ASC").Order("created_at ASC").Order("id ASC")
}

func (r *Team) ListActive(ctx context.Context) ([]models.TeamMember, error) {
	var members []models.TeamMember

	if err := r.ordered(ctx).Where("is_active = ?", true).Find(&members).Error; err != nil {
		return nil, translate("list active team", err)
	}

	return members, nil
}

func (r *Team) ListAll(ctx context.Context) ([]models.TeamMember, error) {
	var members []models.TeamMember

	if err := r.ordered(ctx).Find(&members).Error; err != nil {
		return nil, translate("list team", err)
	}

	return members, nil
}

func (r *Team) Get(ctx context.Context, id uint) (*models.TeamMember, error) {
	var member models.TeamMember

	if err := r.db.WithContext(ctx).First(&member, id).Error; err != nil {
		return nil, translate("get team member", err)
	}

	return &member, nil
}

func (r *Team) Create(ctx context.Context, member *models.TeamMember) error {
	return translate("create team member", r.db.WithContext(ctx).Create(member).Error)
}

func (r *Team) Save(ctx context.Context, member *models.TeamMember) error {
	return translate("save team member", r.db.WithContext(ctx).Save(member).Error)
}

func (r *Team) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.TeamMember{}, id)

	if result.Error != nil {
		return translate("delete team member", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
