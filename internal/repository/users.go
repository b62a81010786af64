package repository

import (
	"context"
	"strings"

	"github.com/tarmuz-dev/tarmuz/internal/models"
	"gorm.io/gorm"
)

type Users struct {
	db *gorm.DB
}

func (r *Users) Get(ctx context.Context, id uint) (*models.User, error) {
	var user models.User

	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate("get user", err)
	}

	return &user, nil
}

func (r *Users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User

	email = strings.ToLower(strings.TrimSpace(email))

	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate("get user by email", err)
	}

	return &user, nil
}

func (r *Users) Create(ctx context.Context, user *models.User) error {
	return translate("create user", r.db.WithContext(ctx).Create(user).Error)
}
