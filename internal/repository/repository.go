// Package repository owns persistence of site records. Handlers and batch
// tools read and write records only through it.
package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

type Store struct {
	DB         *gorm.DB
	Projects   *Projects
	Contents   *Contents
	Settings   *Settings
	Team       *Team
	Categories *Categories
	Users      *Users
}

func New(db *gorm.DB) *Store {
	return &Store{
		DB:         db,
		Projects:   &Projects{db: db},
		Contents:   &Contents{db: db},
		Settings:   &Settings{db: db},
		Team:       &Team{db: db},
		Categories: &Categories{db: db},
		Users:      &Users{db: db},
	}
}

// translate maps gorm sentinel errors onto the repository's own.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}

	return fmt.Errorf("%s: %w", op, err)
}
