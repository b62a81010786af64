package models

import (
	"strings"

	"gorm.io/gorm"
)

// User is an administrator allowed to manage site content.
type User struct {
	BaseModel

	Name         string `gorm:"not null" json:"name"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
}

func (u *User) BeforeSave(tx *gorm.DB) error {
	trim(&u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	var v validator
	v.required("name", u.Name)
	v.required("email", u.Email)
	v.check(u.Email == "" || IsEmail(u.Email), "email is invalid")
	v.required("password", u.PasswordHash)
	return v.err()
}
