package models

import (
	"regexp"
	"strings"

	"gorm.io/gorm"
)

// SettingsSingleton is the discriminator value of the only settings row.
const SettingsSingleton = "global"

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func IsEmail(v string) bool {
	return emailPattern.MatchString(v)
}

type Settings struct {
	BaseModel

	Singleton string `gorm:"uniqueIndex;not null" json:"-"`

	ContactRecipient string `json:"contactRecipient"`

	// Login form
	LoginShowEmail   bool `gorm:"not null" json:"loginShowEmail"`
	LoginEnableEmail bool `gorm:"not null" json:"loginEnableEmail"`

	// Branding
	LogoURL         string `json:"logoUrl"`
	LogoURLScrolled string `json:"logoUrlScrolled"`

	ShowTeamSection bool `gorm:"not null" json:"showTeamSection"`
}

func DefaultSettings() Settings {
	return Settings{
		Singleton:        SettingsSingleton,
		LoginShowEmail:   false,
		LoginEnableEmail: true,
		ShowTeamSection:  true,
	}
}

func (s *Settings) ApplyDefaults() {
	s.Singleton = SettingsSingleton
	trim(&s.LogoURL, &s.LogoURLScrolled)
	s.ContactRecipient = strings.ToLower(strings.TrimSpace(s.ContactRecipient))
}

func (s *Settings) Validate() error {
	var v validator
	v.check(s.ContactRecipient == "" || IsEmail(s.ContactRecipient), "contactRecipient is invalid")
	return v.err()
}

func (s *Settings) BeforeSave(tx *gorm.DB) error {
	s.ApplyDefaults()
	return s.Validate()
}
