package models

import (
	"strings"

	"gorm.io/gorm"
)

type TeamMember struct {
	BaseModel

	Name       string `gorm:"not null" json:"name"`
	NameAr     string `gorm:"not null" json:"name_ar"`
	Position   string `gorm:"not null" json:"position"`
	PositionAr string `gorm:"not null" json:"position_ar"`
	Bio        string `json:"bio"`
	BioAr      string `json:"bio_ar"`
	Image      string `gorm:"not null" json:"image"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	LinkedIn   string `json:"linkedin"`
	Twitter    string `json:"twitter"`
	Instagram  string `json:"instagram"`
	Order      int    `gorm:"column:sort_order;index;not null" json:"order"`
	IsActive   bool   `gorm:"not null" json:"isActive"`
}

// NewTeamMember returns a member carrying the defaults for fields a client may omit.
func NewTeamMember() TeamMember {
	return TeamMember{Order: 0, IsActive: true}
}

func (m *TeamMember) ApplyDefaults() {
	trim(&m.Name, &m.NameAr, &m.Position, &m.PositionAr, &m.Bio, &m.BioAr,
		&m.Phone, &m.LinkedIn, &m.Twitter, &m.Instagram, &m.Image)
	m.Email = strings.ToLower(strings.TrimSpace(m.Email))
}

func (m *TeamMember) Validate() error {
	var v validator
	v.required("name", m.Name)
	v.required("name_ar", m.NameAr)
	v.required("position", m.Position)
	v.required("position_ar", m.PositionAr)
	v.required("image", m.Image)
	v.check(m.Email == "" || IsEmail(m.Email), "email is invalid")
	return v.err()
}

func (m *TeamMember) BeforeSave(tx *gorm.DB) error {
	m.ApplyDefaults()
	return m.Validate()
}
