package models

import "gorm.io/gorm"

// Category is a display label for projects. Projects reference it by name only.
type Category struct {
	BaseModel

	Name   string `gorm:"uniqueIndex;not null" json:"name"`
	NameAr string `json:"name_ar"`
}

func (c *Category) BeforeSave(tx *gorm.DB) error {
	trim(&c.Name, &c.NameAr)

	var v validator
	v.required("name", c.Name)
	return v.err()
}
