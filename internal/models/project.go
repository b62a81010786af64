package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Project struct {
	BaseModel

	Slug          string                      `gorm:"uniqueIndex;not null" json:"slug"`
	TitleAr       string                      `gorm:"not null" json:"title_ar"`
	TitleEn       string                      `gorm:"not null" json:"title_en"`
	DescriptionAr string                      `json:"description_ar"`
	DescriptionEn string                      `json:"description_en"`
	Category      string                      `gorm:"index;not null" json:"category"`
	CategoryAr    string                      `json:"category_ar"`
	Location      string                      `json:"location"`
	LocationAr    string                      `json:"location_ar"`
	Year          string                      `json:"year"`
	Images        datatypes.JSONSlice[string] `json:"images"`
	Cover         string                      `json:"cover"`
}

// ApplyDefaults trims text fields and defaults the cover to the first image.
func (p *Project) ApplyDefaults() {
	trim(&p.Slug, &p.TitleAr, &p.TitleEn, &p.Category, &p.CategoryAr, &p.Location, &p.LocationAr, &p.Year)

	if p.Images == nil {
		p.Images = datatypes.JSONSlice[string]{}
	}

	if p.Cover == "" && len(p.Images) > 0 {
		p.Cover = p.Images[0]
	}
}

func (p *Project) Validate() error {
	var v validator
	v.required("slug", p.Slug)
	v.required("title_ar", p.TitleAr)
	v.required("title_en", p.TitleEn)
	v.required("category", p.Category)
	return v.err()
}

func (p *Project) BeforeSave(tx *gorm.DB) error {
	p.ApplyDefaults()
	return p.Validate()
}
