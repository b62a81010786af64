package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Content is a site section keyed by Type. There is at most one row per type.
type Content struct {
	BaseModel

	Type          string                      `gorm:"uniqueIndex;not null" json:"type"`
	TitleAr       string                      `json:"title_ar"`
	TitleEn       string                      `json:"title_en"`
	SubtitleAr    string                      `json:"subtitle_ar"`
	SubtitleEn    string                      `json:"subtitle_en"`
	DescriptionAr string                      `json:"description_ar"`
	DescriptionEn string                      `json:"description_en"`
	Image         string                      `json:"image"`
	Images        datatypes.JSONSlice[string] `json:"images"`

	// Data holds section specific fields such as services or about_features.
	Data datatypes.JSONMap `json:"-"`
}

// ContentColumns are the request keys stored in dedicated columns rather than Data.
var ContentColumns = map[string]bool{
	"_id": true, "id": true, "type": true, "createdAt": true, "updatedAt": true,
	"title_ar": true, "title_en": true, "subtitle_ar": true, "subtitle_en": true,
	"description_ar": true, "description_en": true, "image": true, "images": true,
	"existingImages": true,
}

func (c *Content) ApplyDefaults() {
	trim(&c.Type, &c.Image)

	if c.Images == nil {
		c.Images = datatypes.JSONSlice[string]{}
	}

	if c.Data == nil {
		c.Data = datatypes.JSONMap{}
	}
}

func (c *Content) Validate() error {
	var v validator
	v.required("type", c.Type)
	return v.err()
}

func (c *Content) BeforeSave(tx *gorm.DB) error {
	c.ApplyDefaults()
	return c.Validate()
}

// MarshalJSON flattens Data into the top level object; column fields win on conflict.
func (c Content) MarshalJSON() ([]byte, error) {
	type plain Content

	columns, err := json.Marshal(plain(c))
	if err != nil {
		return nil, err
	}

	out := make(map[string]any, len(c.Data)+16)
	for k, v := range c.Data {
		out[k] = v
	}

	var fields map[string]any
	if err := json.Unmarshal(columns, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		out[k] = v
	}

	return json.Marshal(out)
}
