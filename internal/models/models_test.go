package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestProjectDefaults(t *testing.T) {
	p := Project{Slug: " villa ", TitleAr: "فيلا", TitleEn: "Villa", Category: "Residential",
		Images: datatypes.JSONSlice[string]{"a", "b"}}

	p.ApplyDefaults()
	require.NoError(t, p.Validate())

	assert.Equal(t, "villa", p.Slug)
	assert.Equal(t, "a", p.Cover)
}

func TestProjectValidationListsEveryProblem(t *testing.T) {
	p := Project{TitleEn: "Villa"}
	p.ApplyDefaults()

	err := p.Validate()

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"slug is required", "title_ar is required", "category is required"}, verr.Problems)
	assert.Equal(t, "slug is required, title_ar is required, category is required", err.Error())
	assert.NotNil(t, p.Images)
}

func TestTeamMemberValidation(t *testing.T) {
	m := NewTeamMember()
	assert.True(t, m.IsActive)

	m.Name, m.NameAr, m.Position, m.PositionAr, m.Image = "Sara", "سارة", "Architect", "مهندسة", "https://x/y.png"
	m.Email = "  Sara@Example.COM "
	m.ApplyDefaults()
	require.NoError(t, m.Validate())
	assert.Equal(t, "sara@example.com", m.Email)

	m.Email = "not-an-email"
	assert.EqualError(t, m.Validate(), "email is invalid")

	m.Email = ""
	m.Image = " "
	m.ApplyDefaults()
	assert.EqualError(t, m.Validate(), "image is required")
}

func TestSettingsValidation(t *testing.T) {
	s := DefaultSettings()
	assert.True(t, s.LoginEnableEmail)
	assert.False(t, s.LoginShowEmail)
	assert.True(t, s.ShowTeamSection)

	s.ContactRecipient = " Info@Tarmuz.COM "
	s.ApplyDefaults()
	require.NoError(t, s.Validate())
	assert.Equal(t, "info@tarmuz.com", s.ContactRecipient)

	s.ContactRecipient = "info@"
	assert.Error(t, s.Validate())
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("a@b.co"))
	assert.False(t, IsEmail("a@b"))
	assert.False(t, IsEmail("a b@c.de"))
	assert.False(t, IsEmail(""))
}

func TestContentMarshalFlattensData(t *testing.T) {
	c := Content{
		Type:    "about",
		TitleEn: "About",
		Data: datatypes.JSONMap{
			"about_features": []any{"quality"},
			"title_en":       "shadowed",
		},
	}
	c.ID = 7
	c.ApplyDefaults()

	raw, err := json.Marshal(c)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))

	assert.Equal(t, "About", out["title_en"], "columns win over data keys")
	assert.Equal(t, []any{"quality"}, out["about_features"])
	assert.Equal(t, float64(7), out["_id"])
	assert.Equal(t, []any{}, out["images"])
	assert.NotContains(t, out, "Data")
}
