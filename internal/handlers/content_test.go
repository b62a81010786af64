package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarmuz-dev/tarmuz/internal/models"
	"github.com/tarmuz-dev/tarmuz/internal/testutil"
)

func TestContentLifecycle(t *testing.T) {
	e := newEnv(t)

	rec := e.json(http.MethodPost, "/api/content", map[string]any{
		"type":     "hero",
		"title_en": "Welcome",
		"title_ar": "أهلا",
		"cta":      map[string]any{"label": "Contact"},
	}, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[map[string]any](t, rec)
	assert.Equal(t, "hero", created["type"])
	assert.Equal(t, map[string]any{"label": "Contact"}, created["cta"], "extra keys are flattened into the document")
	assert.Equal(t, []any{}, created["images"])

	rec = e.json(http.MethodPost, "/api/content", map[string]any{"type": "hero"}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Content with this type already exists", msg(t, rec))

	rec = e.json(http.MethodGet, "/api/content/hero", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome", decode[map[string]any](t, rec)["title_en"])

	rec = e.json(http.MethodPut, "/api/content/hero", map[string]any{"subtitle_en": "We build"}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[map[string]any](t, rec)
	assert.Equal(t, "Welcome", updated["title_en"], "absent fields keep their value")
	assert.Equal(t, "We build", updated["subtitle_en"])
	assert.Equal(t, map[string]any{"label": "Contact"}, updated["cta"])

	rec = e.json(http.MethodDelete, "/api/content/hero", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Content deleted successfully", msg(t, rec))

	rec = e.json(http.MethodGet, "/api/content/hero", nil, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Content not found", msg(t, rec))

	rec = e.json(http.MethodDelete, "/api/content/hero", nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateContentCreatesMissingSection(t *testing.T) {
	e := newEnv(t)

	rec := e.json(http.MethodPut, "/api/content/about", map[string]any{"title_en": "About us"}, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stored, err := e.store.Contents.GetByType(t.Context(), "about")
	require.NoError(t, err)
	assert.Equal(t, "About us", stored.TitleEn)
}

func TestCreateContentRequiresType(t *testing.T) {
	e := newEnv(t)

	rec := e.json(http.MethodPost, "/api/content", map[string]any{"title_en": "x"}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "type is required", msg(t, rec))
}

func TestUpdateContentImages(t *testing.T) {
	e := newEnv(t)

	rec := e.form(http.MethodPost, "/api/content", testutil.NewForm(t).
		Field("type", "gallery").
		Field("services", `[{"icon":"Hammer"}]`).
		File("images", "a.png", "image/png", testutil.PNG(t, 1, 1)).
		File("images", "b.png", "image/png", testutil.PNG(t, 1, 1)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[struct {
		Images   []string         `json:"images"`
		Services []map[string]any `json:"services"`
	}](t, rec)
	require.Len(t, created.Images, 2)
	assert.Equal(t, []map[string]any{{"icon": "Hammer"}}, created.Services, "JSON form values are decoded")
	e.assertStagingEmpty()

	keep, drop := created.Images[0], created.Images[1]

	rec = e.form(http.MethodPut, "/api/content/gallery", testutil.NewForm(t).
		Field("existingImages", `["`+keep+`"]`).
		File("images", "c.png", "image/png", testutil.PNG(t, 1, 1)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	updated := decode[models.Content](t, rec)
	require.Len(t, updated.Images, 2)
	assert.Equal(t, keep, updated.Images[0])
	assert.NotEqual(t, drop, updated.Images[1])

	dropID, ok := e.assets.PublicIDFromURL(drop)
	require.True(t, ok)
	assert.Equal(t, []string{dropID}, e.assets.Destroyed(), "only the image no longer kept is deleted")
	assert.Equal(t, 2, e.assets.Len())

	rec = e.form(http.MethodPut, "/api/content/gallery", testutil.NewForm(t).Field("title_en", "Gallery"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string(decode[models.Content](t, rec).Images), []string(updated.Images), "a form without images leaves them alone")
}

func TestUpdateContentEmptyKeptListClearsImages(t *testing.T) {
	e := newEnv(t)

	rec := e.form(http.MethodPost, "/api/content", testutil.NewForm(t).
		Field("type", "hero").
		File("images", "a.png", "image/png", testutil.PNG(t, 1, 1)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = e.form(http.MethodPut, "/api/content/hero", testutil.NewForm(t).Field("existingImages", "[]"))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Empty(t, decode[models.Content](t, rec).Images)
	assert.Zero(t, e.assets.Len())
}

func TestUpdateContentChangesOnlySentField(t *testing.T) {
	e := newEnv(t)

	rec := e.json(http.MethodPost, "/api/content", map[string]any{
		"type": "about", "title_ar": "من نحن", "title_en": "About", "description_en": "We design.",
		"images": []string{"https://cdn/a.jpg"},
	}, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	before := decode[models.Content](t, rec)

	rec = e.json(http.MethodPut, "/api/content/about", map[string]any{"title_ar": "عنا"}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	after := decode[models.Content](t, rec)

	assert.Equal(t, "عنا", after.TitleAr)
	assert.True(t, before.CreatedAt.Equal(after.CreatedAt))

	before.TitleAr = after.TitleAr
	before.CreatedAt, before.UpdatedAt = after.CreatedAt, after.UpdatedAt
	assert.Equal(t, before, after)
}
