package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarmuz-dev/tarmuz/internal/models"
	"github.com/tarmuz-dev/tarmuz/internal/testutil"
)

func projectForm(t *testing.T, slug string) *testutil.Form {
	return testutil.NewForm(t).
		Field("slug", slug).
		Field("title_ar", "فيلا").
		Field("title_en", "Villa").
		Field("category", "Residential").
		Field("category_ar", "سكني")
}

func createProject(t *testing.T, e *env, form *testutil.Form) models.Project {
	t.Helper()

	rec := e.form(http.MethodPost, "/api/projects", form)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[models.Project](t, rec)
}

func TestCreateProject(t *testing.T) {
	e := newEnv(t)

	project := createProject(t, e, projectForm(t, "villa").
		File("images", "a.png", "image/png", testutil.PNG(t, 1, 1)).
		File("images", "b.png", "image/png", testutil.PNG(t, 1, 1)))

	require.Len(t, project.Images, 2)
	assert.Equal(t, project.Images[0], project.Cover)
	e.assertStagingEmpty()

	rec := e.json(http.MethodGet, fmt.Sprintf("/api/projects/%d", project.ID), nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "villa", decode[models.Project](t, rec).Slug)

	rec = e.json(http.MethodGet, "/api/categories", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	categories := decode[[]models.Category](t, rec)
	require.Len(t, categories, 1)
	assert.Equal(t, "Residential", categories[0].Name)
	assert.Equal(t, "سكني", categories[0].NameAr)
}

func TestCreateProjectAcceptsLegacySlugField(t *testing.T) {
	e := newEnv(t)

	rec := e.json(http.MethodPost, "/api/projects", map[string]any{
		"id":       "tower",
		"title_ar": "برج",
		"title_en": "Tower",
		"category": "Commercial",
		"images":   []string{"https://cdn/a.jpg", "https://cdn/b.jpg"},
		"cover":    "https://cdn/b.jpg",
	}, true)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	project := decode[models.Project](t, rec)
	assert.Equal(t, "tower", project.Slug)
	assert.Equal(t, "https://cdn/b.jpg", project.Cover)
	assert.Len(t, project.Images, 2)
}

func TestCreateProjectDuplicateSlug(t *testing.T) {
	e := newEnv(t)
	createProject(t, e, projectForm(t, "villa"))

	rec := e.form(http.MethodPost, "/api/projects", projectForm(t, "villa").
		File("images", "a.png", "image/png", testutil.PNG(t, 1, 1)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Project with this slug already exists", msg(t, rec))
	assert.Zero(t, e.assets.Len(), "nothing is uploaded for a rejected project")
	e.assertStagingEmpty()
}

func TestCreateProjectValidationDestroysUploads(t *testing.T) {
	e := newEnv(t)

	rec := e.form(http.MethodPost, "/api/projects", testutil.NewForm(t).
		Field("slug", "villa").
		File("images", "a.png", "image/png", testutil.PNG(t, 1, 1)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "title_ar is required, title_en is required, category is required", msg(t, rec))
	assert.Zero(t, e.assets.Len())
	assert.Len(t, e.assets.Destroyed(), 1)
}

func TestUpdateProjectImages(t *testing.T) {
	e := newEnv(t)

	project := createProject(t, e, projectForm(t, "villa").
		File("images", "a.png", "image/png", testutil.PNG(t, 1, 1)).
		File("images", "b.png", "image/png", testutil.PNG(t, 1, 1)))
	first, second := project.Images[0], project.Images[1]
	path := fmt.Sprintf("/api/projects/%d", project.ID)

	rec := e.form(http.MethodPut, path, testutil.NewForm(t).
		Field("title_en", "Villa II").
		Field("existingImages", second).
		File("images", "c.png", "image/png", testutil.PNG(t, 1, 1)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	updated := decode[models.Project](t, rec)
	assert.Equal(t, "Villa II", updated.TitleEn)
	assert.Equal(t, "فيلا", updated.TitleAr)
	require.Len(t, updated.Images, 2)
	assert.Equal(t, second, updated.Images[0])
	assert.Equal(t, second, updated.Cover, "cover moves off a removed image")

	firstID, _ := e.assets.PublicIDFromURL(first)
	assert.Equal(t, []string{firstID}, e.assets.Destroyed())

	rec = e.form(http.MethodPut, path, testutil.NewForm(t).
		File("images", "d.png", "image/png", testutil.PNG(t, 1, 1)))
	require.Equal(t, http.StatusOK, rec.Code)

	replaced := decode[models.Project](t, rec)
	require.Len(t, replaced.Images, 1, "uploads without a kept list replace the images")
	assert.Equal(t, replaced.Images[0], replaced.Cover)
	assert.Equal(t, 1, e.assets.Len())
}

func TestUpdateProjectFailedSaveKeepsStoredImages(t *testing.T) {
	e := newEnv(t)

	project := createProject(t, e, projectForm(t, "villa").
		File("images", "a.png", "image/png", testutil.PNG(t, 1, 1)))
	createProject(t, e, projectForm(t, "tower"))

	rec := e.form(http.MethodPut, fmt.Sprintf("/api/projects/%d", project.ID), testutil.NewForm(t).
		Field("slug", "tower").
		File("images", "b.png", "image/png", testutil.PNG(t, 1, 1)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Project with this slug already exists", msg(t, rec))

	stored, err := e.store.Projects.Get(t.Context(), project.ID)
	require.NoError(t, err)
	assert.Equal(t, []string(project.Images), []string(stored.Images))
	assert.Equal(t, 1, e.assets.Len(), "the new upload is removed and the stored image survives")

	_, ok := e.assets.PublicIDFromURL(project.Images[0])
	require.True(t, ok)
}

func TestProjectNotFound(t *testing.T) {
	e := newEnv(t)

	for _, path := range []string{"/api/projects/999", "/api/projects/not-a-number"} {
		rec := e.json(http.MethodGet, path, nil, false)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "Project not found", msg(t, rec))

		rec = e.json(http.MethodPut, path, map[string]any{"title_en": "x"}, true)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)

		rec = e.json(http.MethodDelete, path, nil, true)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
}

func TestDeleteProject(t *testing.T) {
	e := newEnv(t)
	project := createProject(t, e, projectForm(t, "villa"))

	rec := e.json(http.MethodDelete, fmt.Sprintf("/api/projects/%d", project.ID), nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Project deleted successfully", msg(t, rec))

	rec = e.json(http.MethodGet, "/api/projects", nil, false)
	assert.Empty(t, decode[[]models.Project](t, rec))
}

func TestUpdateProjectEmptyKeptListClearsImagesAndCover(t *testing.T) {
	e := newEnv(t)

	project := createProject(t, e, projectForm(t, "villa").
		File("images", "a.png", "image/png", testutil.PNG(t, 1, 1)).
		File("images", "b.png", "image/png", testutil.PNG(t, 1, 1)))

	rec := e.form(http.MethodPut, fmt.Sprintf("/api/projects/%d", project.ID),
		testutil.NewForm(t).Field("existingImages", "[]"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	updated := decode[models.Project](t, rec)
	assert.Empty(t, updated.Images)
	assert.Empty(t, updated.Cover)
	assert.Len(t, e.assets.Destroyed(), 2)
	assert.Zero(t, e.assets.Len())
}

func TestUpdateProjectDestroysExactlyTheDroppedImage(t *testing.T) {
	e := newEnv(t)

	project := createProject(t, e, projectForm(t, "villa").
		File("images", "a.png", "image/png", testutil.PNG(t, 1, 1)).
		File("images", "b.png", "image/png", testutil.PNG(t, 1, 1)).
		File("images", "c.png", "image/png", testutil.PNG(t, 1, 1)))
	a, b, c := project.Images[0], project.Images[1], project.Images[2]

	rec := e.json(http.MethodPut, fmt.Sprintf("/api/projects/%d", project.ID),
		map[string]any{"existingImages": []string{a, b}}, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, []string{a, b}, []string(decode[models.Project](t, rec).Images))

	cID, _ := e.assets.PublicIDFromURL(c)
	assert.Equal(t, []string{cID}, e.assets.Destroyed())
}
