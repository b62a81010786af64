package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tarmuz-dev/tarmuz/internal/imageset"
	"github.com/tarmuz-dev/tarmuz/internal/models"
	"github.com/tarmuz-dev/tarmuz/internal/repository"
	"github.com/tarmuz-dev/tarmuz/internal/upload"
	"github.com/tarmuz-dev/tarmuz/internal/utils"
	"gorm.io/datatypes"
)

const projectNotFound = "Project not found"

var projectImages = upload.Policy{
	Field:     "images",
	MaxFiles:  10,
	Accept:    upload.AcceptAnyImage,
	OnInvalid: upload.SkipInvalid,
	SubFolder: "projects",
}

func (h *Handler) ListProjects(ctx *gin.Context) {
	projects, err := h.store.Projects.List(ctx.Request.Context())

	if err != nil {
		h.respondError(ctx, err, projectNotFound)
		return
	}

	ctx.JSON(http.StatusOK, projects)
}

func (h *Handler) GetProject(ctx *gin.Context) {
	id, err := utils.GetID(ctx)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"msg": projectNotFound})
		return
	}

	project, err := h.store.Projects.Get(ctx.Request.Context(), id)

	if err != nil {
		h.respondError(ctx, err, projectNotFound)
		return
	}

	ctx.JSON(http.StatusOK, project)
}

func (h *Handler) CreateProject(ctx *gin.Context) {
	p, err := readPayload(ctx)

	if err != nil {
		h.respondError(ctx, err, projectNotFound)
		return
	}

	project := &models.Project{}
	applyProject(p, project)

	if project.Slug != "" {
		_, err = h.store.Projects.GetBySlug(ctx.Request.Context(), project.Slug)

		if err == nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"msg": "Project with this slug already exists"})
			return
		}

		if !errors.Is(err, repository.ErrNotFound) {
			h.respondError(ctx, err, projectNotFound)
			return
		}
	}

	if err := h.ensureCategory(ctx, project); err != nil {
		h.respondError(ctx, err, projectNotFound)
		return
	}

	uploaded, err := h.uploadBatch(ctx, p, projectImages)

	if err != nil {
		h.respondError(ctx, err, projectNotFound)
		return
	}

	if res := imageset.Reconcile(nil, keptImages(p), uploaded); res.Changed {
		project.Images = datatypes.JSONSlice[string](res.Images)
		if !p.has("cover") {
			project.Cover = imageset.Cover("", res.Images)
		}
	}

	err = h.store.Projects.Create(ctx.Request.Context(), project)

	if err != nil {
		h.uploader.DestroyURLs(ctx.Request.Context(), uploaded)

		if errors.Is(err, repository.ErrDuplicate) {
			ctx.JSON(http.StatusBadRequest, gin.H{"msg": "Project with this slug already exists"})
			return
		}
		h.respondError(ctx, err, projectNotFound)
		return
	}

	h.hub.BroadcastRefresh("projects")
	ctx.JSON(http.StatusCreated, project)
}

// UpdateProject applies a partial update. Images the client no longer keeps
// are deleted from the asset store once the project is saved.
func (h *Handler) UpdateProject(ctx *gin.Context) {
	id, err := utils.GetID(ctx)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"msg": projectNotFound})
		return
	}

	p, err := readPayload(ctx)

	if err != nil {
		h.respondError(ctx, err, projectNotFound)
		return
	}

	project, err := h.store.Projects.Get(ctx.Request.Context(), id)

	if err != nil {
		h.respondError(ctx, err, projectNotFound)
		return
	}

	applyProject(p, project)

	if p.has("category") {
		if err := h.ensureCategory(ctx, project); err != nil {
			h.respondError(ctx, err, projectNotFound)
			return
		}
	}

	uploaded, err := h.uploadBatch(ctx, p, projectImages)

	if err != nil {
		h.respondError(ctx, err, projectNotFound)
		return
	}

	res := imageset.Reconcile(project.Images, keptImages(p), uploaded)

	if res.Changed {
		project.Images = datatypes.JSONSlice[string](res.Images)
		project.Cover = imageset.Cover(project.Cover, res.Images)
	}

	err = h.store.Projects.Save(ctx.Request.Context(), project)

	if err != nil {
		h.uploader.DestroyURLs(ctx.Request.Context(), uploaded)

		if errors.Is(err, repository.ErrDuplicate) {
			ctx.JSON(http.StatusBadRequest, gin.H{"msg": "Project with this slug already exists"})
			return
		}
		h.respondError(ctx, err, projectNotFound)
		return
	}

	h.uploader.DestroyURLs(ctx.Request.Context(), res.Removed)
	h.hub.BroadcastRefresh("projects")
	ctx.JSON(http.StatusOK, project)
}

func (h *Handler) DeleteProject(ctx *gin.Context) {
	id, err := utils.GetID(ctx)

	if err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"msg": projectNotFound})
		return
	}

	if err := h.store.Projects.Delete(ctx.Request.Context(), id); err != nil {
		h.respondError(ctx, err, projectNotFound)
		return
	}

	h.hub.BroadcastRefresh("projects")
	ctx.JSON(http.StatusOK, gin.H{"msg": "Project deleted successfully"})
}

func applyProject(p *payload, project *models.Project) {
	// Older clients send the slug as "id".
	if p.has("slug") {
		p.setStr(&project.Slug, "slug")
	} else if project.ID == 0 {
		p.setStr(&project.Slug, "id")
	}

	p.setStr(&project.TitleAr, "title_ar")
	p.setStr(&project.TitleEn, "title_en")
	p.setStr(&project.DescriptionAr, "description_ar")
	p.setStr(&project.DescriptionEn, "description_en")
	p.setStr(&project.Category, "category")
	p.setStr(&project.CategoryAr, "category_ar")
	p.setStr(&project.Location, "location")
	p.setStr(&project.LocationAr, "location_ar")
	p.setStr(&project.Year, "year")
	p.setStr(&project.Cover, "cover")
}

// ensureCategory records the project's category so it shows up in listings.
func (h *Handler) ensureCategory(ctx *gin.Context, project *models.Project) error {
	if project.Category == "" {
		return nil
	}

	_, err := h.store.Categories.Ensure(ctx.Request.Context(), project.Category, project.CategoryAr)
	return err
}
