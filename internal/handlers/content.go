package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tarmuz-dev/tarmuz/internal/imageset"
	"github.com/tarmuz-dev/tarmuz/internal/models"
	"github.com/tarmuz-dev/tarmuz/internal/repository"
	"github.com/tarmuz-dev/tarmuz/internal/upload"
	"gorm.io/datatypes"
)

const contentNotFound = "Content not found"

var contentImages = upload.Policy{
	Field:     "images",
	MaxFiles:  10,
	Accept:    upload.AcceptAnyImage,
	OnInvalid: upload.SkipInvalid,
	SubFolder: "content",
}

func (h *Handler) ListContent(ctx *gin.Context) {
	contents, err := h.store.Contents.List(ctx.Request.Context())

	if err != nil {
		h.respondError(ctx, err, contentNotFound)
		return
	}

	ctx.JSON(http.StatusOK, contents)
}

func (h *Handler) GetContent(ctx *gin.Context) {
	content, err := h.store.Contents.GetByType(ctx.Request.Context(), ctx.Param("type"))

	if err != nil {
		h.respondError(ctx, err, contentNotFound)
		return
	}

	ctx.JSON(http.StatusOK, content)
}

func (h *Handler) CreateContent(ctx *gin.Context) {
	p, err := readPayload(ctx)

	if err != nil {
		h.respondError(ctx, err, contentNotFound)
		return
	}

	contentType, _ := p.str("type")

	_, err = h.store.Contents.GetByType(ctx.Request.Context(), contentType)

	if err == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"msg": "Content with this type already exists"})
		return
	}

	if !errors.Is(err, repository.ErrNotFound) {
		h.respondError(ctx, err, contentNotFound)
		return
	}

	uploaded, err := h.uploadBatch(ctx, p, contentImages)

	if err != nil {
		h.respondError(ctx, err, contentNotFound)
		return
	}

	content := &models.Content{Type: contentType}
	applyContent(p, content)
	content.Images = datatypes.JSONSlice[string](imageset.Reconcile(nil, keptImages(p), uploaded).Images)

	err = h.store.Contents.Create(ctx.Request.Context(), content)

	if err != nil {
		h.uploader.DestroyURLs(ctx.Request.Context(), uploaded)

		if errors.Is(err, repository.ErrDuplicate) {
			ctx.JSON(http.StatusBadRequest, gin.H{"msg": "Content with this type already exists"})
			return
		}
		h.respondError(ctx, err, contentNotFound)
		return
	}

	h.hub.BroadcastRefresh("content")
	ctx.JSON(http.StatusCreated, content)
}

// UpdateContent upserts the section named by :type.
func (h *Handler) UpdateContent(ctx *gin.Context) {
	p, err := readPayload(ctx)

	if err != nil {
		h.respondError(ctx, err, contentNotFound)
		return
	}

	uploaded, err := h.uploadBatch(ctx, p, contentImages)

	if err != nil {
		h.respondError(ctx, err, contentNotFound)
		return
	}

	var removed []string

	content, _, err := h.store.Contents.Upsert(ctx.Request.Context(), ctx.Param("type"), func(c *models.Content) error {
		applyContent(p, c)

		res := imageset.Reconcile(c.Images, keptImages(p), uploaded)
		c.Images = datatypes.JSONSlice[string](res.Images)
		removed = res.Removed
		return nil
	})

	if err != nil {
		h.uploader.DestroyURLs(ctx.Request.Context(), uploaded)
		h.respondError(ctx, err, contentNotFound)
		return
	}

	h.uploader.DestroyURLs(ctx.Request.Context(), removed)
	h.hub.BroadcastRefresh("content")
	ctx.JSON(http.StatusOK, content)
}

func (h *Handler) DeleteContent(ctx *gin.Context) {
	if err := h.store.Contents.DeleteByType(ctx.Request.Context(), ctx.Param("type")); err != nil {
		h.respondError(ctx, err, contentNotFound)
		return
	}

	h.hub.BroadcastRefresh("content")
	ctx.JSON(http.StatusOK, gin.H{"msg": "Content deleted successfully"})
}

func applyContent(p *payload, c *models.Content) {
	p.setStr(&c.TitleAr, "title_ar")
	p.setStr(&c.TitleEn, "title_en")
	p.setStr(&c.SubtitleAr, "subtitle_ar")
	p.setStr(&c.SubtitleEn, "subtitle_en")
	p.setStr(&c.DescriptionAr, "description_ar")
	p.setStr(&c.DescriptionEn, "description_en")
	p.setStr(&c.Image, "image")

	if c.Data == nil {
		c.Data = datatypes.JSONMap{}
	}
	for k, v := range p.rest(models.ContentColumns) {
		c.Data[k] = v
	}
}

// keptImages is the list of stored images the client wants to keep, sent as
// existingImages or, from JSON clients, as images.
func keptImages(p *payload) *[]string {
	if kept := p.list("existingImages"); kept != nil {
		return kept
	}
	if p.form == nil {
		return p.list("images")
	}
	return nil
}

// uploadBatch stages and uploads the files of policy.Field and returns their URLs.
func (h *Handler) uploadBatch(ctx *gin.Context, p *payload, policy upload.Policy) ([]string, error) {
	staged, err := h.files(p, policy)

	if err != nil || len(staged) == 0 {
		return nil, err
	}

	results, err := h.uploader.UploadBatch(ctx.Request.Context(), staged)

	if err != nil {
		return nil, err
	}

	return upload.URLs(results), nil
}
