package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListCategories(ctx *gin.Context) {
	categories, err := h.store.Categories.List(ctx.Request.Context())

	if err != nil {
		h.respondError(ctx, err, "Category not found")
		return
	}

	ctx.JSON(http.StatusOK, categories)
}
