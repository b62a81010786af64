package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tarmuz-dev/tarmuz/internal/models"
	"github.com/tarmuz-dev/tarmuz/internal/repository"
	"github.com/tarmuz-dev/tarmuz/internal/upload"
)

var badUploads = []error{
	upload.ErrNoFile,
	upload.ErrFileTooLarge,
	upload.ErrTooManyFiles,
	upload.ErrUnsupportedType,
	upload.ErrSuspiciousFile,
	upload.ErrAllFilesInvalid,
}

// respondError writes the status and body for err. notFound is the message
// used when err is repository.ErrNotFound.
func (h *Handler) respondError(ctx *gin.Context, err error, notFound string) {
	var validation *models.ValidationError

	if errors.As(err, &validation) {
		ctx.JSON(http.StatusBadRequest, gin.H{"msg": validation.Error()})
		return
	}

	if errors.Is(err, repository.ErrNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"msg": notFound})
		return
	}

	for _, target := range badUploads {
		if errors.Is(err, target) {
			ctx.JSON(http.StatusBadRequest, gin.H{"msg": target.Error()})
			return
		}
	}

	_ = ctx.Error(err)

	if upload.IsRemote(err) {
		h.logger.Error("asset store request failed", "path", ctx.FullPath(), "error", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"msg": err.Error()})
		return
	}

	h.logger.Error("request failed", "path", ctx.FullPath(), "error", err)
	ctx.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error", "error": err.Error()})
}
