package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tarmuz-dev/tarmuz/internal/types"
	"github.com/tarmuz-dev/tarmuz/internal/upload"
)

var (
	singleUpload = upload.Policy{
		Field:     "image",
		MaxFiles:  1,
		Accept:    upload.AcceptAnyImage,
		OnInvalid: upload.RejectInvalid,
		SubFolder: "general",
	}

	multipleUpload = upload.Policy{
		Field:     "images",
		MaxFiles:  10,
		Accept:    upload.AcceptAnyImage,
		OnInvalid: upload.SkipInvalid,
		SubFolder: "general",
	}
)

func uploadedFile(r upload.Result) types.UploadedFile {
	return types.UploadedFile{
		SecureURL:        r.Asset.SecureURL,
		URL:              r.Asset.SecureURL,
		Filename:         r.Asset.PublicID,
		OriginalFilename: r.File.OriginalName,
		Size:             r.File.Size,
		Format:           r.Asset.Format,
		Width:            r.Asset.Width,
		Height:           r.Asset.Height,
	}
}

func (h *Handler) UploadImage(ctx *gin.Context) {
	form, err := ctx.MultipartForm()

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"msg": upload.ErrNoFile.Error()})
		return
	}

	staged, err := h.intake.Receive(form, singleUpload)

	if err != nil {
		h.respondError(ctx, err, "")
		return
	}

	if len(staged) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"msg": upload.ErrNoFile.Error()})
		return
	}

	res, err := h.uploader.Upload(ctx.Request.Context(), staged[0])

	if err != nil {
		h.respondError(ctx, err, "")
		return
	}

	file := uploadedFile(res)

	ctx.JSON(http.StatusOK, gin.H{
		"msg":               "File uploaded successfully",
		"secure_url":        file.SecureURL,
		"url":               file.URL,
		"filename":          file.Filename,
		"original_filename": file.OriginalFilename,
		"size":              file.Size,
		"format":            file.Format,
		"width":             file.Width,
		"height":            file.Height,
	})
}

// UploadImages uploads up to ten images, skipping any that fail.
func (h *Handler) UploadImages(ctx *gin.Context) {
	form, err := ctx.MultipartForm()

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"msg": "No files uploaded"})
		return
	}

	staged, err := h.intake.Receive(form, multipleUpload)

	if err != nil {
		h.respondError(ctx, err, "")
		return
	}

	if len(staged) == 0 {
		msg := "No files uploaded"
		if len(form.File[multipleUpload.Field]) > 0 {
			msg = upload.ErrAllFilesInvalid.Error()
		}
		ctx.JSON(http.StatusBadRequest, gin.H{"msg": msg})
		return
	}

	results, err := h.uploader.UploadBatch(ctx.Request.Context(), staged)

	if err != nil {
		h.respondError(ctx, err, "")
		return
	}

	files := make([]types.UploadedFile, 0, len(results))
	for _, r := range results {
		files = append(files, uploadedFile(r))
	}

	ctx.JSON(http.StatusOK, gin.H{"msg": "Files uploaded successfully", "files": files})
}
