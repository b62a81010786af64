package assets

import (
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp"
)

// probeImage reads the image header from r. When the header cannot be decoded
// the format falls back to the file extension and the dimensions stay zero.
func probeImage(r io.Reader, name string) (format string, width, height int) {
	cfg, format, err := image.DecodeConfig(r)
	if err == nil {
		return format, cfg.Width, cfg.Height
	}

	format = strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if format == "jpg" {
		format = "jpeg"
	}
	return format, 0, 0
}

var contentTypes = map[string]string{
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

func contentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}
