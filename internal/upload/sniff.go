package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
	MimeGIF  = "image/gif"
	MimeWEBP = "image/webp"
)

const sniffLen = 12

var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// DetectImageType classifies the file at path by its leading bytes. It returns
// "" when the content matches none of the supported image formats.
func DetectImageType(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	header := make([]byte, sniffLen)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	return sniff(header[:n]), nil
}

func sniff(b []byte) string {
	switch {
	case len(b) >= 3 && b[0] == 0xFF && b[1] == 0xD8 && b[2] == 0xFF:
		return MimeJPEG
	case bytes.HasPrefix(b, pngSignature):
		return MimePNG
	case len(b) >= 6 && (string(b[:6]) == "GIF87a" || string(b[:6]) == "GIF89a"):
		return MimeGIF
	case len(b) >= 12 && string(b[:4]) == "RIFF" && string(b[8:12]) == "WEBP":
		return MimeWEBP
	}
	return ""
}

// Validate checks that the staged file's content matches its declared type.
// A file that fails is removed from disk.
func Validate(f StagedFile) error {
	detected, err := DetectImageType(f.Path)
	if err != nil {
		_ = f.Remove()
		return err
	}

	if detected == "" || detected != f.MimeType {
		_ = f.Remove()
		return ErrSuspiciousFile
	}

	return nil
}
