package upload

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarmuz-dev/tarmuz/internal/testutil"
)

func TestDetectImageType(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"jpeg", testutil.JPEG(t, 4, 4), MimeJPEG},
		{"png", testutil.PNG(t, 4, 4), MimePNG},
		{"gif87a", append([]byte("GIF87a"), make([]byte, 6)...), MimeGIF},
		{"gif89a", testutil.GIF(), MimeGIF},
		{"webp", testutil.WebP(), MimeWEBP},
		{"riff without webp tag", []byte("RIFF\x00\x00\x00\x00WAVEfmt "), ""},
		{"executable", []byte("MZ\x90\x00\x03\x00\x00\x00\x04\x00\x00\x00"), ""},
		{"text", []byte("hello, world"), ""},
		{"short jpeg prefix", []byte{0xFF, 0xD8}, ""},
		{"empty", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := testutil.WriteFile(t, dir, tt.name, tt.data)

			got, err := DetectImageType(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectImageTypeMissingFile(t *testing.T) {
	_, err := DetectImageType(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestValidateRejectsUnknownSignatureForEveryDeclaredType(t *testing.T) {
	dir := t.TempDir()
	declared := []string{MimeJPEG, MimePNG, MimeGIF, MimeWEBP, "image/svg+xml", ""}

	for _, mime := range declared {
		path := testutil.WriteFile(t, dir, "payload.bin", []byte("#!/bin/sh\necho pwned\n"))

		err := Validate(StagedFile{Path: path, MimeType: mime})
		assert.ErrorIs(t, err, ErrSuspiciousFile, "declared %q", mime)

		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr), "file should be removed for %q", mime)
	}
}

func TestValidateMismatchRemovesFile(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "photo.jpg", testutil.PNG(t, 2, 2))

	err := Validate(StagedFile{Path: path, MimeType: MimeJPEG})
	require.ErrorIs(t, err, ErrSuspiciousFile)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestValidateAcceptsMatchingType(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "photo.png", testutil.PNG(t, 2, 2))

	require.NoError(t, Validate(StagedFile{Path: path, MimeType: MimePNG}))

	_, err := os.Stat(path)
	assert.NoError(t, err, "a valid file stays on disk")
}
