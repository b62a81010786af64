package assets

import (
	"context"
	"fmt"
)

const (
	BackendCloudinary = "cloudinary"
	BackendS3         = "s3"
	BackendMemory     = "memory"
)

type Options struct {
	Backend    string
	Cloudinary CloudinaryOptions
	S3         S3Options
}

// NewStore creates the Store selected by opts.Backend. Cloudinary is the default.
func NewStore(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendCloudinary:
		return NewCloudinaryStore(opts.Cloudinary)
	case BackendS3:
		return NewS3Store(ctx, opts.S3)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown asset backend: %q", opts.Backend)
	}
}
