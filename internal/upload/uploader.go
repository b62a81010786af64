package upload

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/tarmuz-dev/tarmuz/internal/assets"
)

// PublicID derives the deterministic remote identifier of a staged file:
// {baseFolder}/{staging dir name}/{file name without extension}.
func PublicID(baseFolder, stagedPath string) string {
	subFolder := filepath.Base(filepath.Dir(stagedPath))
	base := filepath.Base(stagedPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))

	return strings.TrimSuffix(baseFolder, "/") + "/" + subFolder + "/" + name
}

// Result pairs a staged file with the asset it became.
type Result struct {
	File  StagedFile
	Asset assets.Asset
}

// StoreFunc returns the asset store, building it on first use.
type StoreFunc func(ctx context.Context) (assets.Store, error)

// Uploader validates staged files and pushes them to the asset store.
type Uploader struct {
	store      StoreFunc
	baseFolder string
	logger     *slog.Logger
}

func NewUploader(store assets.Store, baseFolder string, logger *slog.Logger) *Uploader {
	return NewLazyUploader(func(context.Context) (assets.Store, error) { return store, nil }, baseFolder, logger)
}

// NewLazyUploader resolves the store on every remote call. A store that
// cannot be built fails the upload with a RemoteError.
func NewLazyUploader(store StoreFunc, baseFolder string, logger *slog.Logger) *Uploader {
	if baseFolder == "" {
		baseFolder = assets.DefaultBaseFolder
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{store: store, baseFolder: baseFolder, logger: logger}
}

// Upload validates f and uploads it. The staged copy is deleted on every path.
// The remote call is not cancelled when ctx is, so a client disconnect cannot
// leave a half-finished upload behind.
func (u *Uploader) Upload(ctx context.Context, f StagedFile) (Result, error) {
	defer func() {
		if err := f.Remove(); err != nil {
			u.logger.Warn("failed to remove staged file", "path", f.Path, "error", err)
		}
	}()

	if err := Validate(f); err != nil {
		return Result{}, err
	}

	store, err := u.store(context.WithoutCancel(ctx))
	if err != nil {
		return Result{}, &RemoteError{Err: err}
	}

	asset, err := store.Upload(context.WithoutCancel(ctx), f.Path, PublicID(u.baseFolder, f.Path))
	if err != nil {
		return Result{}, &RemoteError{Err: err}
	}

	return Result{File: f, Asset: asset}, nil
}

// UploadBatch uploads files one after another. Files that fail are skipped;
// the batch fails with ErrAllFilesInvalid only when none succeeded.
func (u *Uploader) UploadBatch(ctx context.Context, files []StagedFile) ([]Result, error) {
	if len(files) == 0 {
		return nil, nil
	}

	results := make([]Result, 0, len(files))

	for _, f := range files {
		res, err := u.Upload(ctx, f)
		if err != nil {
			u.logger.Warn("skipping upload", "file", f.OriginalName, "error", err)
			continue
		}
		results = append(results, res)
	}

	if len(results) == 0 {
		return nil, ErrAllFilesInvalid
	}

	return results, nil
}

// URLs returns the secure URL of every result.
func URLs(results []Result) []string {
	urls := make([]string, 0, len(results))
	for _, r := range results {
		urls = append(urls, r.Asset.SecureURL)
	}
	return urls
}

// DestroyURLs deletes the remote assets behind urls. References that do not
// point at the asset store are ignored, and failures are only logged.
func (u *Uploader) DestroyURLs(ctx context.Context, urls []string) int {
	if len(urls) == 0 {
		return 0
	}

	store, err := u.store(context.WithoutCancel(ctx))
	if err != nil {
		u.logger.Warn("skipping remote asset cleanup", "count", len(urls), "error", err)
		return 0
	}

	destroyed := 0

	for _, raw := range urls {
		publicID, ok := store.PublicIDFromURL(raw)
		if !ok {
			continue
		}

		if err := store.Destroy(context.WithoutCancel(ctx), publicID); err != nil {
			u.logger.Warn("failed to destroy remote asset", "public_id", publicID, "error", err)
			continue
		}
		destroyed++
	}

	return destroyed
}

// IsRemote reports whether err came from the asset store rather than validation.
func IsRemote(err error) bool {
	var remote *RemoteError
	return errors.As(err, &remote)
}
