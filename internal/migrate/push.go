package migrate

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/tarmuz-dev/tarmuz/internal/assets"
)

var pushExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".webp": true,
	".gif": true, ".svg": true, ".bmp": true,
}

type PushResult struct {
	Mapping  Mapping
	Found    int
	Uploaded int
	Failed   int
}

// Push uploads every image under root to store as
// {baseFolder}/{relative path without extension} and returns the mapping from
// relative path to URL. Files that fail are logged and left out of the mapping.
func Push(ctx context.Context, store assets.Store, root, baseFolder string, logger *slog.Logger) (*PushResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if baseFolder == "" {
		baseFolder = assets.DefaultBaseFolder
	}

	res := &PushResult{Mapping: Mapping{}}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !pushExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		res.Found++

		publicID := strings.TrimSuffix(baseFolder, "/") + "/" + strings.TrimSuffix(rel, filepath.Ext(rel))

		asset, err := store.Upload(ctx, path, publicID)
		if err != nil {
			res.Failed++
			logger.Error("failed to push asset", "path", rel, "error", err)
			return nil
		}

		res.Uploaded++
		res.Mapping[rel] = asset.SecureURL
		logger.Info("pushed asset", "path", rel, "url", asset.SecureURL)
		return nil
	})

	if err != nil {
		return res, fmt.Errorf("walk %s: %w", root, err)
	}

	return res, nil
}
