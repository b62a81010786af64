package upload

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarmuz-dev/tarmuz/internal/assets"
	"github.com/tarmuz-dev/tarmuz/internal/testutil"
)

func stage(t *testing.T, dir, name, mime string, data []byte) StagedFile {
	path := testutil.WriteFile(t, dir, name, data)
	return StagedFile{Path: path, OriginalName: name, MimeType: mime, Size: int64(len(data))}
}

func assertGone(t *testing.T, path string) {
	t.Helper()
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "%s should be deleted", path)
}

func TestPublicID(t *testing.T) {
	assert.Equal(t, "tarmuz/uploads/team/team-1-abc",
		PublicID("tarmuz/uploads", filepath.Join("uploads", "team", "team-1-abc.png")))
	assert.Equal(t, "base/general/photo",
		PublicID("base/", filepath.Join("/tmp", "x", "general", "photo.jpeg")))
}

func TestUploadSuccess(t *testing.T) {
	store := assets.NewMemoryStore()
	u := NewUploader(store, "", nil)
	dir := filepath.Join(t.TempDir(), "general")

	f := stage(t, dir, "image-1-a.png", MimePNG, testutil.PNG(t, 3, 2))

	res, err := u.Upload(context.Background(), f)
	require.NoError(t, err)

	assert.Equal(t, "tarmuz/uploads/general/image-1-a", res.Asset.PublicID)
	assert.Equal(t, "png", res.Asset.Format)
	assert.Equal(t, 3, res.Asset.Width)
	assert.Equal(t, 2, res.Asset.Height)
	assert.Equal(t, f, res.File)
	assertGone(t, f.Path)
}

func TestUploadOverwritesSamePublicID(t *testing.T) {
	store := assets.NewMemoryStore()
	u := NewUploader(store, "tarmuz/uploads", nil)
	dir := filepath.Join(t.TempDir(), "general")

	first := testutil.PNG(t, 1, 1)
	second := testutil.PNG(t, 5, 5)

	res1, err := u.Upload(context.Background(), stage(t, dir, "logo.png", MimePNG, first))
	require.NoError(t, err)
	res2, err := u.Upload(context.Background(), stage(t, dir, "logo.png", MimePNG, second))
	require.NoError(t, err)

	assert.Equal(t, res1.Asset.PublicID, res2.Asset.PublicID)
	assert.Equal(t, 1, store.Len())

	stored, ok := store.Content(res2.Asset.PublicID)
	require.True(t, ok)
	assert.Equal(t, second, stored)

	id, ok := store.PublicIDFromURL(res2.Asset.SecureURL)
	require.True(t, ok)
	assert.Equal(t, res2.Asset.PublicID, id)
}

func TestUploadSuspiciousFile(t *testing.T) {
	store := assets.NewMemoryStore()
	u := NewUploader(store, "", nil)

	f := stage(t, t.TempDir(), "evil.jpg", MimeJPEG, testutil.PNG(t, 1, 1))

	_, err := u.Upload(context.Background(), f)
	require.ErrorIs(t, err, ErrSuspiciousFile)
	assert.False(t, IsRemote(err))
	assert.Equal(t, 0, store.Len())
	assertGone(t, f.Path)
}

func TestUploadRemoteFailureStillCleansUp(t *testing.T) {
	store := assets.NewMemoryStore()
	store.FailUploads("broken", errors.New("service unavailable"))
	u := NewUploader(store, "", nil)

	f := stage(t, filepath.Join(t.TempDir(), "general"), "broken.png", MimePNG, testutil.PNG(t, 1, 1))

	_, err := u.Upload(context.Background(), f)
	require.Error(t, err)
	assert.True(t, IsRemote(err))
	assert.EqualError(t, err, "service unavailable")
	assertGone(t, f.Path)
}

func TestUploadIgnoresCancelledContext(t *testing.T) {
	u := NewUploader(assets.NewMemoryStore(), "", nil)
	f := stage(t, filepath.Join(t.TempDir(), "general"), "a.png", MimePNG, testutil.PNG(t, 1, 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := u.Upload(ctx, f)
	assert.NoError(t, err)
}

func TestUploadBatch(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "content")

	t.Run("skips failures", func(t *testing.T) {
		store := assets.NewMemoryStore()
		store.FailUploads("remote-fail", errors.New("boom"))
		u := NewUploader(store, "", nil)

		files := []StagedFile{
			stage(t, dir, "ok-1.png", MimePNG, testutil.PNG(t, 1, 1)),
			stage(t, dir, "spoofed.jpg", MimeJPEG, testutil.PNG(t, 1, 1)),
			stage(t, dir, "remote-fail.png", MimePNG, testutil.PNG(t, 1, 1)),
			stage(t, dir, "ok-2.jpg", MimeJPEG, testutil.JPEG(t, 1, 1)),
		}

		results, err := u.UploadBatch(context.Background(), files)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "ok-1.png", results[0].File.OriginalName)
		assert.Equal(t, "ok-2.jpg", results[1].File.OriginalName)
		assert.Len(t, URLs(results), 2)

		for _, f := range files {
			assertGone(t, f.Path)
		}
	})

	t.Run("fails when every file fails", func(t *testing.T) {
		u := NewUploader(assets.NewMemoryStore(), "", nil)

		files := []StagedFile{
			stage(t, dir, "a.jpg", MimeJPEG, []byte("not an image")),
			stage(t, dir, "b.png", MimePNG, testutil.GIF()),
		}

		_, err := u.UploadBatch(context.Background(), files)
		assert.ErrorIs(t, err, ErrAllFilesInvalid)
	})

	t.Run("empty batch", func(t *testing.T) {
		u := NewUploader(assets.NewMemoryStore(), "", nil)

		results, err := u.UploadBatch(context.Background(), nil)
		assert.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestDestroyURLs(t *testing.T) {
	store := assets.NewMemoryStore()
	u := NewUploader(store, "", nil)
	dir := filepath.Join(t.TempDir(), "projects")

	res, err := u.Upload(context.Background(), stage(t, dir, "c.png", MimePNG, testutil.PNG(t, 1, 1)))
	require.NoError(t, err)

	n := u.DestroyURLs(context.Background(), []string{
		res.Asset.SecureURL,
		"/uploads/projects/local.png",
		"https://assets.local/demo/image/upload/v1/tarmuz/uploads/projects/missing.png",
	})

	assert.Equal(t, 1, n)
	assert.Equal(t, []string{res.Asset.PublicID, "tarmuz/uploads/projects/missing"}, store.Destroyed())
	assert.Equal(t, 0, store.Len())
}

func TestLazyUploaderStoreUnavailable(t *testing.T) {
	errMissing := errors.New("cloudinary credentials are not configured")
	calls := 0
	u := NewLazyUploader(func(context.Context) (assets.Store, error) {
		calls++
		return nil, errMissing
	}, "", nil)
	dir := filepath.Join(t.TempDir(), "general")

	f := stage(t, dir, "image-1-a.png", MimePNG, testutil.PNG(t, 2, 2))

	_, err := u.Upload(context.Background(), f)
	require.ErrorIs(t, err, errMissing)
	assert.True(t, IsRemote(err))
	assertGone(t, f.Path)

	bad := stage(t, dir, "image-2-b.png", MimePNG, []byte("not an image"))
	_, err = u.Upload(context.Background(), bad)
	assert.ErrorIs(t, err, ErrSuspiciousFile, "validation runs before the store is needed")
	assertGone(t, bad.Path)

	assert.Zero(t, u.DestroyURLs(context.Background(), []string{"https://assets.local/demo/image/upload/v1/x.png"}))
	assert.Zero(t, u.DestroyURLs(context.Background(), nil))
	assert.Equal(t, 2, calls)
}

func TestLazyUploaderBuildsStoreOnUse(t *testing.T) {
	store := assets.NewMemoryStore()
	calls := 0
	u := NewLazyUploader(func(context.Context) (assets.Store, error) {
		calls++
		return store, nil
	}, "", nil)
	assert.Zero(t, calls)

	f := stage(t, filepath.Join(t.TempDir(), "general"), "image-1-a.png", MimePNG, testutil.PNG(t, 2, 2))
	res, err := u.Upload(context.Background(), f)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 1, u.DestroyURLs(context.Background(), []string{res.Asset.SecureURL}))
}
