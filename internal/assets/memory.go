package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// MemoryStore keeps uploaded files in memory. It backs local development and tests.
type MemoryStore struct {
	mu        sync.Mutex
	host      string
	objects   map[string]memoryObject
	version   int
	destroyed []string
	failing   map[string]error
}

type memoryObject struct {
	data   []byte
	format string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		host:    "https://assets.local/demo",
		objects: make(map[string]memoryObject),
		failing: make(map[string]error),
	}
}

// FailUploads makes every upload whose public ID ends with suffix fail with err.
func (s *MemoryStore) FailUploads(suffix string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[suffix] = err
}

func (s *MemoryStore) Upload(ctx context.Context, localPath, publicID string) (Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for suffix, err := range s.failing {
		if strings.HasSuffix(publicID, suffix) {
			return Asset{}, err
		}
	}

	data, err := os.ReadFile(localPath)
	if err != nil {
		return Asset{}, fmt.Errorf("read %s: %w", localPath, err)
	}

	format, width, height := probeImage(bytes.NewReader(data), localPath)

	s.version++
	s.objects[publicID] = memoryObject{data: data, format: format}

	return Asset{
		PublicID:  publicID,
		SecureURL: fmt.Sprintf("%s/image/upload/v%d/%s.%s", s.host, s.version, publicID, format),
		Format:    format,
		Width:     width,
		Height:    height,
		Bytes:     int64(len(data)),
	}, nil
}

func (s *MemoryStore) Destroy(ctx context.Context, publicID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.destroyed = append(s.destroyed, publicID)

	if _, ok := s.objects[publicID]; !ok {
		return errors.New("not found")
	}

	delete(s.objects, publicID)
	return nil
}

func (s *MemoryStore) PublicIDFromURL(rawURL string) (string, bool) {
	return CloudinaryPublicID(rawURL)
}

// Content returns the bytes currently stored under publicID.
func (s *MemoryStore) Content(publicID string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.objects[publicID]
	return obj.data, ok
}

// Destroyed returns every public ID passed to Destroy, in call order.
func (s *MemoryStore) Destroyed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.destroyed...)
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.objects)
}
