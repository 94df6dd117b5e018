package memory

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/baechuer/task-manager/internal/application/auth"
)

// ImageStore keeps uploads in process. Used in dev when no bucket is configured.
type ImageStore struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]storedImage
}

type storedImage struct {
	ContentType string
	Data        []byte
}

func NewImageStore(baseURL string) *ImageStore {
	return &ImageStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string]storedImage),
	}
}

func (s *ImageStore) Upload(ctx context.Context, folder string, img auth.ImageUpload) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, img.Body); err != nil {
		return "", err
	}

	key := uuid.NewString()
	if f := strings.Trim(folder, "/"); f != "" {
		key = f + "/" + key
	}

	s.mu.Lock()
	s.objects[key] = storedImage{ContentType: img.ContentType, Data: buf.Bytes()}
	s.mu.Unlock()

	return s.baseURL + "/" + key, nil
}

func (s *ImageStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// Get returns a stored object; ok is false when the key is unknown.
func (s *ImageStore) Get(key string) (contentType string, data []byte, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	img, ok := s.objects[key]
	return img.ContentType, img.Data, ok
}
