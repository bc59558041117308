package blobstore

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FSBlobStore stores blob content and a JSON metadata sidecar per blob
// under a root directory. It is the default backend.
type FSBlobStore struct {
	root string
	mu   sync.Mutex
}

// NewFSBlobStore creates the root directory if needed.
func NewFSBlobStore(root string) (*FSBlobStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating blob root %s: %w", root, err)
	}
	return &FSBlobStore{root: root}, nil
}

func (s *FSBlobStore) contentPath(id string) string {
	return filepath.Join(s.root, id+".bin")
}

func (s *FSBlobStore) metaPath(id string) string {
	return filepath.Join(s.root, id+".json")
}

func (s *FSBlobStore) Upload(_ context.Context, meta BlobMetadata, content io.Reader) (*BlobMetadata, error) {
	if meta.FileName == "" {
		return nil, ErrMissingFileName
	}

	data, err := io.ReadAll(io.LimitReader(content, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}
	if int64(len(data)) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	h := sha256.Sum256(data)

	meta.ID = uuid.New().String()
	meta.Size = int64(len(data))
	meta.Hash = fmt.Sprintf("%x", h)
	meta.CreatedAt = time.Now().UTC()
	if meta.Tags == nil {
		meta.Tags = make(map[string]string)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.contentPath(meta.ID), data, 0o644); err != nil {
		return nil, fmt.Errorf("writing blob content: %w", err)
	}
	if err := s.writeMeta(meta); err != nil {
		os.Remove(s.contentPath(meta.ID))
		return nil, err
	}

	out := meta // copy
	return &out, nil
}

func (s *FSBlobStore) writeMeta(meta BlobMetadata) error {
	buf, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding blob metadata: %w", err)
	}
	if err := os.WriteFile(s.metaPath(meta.ID), buf, 0o644); err != nil {
		return fmt.Errorf("writing blob metadata: %w", err)
	}
	return nil
}

func (s *FSBlobStore) readMeta(id string) (*BlobMetadata, error) {
	buf, err := os.ReadFile(s.metaPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("reading blob metadata: %w", err)
	}
	var meta BlobMetadata
	if err := json.Unmarshal(buf, &meta); err != nil {
		return nil, fmt.Errorf("decoding blob metadata: %w", err)
	}
	return &meta, nil
}

func (s *FSBlobStore) Download(_ context.Context, id string) (io.ReadCloser, *BlobMetadata, error) {
	meta, err := s.readMeta(id)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(s.contentPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrBlobNotFound
		}
		return nil, nil, fmt.Errorf("opening blob content: %w", err)
	}
	return f, meta, nil
}

func (s *FSBlobStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.metaPath(id)); os.IsNotExist(err) {
		return ErrBlobNotFound
	}
	if err := os.Remove(s.contentPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing blob content: %w", err)
	}
	if err := os.Remove(s.metaPath(id)); err != nil {
		return fmt.Errorf("removing blob metadata: %w", err)
	}
	return nil
}

func (s *FSBlobStore) GetMetadata(_ context.Context, id string) (*BlobMetadata, error) {
	return s.readMeta(id)
}

func (s *FSBlobStore) ListBySubject(ctx context.Context, subjectID, category string, limit, offset int) ([]*BlobMetadata, int, error) {
	return s.Search(ctx, SearchParams{
		SubjectID: subjectID,
		Category:  category,
		Limit:     limit,
		Offset:    offset,
	})
}

func (s *FSBlobStore) Search(_ context.Context, params SearchParams) ([]*BlobMetadata, int, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, 0, fmt.Errorf("scanning blob root: %w", err)
	}

	var matched []*BlobMetadata
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		meta, err := s.readMeta(strings.TrimSuffix(e.Name(), ".json"))
		if err != nil {
			continue // sidecar removed mid-scan
		}
		if matchesSearch(meta, params) {
			matched = append(matched, meta)
		}
	}

	total := len(matched)
	matched = page(matched, params.Limit, params.Offset)
	return matched, total, nil
}
