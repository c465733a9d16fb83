package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/jorge-barreto/narrate/internal/state"
)

const fileExt = ".json"

// FileStore keeps one file per key in a directory. Writes are atomic.
// A positive quota caps the total bytes stored.
type FileStore struct {
	dir   string
	quota int64
	mu    sync.Mutex
}

func NewFileStore(dir string, quota int64) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating store dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir, quota: quota}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, url.QueryEscape(key)+fileExt)
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return data, err
}

func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quota > 0 {
		used, err := s.usage()
		if err != nil {
			return err
		}
		if info, err := os.Stat(s.path(key)); err == nil {
			used -= info.Size()
		}
		if used+int64(len(value)) > s.quota {
			return fmt.Errorf("%w: %d of %d bytes used", ErrQuotaExceeded, used, s.quota)
		}
	}
	return state.WriteFileAtomic(s.path(key), value, 0644)
}

func (s *FileStore) Remove(_ context.Context, key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (s *FileStore) Keys(_ context.Context, prefix string) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileExt) || strings.HasPrefix(name, ".") {
			continue
		}
		key, err := url.QueryUnescape(strings.TrimSuffix(name, fileExt))
		if err != nil {
			continue
		}
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// usage sums the size of stored values. Callers hold s.mu.
func (s *FileStore) usage() (int64, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total, nil
}
