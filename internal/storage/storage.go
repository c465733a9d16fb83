package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jorge-barreto/narrate/internal/config"
)

var (
	ErrNotFound      = errors.New("storage: key not found")
	ErrQuotaExceeded = errors.New("storage: quota exceeded")
)

// Store is a durable key/value store for drafts.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	// Keys returns every key starting with prefix, sorted ascending.
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Open returns the store the autosave config selects, or nil for the
// "none" backend.
func Open(ctx context.Context, cfg config.Autosave, projectRoot string) (Store, error) {
	switch cfg.Backend {
	case "file":
		return NewFileStore(config.Path(projectRoot, cfg.Dir), cfg.Quota)
	case "redis":
		return DialRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
	}
}
