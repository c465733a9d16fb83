package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/jorge-barreto/narrate/internal/config"
)

// exercise runs the same contract checks against any Store.
func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "narrate:draft:a:1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get missing: err = %v", err)
	}
	for _, k := range []string{"narrate:draft:a:2", "narrate:draft:a:1", "narrate:draft:b:1", "other"} {
		if err := s.Set(ctx, k, []byte(k)); err != nil {
			t.Fatal(err)
		}
	}
	data, err := s.Get(ctx, "narrate:draft:a:1")
	if err != nil || string(data) != "narrate:draft:a:1" {
		t.Fatalf("Get = %q, %v", data, err)
	}
	keys, err := s.Keys(ctx, "narrate:draft:a:")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 2 || keys[0] != "narrate:draft:a:1" || keys[1] != "narrate:draft:a:2" {
		t.Fatalf("Keys = %v", keys)
	}
	if err := s.Set(ctx, "narrate:draft:a:1", []byte("v2")); err != nil {
		t.Fatal(err)
	}
	data, _ = s.Get(ctx, "narrate:draft:a:1")
	if string(data) != "v2" {
		t.Fatalf("overwrite: got %q", data)
	}
	if err := s.Remove(ctx, "narrate:draft:a:1"); err != nil {
		t.Fatal(err)
	}
	if err := s.Remove(ctx, "narrate:draft:a:1"); err != nil {
		t.Fatalf("second Remove: %v", err)
	}
	keys, _ = s.Keys(ctx, "narrate:")
	if len(keys) != 2 {
		t.Fatalf("Keys after remove = %v", keys)
	}
}

func TestFileStore_Contract(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "drafts"), 0)
	if err != nil {
		t.Fatal(err)
	}
	exercise(t, s)
}

func TestRedisStore_Contract(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := DialRedis(context.Background(), mr.Addr(), 0)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	exercise(t, s)
}

func TestRedisStore_GlobCharsInPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	s, _ := DialRedis(context.Background(), mr.Addr(), 0)
	defer s.Close()
	ctx := context.Background()
	s.Set(ctx, "a*b:1", []byte("x"))
	s.Set(ctx, "axb:1", []byte("y"))
	keys, err := s.Keys(ctx, "a*b:")
	if err != nil {
		t.Fatal(err)
	}
	if len(keys) != 1 || keys[0] != "a*b:1" {
		t.Fatalf("Keys = %v", keys)
	}
}

func TestDialRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()
	if _, err := DialRedis(context.Background(), addr, 0); err == nil {
		t.Fatal("expected connection error")
	}
}

func TestFileStore_Quota(t *testing.T) {
	s, _ := NewFileStore(t.TempDir(), 10)
	ctx := context.Background()
	if err := s.Set(ctx, "a", []byte("123456")); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "b", []byte("123456")); !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("err = %v", err)
	}
	// Overwriting an existing key only counts the difference.
	if err := s.Set(ctx, "a", []byte("1234567890")); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, "b"); !errors.Is(err, ErrNotFound) {
		t.Fatal("rejected write was stored")
	}
}

func TestFileStore_IgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewFileStore(dir, 0)
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)
	os.Mkdir(filepath.Join(dir, "sub.json"), 0755)
	s.Set(context.Background(), "k", []byte("v"))
	keys, _ := s.Keys(context.Background(), "")
	if len(keys) != 1 || keys[0] != "k" {
		t.Fatalf("Keys = %v", keys)
	}
}

func TestOpen_Backends(t *testing.T) {
	root := t.TempDir()
	s, err := Open(context.Background(), config.Autosave{Backend: "file", Dir: "drafts"}, root)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Fatalf("got %T", s)
	}
	if _, err := os.Stat(filepath.Join(root, "drafts")); err != nil {
		t.Fatal("store dir not created")
	}

	mr := miniredis.RunT(t)
	s, err = Open(context.Background(), config.Autosave{Backend: "redis", RedisAddr: mr.Addr()}, root)
	if err != nil {
		t.Fatal(err)
	}
	s.(*RedisStore).Close()

	s, err = Open(context.Background(), config.Autosave{Backend: "none"}, root)
	if err != nil || s != nil {
		t.Fatalf("none: %v, %v", s, err)
	}
}
