// Package file implements store.Store on top of two JSON documents,
// clients.json and tokens.json, kept in a single storage directory. Every
// mutation rewrites the affected document wholesale through a temp file and
// an atomic rename, guarded by an advisory file lock so processes sharing
// the directory cannot interleave writes.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/inkpress/draftgate/internal/auth/store"
)

const (
	clientsFile = "clients.json"
	tokensFile  = "tokens.json"
	lockFile    = "store.lock"

	documentPerm      = 0o600
	lockRetryInterval = 25 * time.Millisecond
)

// Store persists clients and tokens as JSON documents under a directory.
// Both documents are loaded lazily on first access and cached in memory;
// the cache is the source of truth for reads, the documents for restarts.
type Store struct {
	dir string
	flk *flock.Flock
	now func() time.Time

	mu      sync.Mutex
	clients map[string]clientRecord
	tokens  map[string]tokenRecord
}

var _ store.Store = (*Store)(nil)

// New opens (creating if needed) the storage directory at dir.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	return &Store{
		dir: dir,
		flk: flock.New(filepath.Join(dir, lockFile)),
		now: time.Now,
	}, nil
}

func (s *Store) Clients() store.Clients { return &clientsRepo{s: s} }
func (s *Store) Tokens() store.Tokens   { return &tokensRepo{s: s} }

// Close releases the store. The file lock is only held inside individual
// operations, so there is nothing long-lived to tear down.
func (s *Store) Close() error { return nil }

// Ping verifies the storage directory still exists and is a directory.
func (s *Store) Ping(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("stat storage dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage path %s is not a directory", s.dir)
	}
	return nil
}

// readDocument decodes the named JSON document into out. A missing file is
// not an error; out is left untouched.
func (s *Store) readDocument(ctx context.Context, name string, out any) error {
	locked, err := s.flk.TryRLockContext(ctx, lockRetryInterval)
	if err != nil {
		return fmt.Errorf("acquire read lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("acquire read lock: not granted")
	}
	defer s.flk.Unlock()

	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read %s: %w", name, err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// writeDocument serialises v and atomically replaces the named document:
// write to a temp file in the same directory, then rename over the target.
func (s *Store) writeDocument(ctx context.Context, name string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}

	locked, err := s.flk.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return fmt.Errorf("acquire write lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("acquire write lock: not granted")
	}
	defer s.flk.Unlock()

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp for %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp for %s: %w", name, err)
	}
	if err := os.Chmod(tmpName, documentPerm); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp for %s: %w", name, err)
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
