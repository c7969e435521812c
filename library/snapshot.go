package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var snapshotJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// SnapshotStore persists the aggregate as one versioned JSON snapshot
// file. Writes stage to a temp file in the same directory and commit via
// rename, so a failed save never clobbers the previous artifact.
type SnapshotStore struct {
	path string
	log  *zap.Logger
}

// NewSnapshotStore builds a store writing to path.
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path, log: zap.NewNop()}
}

// WithStoreLogger attaches a structured logger to the store.
func (s *SnapshotStore) WithStoreLogger(log *zap.Logger) *SnapshotStore {
	s.log = log
	return s
}

// Save writes the whole aggregate. Any failure is reported as
// ErrSaveFailed; the in-memory aggregate and the prior artifact are
// unaffected.
func (s *SnapshotStore) Save(l *Library) error {
	snap := l.export(time.Now().UTC())

	data, err := snapshotJSON.MarshalIndent(snap, "", "  ")
	if err != nil {
		return errors.Join(ErrSaveFailed, err)
	}
	if err := writeFileAtomic(s.path, data, 0o644); err != nil {
		return errors.Join(ErrSaveFailed, err)
	}

	s.log.Info("library saved",
		zap.String("path", s.path),
		zap.Int("items", len(snap.Items)),
		zap.Int("members", len(snap.Members)),
		zap.Int("loans", len(snap.Loans)))
	return nil
}

// Load rebuilds the aggregate from the snapshot file. An absent,
// unreadable or schema-incompatible artifact yields ErrLoadFailed, which
// callers recover from by starting with an empty aggregate.
func (s *SnapshotStore) Load(opts ...Option) (*Library, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}

	var snap snapshot
	if err := snapshotJSON.Unmarshal(data, &snap); err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}

	l, err := fromSnapshot(snap, opts...)
	if err != nil {
		return nil, errors.Join(ErrLoadFailed, err)
	}

	s.log.Info("library loaded", zap.String("path", s.path), zap.Int("loans", len(snap.Loans)))
	return l, nil
}

// writeFileAtomic writes data to a temp file in the target directory,
// flushes it, and renames it over filename.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(filename)

	tmp, err := os.CreateTemp(dir, ".library-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("commit temp file: %w", err)
	}
	return nil
}
