package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofrs/flock"

	"github.com/DanielFillol/linkedin-people-scraper/internal/model"
)

const (
	fileExt  = ".json"
	lockName = ".lock"
)

// FileStore keeps <root>/<keyword>/<id>.json files.
type FileStore struct {
	dir string
}

// NewFileStore does not touch the disk; the directory is created on the
// first Save or Lock.
func NewFileStore(root, keyword string) (*FileStore, error) {
	if err := validName("keyword", keyword); err != nil {
		return nil, err
	}
	if root == "" {
		root = "results"
	}
	return &FileStore{dir: filepath.Join(root, keyword)}, nil
}

// Dir is the keyword's directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(id string) string { return filepath.Join(s.dir, id+fileExt) }

func (s *FileStore) IsScraped(_ context.Context, id string) (bool, error) {
	if err := validName("id", id); err != nil {
		return false, err
	}
	_, err := os.Stat(s.path(id))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("store: stat %s: %w", id, err)
	}
}

// Save writes the record through a temp file and a rename so a crash never
// leaves a partial record that would count as scraped.
func (s *FileStore) Save(_ context.Context, rec model.ProfileRecord, id string) error {
	if err := validName("id", id); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("store: create %s: %w", s.dir, err)
	}
	rec.Normalize()
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", id, err)
	}

	tmp, err := os.CreateTemp(s.dir, "."+id+".*.tmp")
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("store: write %s: %w", id, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: write %s: %w", id, err)
	}
	if err := os.Rename(tmp.Name(), s.path(id)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("store: rename %s: %w", id, err)
	}
	return nil
}

func (s *FileStore) IDs(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: list %s: %w", s.dir, err)
	}
	ids := []string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, fileExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, fileExt))
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *FileStore) Load(ctx context.Context) ([]model.ProfileRecord, error) {
	ids, err := s.IDs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.ProfileRecord, 0, len(ids))
	for _, id := range ids {
		data, err := os.ReadFile(s.path(id))
		if err != nil {
			return nil, fmt.Errorf("store: read %s: %w", id, err)
		}
		var rec model.ProfileRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("store: decode %s: %w", id, err)
		}
		rec.Normalize()
		out = append(out, rec)
	}
	return out, nil
}

// Lock takes an exclusive advisory lock on <dir>/.lock.
func (s *FileStore) Lock(_ context.Context) (func() error, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create %s: %w", s.dir, err)
	}
	fl := flock.New(filepath.Join(s.dir, lockName))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("store: lock %s: %w", s.dir, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", s.dir, ErrLocked)
	}
	return fl.Unlock, nil
}

func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
