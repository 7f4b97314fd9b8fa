package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"PaperSummarizer/internal/domain"
	"PaperSummarizer/internal/ports"
)

// FileStore owns the output artifact directory. Summary artifacts named
// {key}-summary.md are the single source of truth for "already
// processed"; document artifacts ({key}.pdf) are a weaker cache handled
// by the downloader. Artifacts are never mutated in place and never
// evicted; unbounded growth is a documented limitation of the store.
type FileStore struct {
	root string
}

var _ ports.SummaryStore = (*FileStore)(nil)

// New builds a store rooted at dir. The directory is created lazily
// before the first write, not here.
func New(root string) *FileStore {
	return &FileStore{root: root}
}

// Root returns the artifact directory path.
func (s *FileStore) Root() string {
	return s.root
}

// Index is an immutable snapshot of completed keys, built once per run.
type Index struct {
	keys map[string]struct{}
}

var _ ports.CacheIndex = (*Index)(nil)

// Has reports set membership against the snapshot. No storage access.
func (i *Index) Has(key string) bool {
	_, ok := i.keys[key]
	return ok
}

// Len returns the number of completed keys in the snapshot.
func (i *Index) Len() int {
	return len(i.keys)
}

// BuildIndex lists the store directory once and collects the key
// portion of every summary artifact. A missing directory is an empty
// cache, not an error.
func (s *FileStore) BuildIndex() (ports.CacheIndex, error) {
	keys := map[string]struct{}{}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return &Index{keys: keys}, nil
		}
		return nil, fmt.Errorf("scan store %s: %w", s.root, err)
	}

	suffix := domain.SummarySuffix()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, suffix) {
			continue
		}
		keys[strings.TrimSuffix(name, suffix)] = struct{}{}
	}

	return &Index{keys: keys}, nil
}

// Persist writes the summary artifact for key atomically: the content
// goes to a temporary file first and is renamed into place, so an index
// scan in a later run can never observe a half-written summary.
func (s *FileStore) Persist(key, summary string) (string, error) {
	path := filepath.Join(s.root, domain.SummaryFileName(key))

	if err := WriteFileAtomic(path, []byte(summary)); err != nil {
		return "", &domain.WriteFailedError{Path: path, Cause: err}
	}

	return path, nil
}

// WriteFileAtomic writes data to path via a temporary sibling file and
// rename. The parent directory is created if absent. On any failure the
// temporary file is removed and the target path is left untouched.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename into place: %w", err)
	}

	return nil
}
