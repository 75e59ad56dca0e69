package catalog

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/shelfline/shelfline/pkg/errors"
)

// FileStore is a Store backed by a single catalog JSON file. The whole
// catalog is held in memory and rewritten atomically on every mutation,
// which is fine at personal-library scale.
type FileStore struct {
	mu    sync.Mutex
	path  string
	books map[string]Book
}

// NewFileStore opens (or creates) the catalog file at path. Parent
// directories are created as needed.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, books: make(map[string]Book)}

	books, err := ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// First run; the file is created on the first Put.
	case err != nil:
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open catalog %s", path)
	default:
		for _, b := range books {
			s.books[b.ID] = b
		}
	}
	return s, nil
}

// Path returns the catalog file location.
func (s *FileStore) Path() string { return s.path }

// List returns all books ordered by AddedAt then ID.
func (s *FileStore) List(ctx context.Context) ([]Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(), nil
}

func (s *FileStore) sorted() []Book {
	out := make([]Book, 0, len(s.books))
	for _, b := range s.books {
		out = append(out, b)
	}
	slices.SortFunc(out, func(a, b Book) int {
		if !a.AddedAt.Equal(b.AddedAt) {
			if a.AddedAt.Before(b.AddedAt) {
				return -1
			}
			return 1
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// Get returns the book with the given ID.
func (s *FileStore) Get(ctx context.Context, id string) (Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[id]
	if !ok {
		return Book{}, notFound(id)
	}
	return b, nil
}

// FindByISBN returns the book with the given normalized ISBN.
func (s *FileStore) FindByISBN(ctx context.Context, isbn string) (Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.books {
		if b.ISBN == isbn {
			return b, nil
		}
	}
	return Book{}, errors.New(errors.ErrCodeBookNotFound, "no book with ISBN %s", isbn)
}

// Put inserts or replaces a book by ID and persists the catalog.
func (s *FileStore) Put(ctx context.Context, b Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, existed := s.books[b.ID]
	s.books[b.ID] = b
	if err := s.persist(); err != nil {
		if existed {
			s.books[b.ID] = prev
		} else {
			delete(s.books, b.ID)
		}
		return err
	}
	return nil
}

// Delete removes a book by ID and persists the catalog.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[id]
	if !ok {
		return notFound(id)
	}
	delete(s.books, id)
	if err := s.persist(); err != nil {
		s.books[id] = b
		return err
	}
	return nil
}

// persist writes the catalog via a temp file and rename, so a crash mid-write
// never truncates the catalog. Callers must hold mu.
func (s *FileStore) persist() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create catalog dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".catalog-*.json")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write catalog")
	}
	defer os.Remove(tmp.Name())

	if err := WriteJSON(s.sorted(), tmp); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "write catalog")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write catalog")
	}
	return os.Rename(tmp.Name(), s.path)
}

// Close does nothing; every mutation is already persisted.
func (s *FileStore) Close(ctx context.Context) error {
	return nil
}

// Ensure FileStore implements Store.
var _ Store = (*FileStore)(nil)
