package catalog

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/shelfline/shelfline/pkg/errors"
)

// MemoryStore is an in-memory Store for tests and single-shot CLI runs.
type MemoryStore struct {
	mu    sync.RWMutex
	books map[string]Book
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{books: make(map[string]Book)}
}

// NewMemoryStoreWith creates an in-memory store pre-populated with books.
func NewMemoryStoreWith(books []Book) *MemoryStore {
	s := NewMemoryStore()
	for _, b := range books {
		s.books[b.ID] = b
	}
	return s
}

// List returns all books ordered by AddedAt then ID.
func (s *MemoryStore) List(ctx context.Context) ([]Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

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
	return out, nil
}

// Get returns the book with the given ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.books[id]
	if !ok {
		return Book{}, notFound(id)
	}
	return b, nil
}

// FindByISBN returns the book with the given normalized ISBN.
func (s *MemoryStore) FindByISBN(ctx context.Context, isbn string) (Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.books {
		if b.ISBN == isbn {
			return b, nil
		}
	}
	return Book{}, errors.New(errors.ErrCodeBookNotFound, "no book with ISBN %s", isbn)
}

// Put inserts or replaces a book by ID.
func (s *MemoryStore) Put(ctx context.Context, b Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books[b.ID] = b
	return nil
}

// Delete removes a book by ID.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[id]; !ok {
		return notFound(id)
	}
	delete(s.books, id)
	return nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
