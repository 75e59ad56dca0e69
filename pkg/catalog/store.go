package catalog

import (
	"context"

	"github.com/shelfline/shelfline/pkg/errors"
)

// Store is the catalog persistence interface.
// Implementations must be safe for concurrent use.
type Store interface {
	// List returns all books ordered by AddedAt, oldest first, with ID as
	// a tiebreaker. Stable order keeps shelf layouts stable across calls.
	List(ctx context.Context) ([]Book, error)

	// Get returns the book with the given ID, or a BOOK_NOT_FOUND error.
	Get(ctx context.Context, id string) (Book, error)

	// FindByISBN returns the book with the given normalized ISBN, or a
	// BOOK_NOT_FOUND error.
	FindByISBN(ctx context.Context, isbn string) (Book, error)

	// Put inserts or replaces a book by ID.
	Put(ctx context.Context, b Book) error

	// Delete removes a book by ID, or returns a BOOK_NOT_FOUND error.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// notFound builds the standard missing-book error.
func notFound(id string) error {
	return errors.New(errors.ErrCodeBookNotFound, "no book with id %s", id)
}
