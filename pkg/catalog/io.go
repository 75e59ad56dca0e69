package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// File is the on-disk catalog format used by import/export and the CLI.
// The format is human-readable and designed for round-trip fidelity.
type File struct {
	Books []Book `json:"books"`
}

// WriteJSON encodes books as an indented catalog file to w.
func WriteJSON(books []Book, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(File{Books: books}); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return nil
}

// ReadJSON decodes a catalog file from r.
func ReadJSON(r io.Reader) ([]Book, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return f.Books, nil
}

// WriteFile writes books to a catalog file at path.
func WriteFile(books []Book, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return WriteJSON(books, f)
}

// ReadFile reads a catalog file from path.
func ReadFile(path string) ([]Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadJSON(f)
}
