package errors

import (
	"strings"
	"testing"
)

func TestValidateISBN(t *testing.T) {
	tests := []struct {
		name    string
		isbn    string
		wantErr bool
	}{
		{name: "valid ISBN-13", isbn: "9780134190440", wantErr: false},
		{name: "valid ISBN-13 with hyphens", isbn: "978-0-13-419044-0", wantErr: false},
		{name: "valid ISBN-10", isbn: "0134190440", wantErr: false},
		{name: "valid ISBN-10 with X check", isbn: "043942089X", wantErr: false},
		{name: "ISBN-13 bad check digit", isbn: "9780134190441", wantErr: true},
		{name: "ISBN-10 bad check digit", isbn: "0134190441", wantErr: true},
		{name: "too short", isbn: "12345", wantErr: true},
		{name: "letters", isbn: "97801341904AB", wantErr: true},
		{name: "empty", isbn: "", wantErr: true},
		{name: "X not in last position", isbn: "04394208X9", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateISBN(tt.isbn)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateISBN(%q) error = %v, wantErr %v", tt.isbn, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidISBN) {
				t.Errorf("error code = %s, want INVALID_ISBN", GetCode(err))
			}
		})
	}
}

func TestNormalizeISBN(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "978-0-13-419044-0", want: "9780134190440"},
		{in: "0 439 42089 x", want: "043942089X"},
		{in: "9780134190440", want: "9780134190440"},
	}
	for _, tt := range tests {
		if got := NormalizeISBN(tt.in); got != tt.want {
			t.Errorf("NormalizeISBN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateItemID(t *testing.T) {
	if err := ValidateItemID("isbn:9780134190440"); err != nil {
		t.Errorf("unexpected error for valid id: %v", err)
	}
	if err := ValidateItemID(""); err == nil {
		t.Error("empty id accepted")
	}
	if err := ValidateItemID("bad\x00id"); err == nil {
		t.Error("control character accepted")
	}
}

func TestValidateURL(t *testing.T) {
	if err := ValidateURL("https://openlibrary.org/isbn/9780134190440.json"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateURL("ftp://example.com"); err == nil {
		t.Error("non-http scheme accepted")
	}
	if err := ValidateURL(""); err == nil {
		t.Error("empty URL accepted")
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"simple file", "shelf.svg", false},
		{"nested path", "out/renders/shelf.json", false},
		{"empty", "", true},
		{"control character", "shelf\x00.svg", true},
		{"newline", "shelf\n.svg", true},
		{"too long", strings.Repeat("a", 501), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidPath {
				t.Errorf("code = %s, want %s", GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}
