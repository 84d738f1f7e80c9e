package model

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// Validation constants
const (
	// MaxSafeInteger bounds publishedYear and availableCopies so every stored
	// value round-trips through a JSON number without loss.
	MaxSafeInteger = 1<<53 - 1
)

// Book is a single catalog entry.
type Book struct {
	ID              string    `json:"_id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Category        string    `json:"category"`
	PublishedYear   int       `json:"publishedYear"`
	AvailableCopies int       `json:"availableCopies"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// BookRequest is the body of POST /api/books and PUT /api/books/{id}.
// Fields stay raw until coerced so missing and null values can be told apart.
type BookRequest struct {
	Title           json.RawMessage `json:"title"`
	Author          json.RawMessage `json:"author"`
	Category        json.RawMessage `json:"category"`
	PublishedYear   json.RawMessage `json:"publishedYear"`
	AvailableCopies json.RawMessage `json:"availableCopies"`
}

// AddCopiesRequest is the body of PATCH /api/books/{id}/copies.
type AddCopiesRequest struct {
	AddCopies json.RawMessage `json:"addCopies"`
}

// CategoryRequest is the body of PATCH /api/books/{id}/category.
type CategoryRequest struct {
	Category json.RawMessage `json:"category"`
}

// BookFilter narrows a book listing. With PublishedAfter set the result is
// ordered by publishedYear descending, otherwise by createdAt descending.
type BookFilter struct {
	Category       *string
	PublishedAfter *float64
}

// HasRequiredFields reports whether a create request carries every field.
// Text fields must be truthy; numeric fields only need to be non-null so a
// book can be created with zero copies.
func (r *BookRequest) HasRequiredFields() bool {
	return Truthy(r.Title) && Truthy(r.Author) && Truthy(r.Category) &&
		!Nullish(r.PublishedYear) && !Nullish(r.AvailableCopies)
}

// BookFields holds coerced but not yet validated book content.
type BookFields struct {
	Title           string
	Author          string
	Category        string
	PublishedYear   float64
	AvailableCopies float64
}

// Fields coerces the request into BookFields. Text fields holding objects or
// arrays are reported as field errors.
func (r *BookRequest) Fields() (BookFields, []FieldError) {
	var errs []FieldError
	text := func(field string, raw json.RawMessage) string {
		s, err := StringOf(raw)
		if err != nil {
			errs = append(errs, FieldError{Field: field, Message: "must be a string"})
		}
		return s
	}

	f := BookFields{
		Title:           text("title", r.Title),
		Author:          text("author", r.Author),
		Category:        text("category", r.Category),
		PublishedYear:   NumberOf(r.PublishedYear),
		AvailableCopies: NumberOf(r.AvailableCopies),
	}
	return f, errs
}

// Validate checks BookFields against the catalog schema.
func (f BookFields) Validate() []FieldError {
	var errs []FieldError

	errs = append(errs, validateText("title", f.Title)...)
	errs = append(errs, validateText("author", f.Author)...)
	errs = append(errs, ValidateCategory(f.Category)...)

	switch {
	case math.IsNaN(f.PublishedYear):
		errs = append(errs, FieldError{Field: "publishedYear", Message: "is required and must be a number"})
	case !IsInteger(f.PublishedYear):
		errs = append(errs, FieldError{Field: "publishedYear", Message: "must be an integer"})
	case math.Abs(f.PublishedYear) > MaxSafeInteger:
		errs = append(errs, FieldError{Field: "publishedYear", Message: "is out of range"})
	}

	switch {
	case math.IsNaN(f.AvailableCopies):
		errs = append(errs, FieldError{Field: "availableCopies", Message: "is required and must be a number"})
	case !IsInteger(f.AvailableCopies):
		errs = append(errs, FieldError{Field: "availableCopies", Message: "must be an integer"})
	case f.AvailableCopies < 0:
		errs = append(errs, FieldError{Field: "availableCopies", Message: "must be 0 or greater"})
	case f.AvailableCopies > MaxSafeInteger:
		errs = append(errs, FieldError{Field: "availableCopies", Message: "is out of range"})
	}

	return errs
}

// Apply copies validated fields onto b, trimming text the way the schema
// stores it. Identity and timestamps are left untouched.
func (f BookFields) Apply(b *Book) {
	b.Title = strings.TrimSpace(f.Title)
	b.Author = strings.TrimSpace(f.Author)
	b.Category = strings.TrimSpace(f.Category)
	b.PublishedYear = int(f.PublishedYear)
	b.AvailableCopies = int(f.AvailableCopies)
}

// ValidateCategory checks a category value on its own, as used when a book
// is moved to another category.
func ValidateCategory(category string) []FieldError {
	return validateText("category", category)
}

func validateText(field, value string) []FieldError {
	if strings.TrimSpace(value) == "" {
		return []FieldError{{Field: field, Message: "is required"}}
	}
	return nil
}
