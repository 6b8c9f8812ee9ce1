//go:build unit || integration

package builder

import (
	"biblio-api/internal/domain/book"
	"biblio-api/internal/usecase/shared"

	"github.com/google/uuid"
)

type BookBuilder struct {
	Title     string
	Author    string
	Publisher string
	Year      int
	Genre     string
	Synopsis  string
	Type      string
	CoverURL  string
}

func NewBookBuilder() *BookBuilder {
	return &BookBuilder{
		Title:     "Dom Casmurro",
		Author:    "Machado de Assis",
		Publisher: "Garnier",
		Year:      1899,
		Genre:     "Romance",
		Synopsis:  "Bentinho e Capitu.",
		Type:      "normal",
	}
}

func (b *BookBuilder) With(mutate func(*BookBuilder)) *BookBuilder {
	mutate(b)
	return b
}

func (b *BookBuilder) AsReference() *BookBuilder {
	b.Type = "consulta"
	return b
}

func (b *BookBuilder) BuildDomain() (*book.Book, error) {
	return book.NewBook(b.Title, b.Author, b.Publisher, b.Year, b.Genre, b.Synopsis, book.Type(b.Type), b.CoverURL)
}

// BuildSnapshot gives the read-side shape the lending engines consume.
func (b *BookBuilder) BuildSnapshot() shared.BookSnapshot {
	return shared.BookSnapshot{
		ID:     uuid.New(),
		Title:  b.Title,
		Author: b.Author,
		Genre:  b.Genre,
		Type:   book.Type(b.Type),
	}
}
