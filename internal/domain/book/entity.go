package book

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyTitle      = errors.New("title is required")
	ErrEmptyAuthor     = errors.New("author is required")
	ErrInvalidType     = errors.New("invalid book type")
	ErrCopyNotBorrowed = errors.New("copy is not borrowed")
	ErrCopyNotFree     = errors.New("copy is not available")
)

// Book is catalog metadata. It is created at seed time and read-only in the
// lending core; there is no mutator beyond construction.
type Book struct {
	id        uuid.UUID
	title     string
	author    string
	publisher string
	year      int
	genre     string
	synopsis  string
	bookType  Type
	coverURL  string
}

func NewBook(title, author, publisher string, year int, genre, synopsis string, bookType Type, coverURL string) (*Book, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if author == "" {
		return nil, ErrEmptyAuthor
	}
	if bookType == "" {
		bookType = TypeNormal
	}
	if !bookType.IsValid() {
		return nil, ErrInvalidType
	}

	return &Book{
		id:        uuid.New(),
		title:     title,
		author:    author,
		publisher: publisher,
		year:      year,
		genre:     genre,
		synopsis:  synopsis,
		bookType:  bookType,
		coverURL:  coverURL,
	}, nil
}

func ReconstructBook(id uuid.UUID, title, author, publisher string, year int, genre, synopsis string, bookType Type, coverURL string) *Book {
	return &Book{
		id:        id,
		title:     title,
		author:    author,
		publisher: publisher,
		year:      year,
		genre:     genre,
		synopsis:  synopsis,
		bookType:  bookType,
		coverURL:  coverURL,
	}
}

func (b *Book) ID() uuid.UUID     { return b.id }
func (b *Book) Title() string     { return b.title }
func (b *Book) Author() string    { return b.author }
func (b *Book) Publisher() string { return b.publisher }
func (b *Book) Year() int         { return b.year }
func (b *Book) Genre() string     { return b.genre }
func (b *Book) Synopsis() string  { return b.synopsis }
func (b *Book) Type() Type        { return b.bookType }
func (b *Book) CoverURL() string  { return b.coverURL }

// Copy is one physical, independently lendable instance of a Book. Its status
// is borrowed iff exactly one active loan references it; the transition is
// always driven through the loan engine.
type Copy struct {
	id         uuid.UUID
	bookID     uuid.UUID
	copyNumber int
	status     CopyStatus
}

func NewCopy(bookID uuid.UUID, copyNumber int) *Copy {
	if copyNumber < 1 {
		copyNumber = 1
	}
	return &Copy{
		id:         uuid.New(),
		bookID:     bookID,
		copyNumber: copyNumber,
		status:     CopyAvailable,
	}
}

func ReconstructCopy(id, bookID uuid.UUID, copyNumber int, status CopyStatus) *Copy {
	return &Copy{
		id:         id,
		bookID:     bookID,
		copyNumber: copyNumber,
		status:     status,
	}
}

func (c *Copy) ID() uuid.UUID      { return c.id }
func (c *Copy) BookID() uuid.UUID  { return c.bookID }
func (c *Copy) CopyNumber() int    { return c.copyNumber }
func (c *Copy) Status() CopyStatus { return c.status }

func (c *Copy) IsAvailable() bool {
	return c.status == CopyAvailable
}

func (c *Copy) MarkBorrowed() error {
	if c.status != CopyAvailable {
		return ErrCopyNotFree
	}
	c.status = CopyBorrowed
	return nil
}

func (c *Copy) MarkAvailable() error {
	if c.status != CopyBorrowed {
		return ErrCopyNotBorrowed
	}
	c.status = CopyAvailable
	return nil
}
