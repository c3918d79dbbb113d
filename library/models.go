package library

import (
	"fmt"

	"github.com/google/uuid"
)

// MediaType tags the concrete kind of a catalog item.
type MediaType string

const (
	TypeBook     MediaType = "book"
	TypeDVD      MediaType = "dvd"
	TypeMagazine MediaType = "magazine"
)

// ParseMediaType maps a stored or typed-in tag to a known media type.
func ParseMediaType(s string) (MediaType, bool) {
	switch MediaType(normalize(s)) {
	case TypeBook:
		return TypeBook, true
	case TypeDVD:
		return TypeDVD, true
	case TypeMagazine:
		return TypeMagazine, true
	}
	return "", false
}

// MediaItem is the uniform surface over books, DVDs and magazines.
// Borrow and Return mutate the item in place; the catalog and every
// borrower's list hold the same underlying record, so availability is
// visible through both paths.
type MediaItem interface {
	ID() string
	Title() string
	Type() MediaType
	Available() bool

	// Borrow marks the item unavailable. It reports false, without any
	// side effect, when the item is already checked out.
	Borrow() bool

	// Return marks the item available again.
	Return()

	// Describe renders a one-line summary for lists and search results.
	Describe() string
}

// media carries the state shared by all item kinds.
type media struct {
	id        string
	title     string
	available bool
}

func newMedia(title string) media {
	return media{id: uuid.NewString(), title: title, available: true}
}

func (m *media) ID() string      { return m.id }
func (m *media) Title() string   { return m.title }
func (m *media) Available() bool { return m.available }

func (m *media) Borrow() bool {
	if !m.available {
		return false
	}
	m.available = false
	return true
}

func (m *media) Return() { m.available = true }

func (m *media) status() string {
	if m.available {
		return "available"
	}
	return "checked out"
}

// Book is a borrowable book with bibliographic metadata.
type Book struct {
	media
	Author string
	ISBN   string
	Genre  string
}

// NewBook creates an available book with a generated ID.
func NewBook(title, author, isbn, genre string) *Book {
	return &Book{media: newMedia(title), Author: author, ISBN: isbn, Genre: genre}
}

func (b *Book) Type() MediaType { return TypeBook }

func (b *Book) Describe() string {
	return fmt.Sprintf("[Book] %s by %s [%s] - %s", b.title, b.Author, b.Genre, b.status())
}

// DVD is a borrowable DVD. Duration is free text in minutes, kept as
// entered so it round-trips through the media file unchanged.
type DVD struct {
	media
	Duration string
	Genre    string
}

// NewDVD creates an available DVD with a generated ID.
func NewDVD(title, duration, genre string) *DVD {
	return &DVD{media: newMedia(title), Duration: duration, Genre: genre}
}

func (d *DVD) Type() MediaType { return TypeDVD }

func (d *DVD) Describe() string {
	return fmt.Sprintf("[DVD] %s, %s min - %s", d.title, d.Duration, d.status())
}

// Magazine is a borrowable magazine issue.
type Magazine struct {
	media
	Issue string
}

// NewMagazine creates an available magazine with a generated ID.
func NewMagazine(title, issue string) *Magazine {
	return &Magazine{media: newMedia(title), Issue: issue}
}

func (m *Magazine) Type() MediaType { return TypeMagazine }

func (m *Magazine) Describe() string {
	return fmt.Sprintf("[Magazine] %s, issue %s - %s", m.title, m.Issue, m.status())
}
