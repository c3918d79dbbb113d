package library

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// mediaRecord is the flat on-disk shape shared by all media kinds.
// Fields that do not apply to a kind are stored as empty strings.
type mediaRecord struct {
	ItemID    string `json:"itemID"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	ISBN      string `json:"isbn"`
	Genre     string `json:"genre"`
	Issue     string `json:"issue"`
	Duration  string `json:"duration"`
	Available bool   `json:"available"`
}

// userRecord is the on-disk shape of a user. Borrowed items are stored
// as book ISBNs; timestamps are keyed by ISBN on disk but by item ID in
// memory, so load and save translate between the two keyspaces.
type userRecord struct {
	UserID     int               `json:"userID"`
	Name       string            `json:"name"`
	Age        int               `json:"age"`
	Password   string            `json:"password"`
	Role       string            `json:"role"`
	Borrowed   []string          `json:"borrowedBooks"`
	Timestamps map[string]string `json:"borrowedBookTimestamps"`
}

// SaveMedia writes the whole catalog to path as a JSON array.
func (l *Library) SaveMedia(path string) error {
	records := make([]mediaRecord, 0, len(l.media))
	for _, item := range l.media {
		rec := mediaRecord{
			ItemID:    item.ID(),
			Type:      string(item.Type()),
			Title:     item.Title(),
			Available: item.Available(),
		}
		switch m := item.(type) {
		case *Book:
			rec.Author = m.Author
			rec.ISBN = m.ISBN
			rec.Genre = m.Genre
		case *DVD:
			rec.Duration = m.Duration
			rec.Genre = m.Genre
		case *Magazine:
			rec.Issue = m.Issue
		}
		records = append(records, rec)
	}
	return writeJSON(path, records)
}

// LoadMedia reads items from path into the catalog. A missing or
// unreadable file is a warning, never fatal: the process continues with
// whatever was loaded before the failure. Records with an unknown type
// are skipped with a warning.
func (l *Library) LoadMedia(path string) {
	var records []mediaRecord
	if !l.readJSON(path, &records) {
		return
	}

	for _, rec := range records {
		t, ok := ParseMediaType(rec.Type)
		if !ok {
			l.log.Warnw("skipping media record with unknown type", "type", rec.Type, "title", rec.Title)
			continue
		}

		var item MediaItem
		switch t {
		case TypeBook:
			item = NewBook(rec.Title, rec.Author, rec.ISBN, rec.Genre)
		case TypeDVD:
			item = NewDVD(rec.Title, rec.Duration, rec.Genre)
		case TypeMagazine:
			item = NewMagazine(rec.Title, rec.Issue)
		}

		if rec.ItemID != "" {
			setID(item, rec.ItemID)
		}
		if !rec.Available {
			item.Borrow()
		}
		l.media = append(l.media, item)
	}
}

// SaveUsers writes all users to path as a JSON array. Only book-type
// borrowed items carry an ISBN and survive the round trip; borrowed
// DVDs and magazines are not persisted.
func (l *Library) SaveUsers(path string) error {
	records := make([]userRecord, 0, len(l.users))
	for _, u := range l.users {
		rec := userRecord{
			UserID:     u.ID,
			Name:       u.Name,
			Age:        u.Age,
			Password:   u.Password,
			Role:       string(u.Role),
			Borrowed:   []string{},
			Timestamps: map[string]string{},
		}
		for _, item := range u.Borrowed {
			book, ok := item.(*Book)
			if !ok {
				continue
			}
			rec.Borrowed = append(rec.Borrowed, book.ISBN)
			if ts, ok := u.BorrowedAt[book.ID()]; ok {
				rec.Timestamps[book.ISBN] = ts.Format(time.RFC3339)
			}
		}
		records = append(records, rec)
	}
	return writeJSON(path, records)
}

// LoadUsers reads users from path and relinks their borrowed books by
// ISBN against the already-loaded catalog. Media must therefore be
// loaded before users; an ISBN with no matching book is dropped with a
// warning.
func (l *Library) LoadUsers(path string) {
	var records []userRecord
	if !l.readJSON(path, &records) {
		return
	}

	// The media file already stores borrowed books as unavailable, so
	// relinking attaches the record directly instead of going through
	// the borrow engine. Each book gets at most one holder per load.
	relinked := make(map[string]string) // item ID -> holder name

	for _, rec := range records {
		role, ok := ParseRole(rec.Role)
		if !ok {
			l.log.Warnw("unknown role in user record, defaulting", "role", rec.Role, "name", rec.Name)
			role = RoleUser
		}

		var u *User
		if role == RoleAuthor {
			// Biography and written works are never persisted, so only
			// the embedded User survives the load.
			a := NewAuthor(rec.UserID, rec.Name, rec.Age, rec.Password, "")
			u = &a.User
		} else {
			u = NewUser(rec.UserID, rec.Name, rec.Age, rec.Password, role)
		}

		for _, isbn := range rec.Borrowed {
			book := l.findBookByISBN(isbn)
			if book == nil {
				l.log.Warnw("borrowed ISBN not in catalog, dropping", "isbn", isbn, "name", rec.Name)
				continue
			}
			if holder, taken := relinked[book.ID()]; taken {
				l.log.Warnw("borrowed book already relinked, dropping", "isbn", isbn, "name", rec.Name, "holder", holder)
				continue
			}
			relinked[book.ID()] = rec.Name
			book.available = false
			u.Borrowed = append(u.Borrowed, book)
			if raw, ok := rec.Timestamps[isbn]; ok {
				ts, err := time.Parse(time.RFC3339, raw)
				if err != nil {
					l.log.Warnw("unparseable borrow timestamp", "isbn", isbn, "value", raw)
					continue
				}
				u.BorrowedAt[book.ID()] = ts
			}
		}

		l.AddUser(u)
	}
}

func (l *Library) findBookByISBN(isbn string) *Book {
	for _, item := range l.media {
		if book, ok := item.(*Book); ok && book.ISBN == isbn {
			return book
		}
	}
	return nil
}

// setID restores a persisted item ID. Only the loader uses this; IDs
// are immutable everywhere else.
func setID(item MediaItem, id string) {
	switch m := item.(type) {
	case *Book:
		m.id = id
	case *DVD:
		m.id = id
	case *Magazine:
		m.id = id
	}
}

func writeJSON(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// readJSON loads path into v. It reports false after logging when the
// file is missing, unreadable or malformed; load is never fatal.
func (l *Library) readJSON(path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			l.log.Warnw("data file not found, starting empty", "path", path)
		} else {
			l.log.Warnw("cannot read data file", "path", path, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		l.log.Warnw("cannot parse data file, starting empty", "path", path, "error", err)
		return false
	}
	return true
}
