package library

import "time"

// MaxBorrowedBooks caps how many book-type items a single user may hold
// at once. DVDs and magazines are uncapped.
const MaxBorrowedBooks = 3

// User is a registered account. Borrowed holds references into the
// catalog's item list, not copies, so availability stays consistent
// between the two views.
type User struct {
	ID       int
	Name     string
	Age      int
	Password string
	Role     Role

	Borrowed   []MediaItem
	BorrowedAt map[string]time.Time // item ID -> borrow time
}

// NewUser creates a user with an empty borrow list.
func NewUser(id int, name string, age int, password string, role Role) *User {
	return &User{
		ID:         id,
		Name:       name,
		Age:        age,
		Password:   password,
		Role:       role,
		BorrowedAt: make(map[string]time.Time),
	}
}

// BorrowItem checks the item out to the user and records the borrow
// time. The user is left untouched when the item is unavailable.
func (u *User) BorrowItem(item MediaItem) error {
	if !item.Borrow() {
		return ErrItemUnavailable
	}
	u.Borrowed = append(u.Borrowed, item)
	u.BorrowedAt[item.ID()] = time.Now()
	return nil
}

// ReturnItem reverses a borrow: the item becomes available again and
// leaves the user's list and timestamp map. Returning an item the user
// does not hold is an error and changes nothing.
func (u *User) ReturnItem(item MediaItem) error {
	for i, held := range u.Borrowed {
		if held.ID() == item.ID() {
			held.Return()
			u.Borrowed = append(u.Borrowed[:i], u.Borrowed[i+1:]...)
			delete(u.BorrowedAt, held.ID())
			return nil
		}
	}
	return ErrNotBorrowed
}

// HasBorrowed reports whether the user currently holds the item.
func (u *User) HasBorrowed(itemID string) bool {
	for _, held := range u.Borrowed {
		if held.ID() == itemID {
			return true
		}
	}
	return false
}

// BorrowedBooks counts the book-type items the user currently holds.
func (u *User) BorrowedBooks() int {
	n := 0
	for _, held := range u.Borrowed {
		if held.Type() == TypeBook {
			n++
		}
	}
	return n
}

// Author is a user account with authorship metadata. WrittenBooks is
// informational only and is never persisted.
type Author struct {
	User
	Biography    string
	WrittenBooks []*Book
}

// NewAuthor creates an author account.
func NewAuthor(id int, name string, age int, password, biography string) *Author {
	return &Author{
		User:      *NewUser(id, name, age, password, RoleAuthor),
		Biography: biography,
	}
}

// AddWrittenBook records a book as written by this author.
func (a *Author) AddWrittenBook(b *Book) {
	a.WrittenBooks = append(a.WrittenBooks, b)
}
