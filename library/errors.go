package library

import "errors"

var (
	// ErrItemUnavailable is returned when borrowing an item that is
	// already checked out.
	ErrItemUnavailable = errors.New("item is currently unavailable")

	// ErrNotBorrowed is returned when returning an item the user does
	// not hold.
	ErrNotBorrowed = errors.New("item is not borrowed by this user")

	// ErrItemBorrowed is returned when deleting an item that a user
	// still holds.
	ErrItemBorrowed = errors.New("item is currently borrowed")

	// ErrItemNotFound is returned by lookups that miss.
	ErrItemNotFound = errors.New("item not found")

	// ErrUserNotFound is returned by user lookups that miss.
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists is returned when registering a name already taken,
	// compared case-insensitively.
	ErrUserExists = errors.New("username already taken")

	// ErrInvalidRole is returned for role tags outside the closed set.
	ErrInvalidRole = errors.New("invalid role")

	// ErrSelfForbidden is returned for self-deletion and self-role-change.
	ErrSelfForbidden = errors.New("operation not allowed on own account")

	// ErrBorrowLimit is returned when a user already holds the maximum
	// number of borrowed books.
	ErrBorrowLimit = errors.New("book borrow limit reached")
)
