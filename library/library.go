package library

import (
	"strings"

	"go.uber.org/zap"
)

// Library owns the canonical media and user collections. Lookups are
// linear scans; the catalog is small and lives fully in memory between
// the load at startup and the save at shutdown.
type Library struct {
	media []MediaItem
	users []*User
	log   *zap.SugaredLogger
}

// NewLibrary creates an empty catalog. A nil logger is replaced with a
// no-op logger so call sites never have to guard.
func NewLibrary(log *zap.SugaredLogger) *Library {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Library{log: log}
}

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// ------------------ Media ------------------

// AddMediaItem appends an item to the catalog.
func (l *Library) AddMediaItem(item MediaItem) { l.media = append(l.media, item) }

// MediaItems returns the catalog in store order.
func (l *Library) MediaItems() []MediaItem { return l.media }

// MediaByType returns all items of one kind, store order preserved.
func (l *Library) MediaByType(t MediaType) []MediaItem {
	var out []MediaItem
	for _, item := range l.media {
		if item.Type() == t {
			out = append(out, item)
		}
	}
	return out
}

// FindMediaByTitleAndType returns the first item matching both title and
// type, compared case-insensitively, or nil.
func (l *Library) FindMediaByTitleAndType(title string, t MediaType) MediaItem {
	want := normalize(title)
	for _, item := range l.media {
		if item.Type() == t && normalize(item.Title()) == want {
			return item
		}
	}
	return nil
}

// SearchItems returns every item whose title contains the query,
// case-insensitively, in store order.
func (l *Library) SearchItems(query string) []MediaItem {
	q := normalize(query)
	var out []MediaItem
	for _, item := range l.media {
		if strings.Contains(normalize(item.Title()), q) {
			out = append(out, item)
		}
	}
	return out
}

// RemoveMediaItem deletes an item from the catalog. Items still held by
// a borrower are refused so no user is left with a dangling reference.
func (l *Library) RemoveMediaItem(item MediaItem) error {
	for _, u := range l.users {
		if u.HasBorrowed(item.ID()) {
			return ErrItemBorrowed
		}
	}
	for i, m := range l.media {
		if m.ID() == item.ID() {
			l.media = append(l.media[:i], l.media[i+1:]...)
			return nil
		}
	}
	return ErrItemNotFound
}

// ------------------ Users ------------------

// AddUser appends a user. Name uniqueness is the caller's concern via
// UsernameExists.
func (l *Library) AddUser(u *User) { l.users = append(l.users, u) }

// Users returns all registered users in store order.
func (l *Library) Users() []*User { return l.users }

// FindUserByName returns the user with the exact name, compared
// case-insensitively, or nil.
func (l *Library) FindUserByName(name string) *User {
	want := normalize(name)
	for _, u := range l.users {
		if normalize(u.Name) == want {
			return u
		}
	}
	return nil
}

// SearchUsers returns every user whose name contains the query,
// case-insensitively.
func (l *Library) SearchUsers(query string) []*User {
	q := normalize(query)
	var out []*User
	for _, u := range l.users {
		if strings.Contains(normalize(u.Name), q) {
			out = append(out, u)
		}
	}
	return out
}

// UsernameExists reports whether a name is already registered,
// compared case-insensitively.
func (l *Library) UsernameExists(name string) bool {
	return l.FindUserByName(name) != nil
}

// RegisterUser checks name uniqueness and appends a new user under the
// next free ID.
func (l *Library) RegisterUser(name string, age int, password string, role Role) (*User, error) {
	if l.UsernameExists(name) {
		return nil, ErrUserExists
	}
	u := NewUser(l.NextUserID(), name, age, password, role)
	l.AddUser(u)
	return u, nil
}

// ChangeRole mutates the user's role. Validating the new role against
// the assignable set is the caller's responsibility.
func (l *Library) ChangeRole(u *User, role Role) { u.Role = role }

// ReassignRole parses and validates rawRole against the assignable set
// before applying it. Changing one's own role is refused.
func (l *Library) ReassignRole(actor, target *User, rawRole string) error {
	if actor == target {
		return ErrSelfForbidden
	}
	role, ok := ParseRole(rawRole)
	if !ok || !role.Assignable() {
		return ErrInvalidRole
	}
	l.ChangeRole(target, role)
	return nil
}

// DeleteUser removes target from the system. Self-deletion is refused.
func (l *Library) DeleteUser(actor, target *User) error {
	if actor == target {
		return ErrSelfForbidden
	}
	return l.RemoveUser(target)
}

// NextUserID yields max(existing IDs)+1, starting at 1.
func (l *Library) NextUserID() int {
	max := 0
	for _, u := range l.users {
		if u.ID > max {
			max = u.ID
		}
	}
	return max + 1
}

// RemoveUser deletes a user, first returning everything they hold so no
// item stays marked unavailable with no borrower.
func (l *Library) RemoveUser(u *User) error {
	for i, existing := range l.users {
		if existing == u {
			for len(u.Borrowed) > 0 {
				if err := u.ReturnItem(u.Borrowed[0]); err != nil {
					return err
				}
			}
			l.users = append(l.users[:i], l.users[i+1:]...)
			return nil
		}
	}
	return ErrUserNotFound
}
