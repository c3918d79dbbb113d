package library

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// easterEggCode triggers the decorative easter egg from any menu,
// regardless of role.
const easterEggCode = "_EE_"

const timestampLayout = "02.01.2006 15:04"

// PasswordReader reads a password for the given prompt. The default
// echoes input; main swaps in a masked terminal reader.
type PasswordReader func(prompt string) (string, error)

// Session drives the role-gated interactive loop: authenticate, show
// the menu for the user's role, dispatch, repeat. Input and output are
// injected so tests can script a whole session.
type Session struct {
	lib  *Library
	sc   *bufio.Scanner
	out  io.Writer
	pass PasswordReader
	log  *zap.SugaredLogger
}

// NewSession creates a session over the given streams. A nil password
// reader falls back to plain line input; a nil logger is replaced with
// a no-op logger.
func NewSession(lib *Library, in io.Reader, out io.Writer, pass PasswordReader, log *zap.SugaredLogger) *Session {
	s := &Session{lib: lib, sc: bufio.NewScanner(in), out: out, pass: pass, log: log}
	if s.pass == nil {
		s.pass = func(prompt string) (string, error) {
			line, ok := s.prompt(prompt)
			if !ok {
				return "", io.EOF
			}
			return line, nil
		}
	}
	if s.log == nil {
		s.log = zap.NewNop().Sugar()
	}
	return s
}

// Run executes login/menu cycles until the user quits or input ends.
// Logging out returns to the login prompt without ending the session.
func (s *Session) Run() {
	for {
		user, ok := s.login()
		if !ok {
			return
		}
		s.log.Infow("user logged in", "name", user.Name, "role", user.Role)
		if quit := s.menuLoop(user); quit {
			return
		}
		fmt.Fprintln(s.out, "Logged out.")
	}
}

// prompt prints a label and reads one trimmed line. ok is false when
// input is exhausted.
func (s *Session) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	if !s.sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.sc.Text()), true
}

// ------------------ Authentication ------------------

// login authenticates an existing user or offers inline registration
// for an unknown name. ok is false when input ends.
func (s *Session) login() (*User, bool) {
	for {
		fmt.Fprintln(s.out, "=== Library System Login ===")
		name, ok := s.prompt("Name: ")
		if !ok {
			return nil, false
		}
		if name == "" {
			fmt.Fprintln(s.out, "Warning: name must not be empty.")
			continue
		}

		if user := s.lib.FindUserByName(name); user != nil {
			password, err := s.pass("Password: ")
			if err != nil {
				return nil, false
			}
			if password == "" {
				fmt.Fprintln(s.out, "Warning: password must not be empty.")
				continue
			}
			if user.Password != password {
				fmt.Fprintln(s.out, "Warning: wrong password, try again.")
				continue
			}
			fmt.Fprintf(s.out, "Welcome back, %s!\n", user.Name)
			return user, true
		}

		fmt.Fprintf(s.out, "Name %q is not registered.\n", name)
		answer, ok := s.prompt("Register now? (y/n): ")
		if !ok {
			return nil, false
		}
		if answer != "y" {
			fmt.Fprintln(s.out, "Try again.")
			continue
		}

		user, ok := s.register(name)
		if !ok {
			return nil, false
		}
		if user != nil {
			return user, true
		}
	}
}

// register collects age and password for a new account. The role always
// defaults to user. Returns nil (and ok) when validation failed and the
// login loop should restart.
func (s *Session) register(name string) (*User, bool) {
	age, ok := s.promptAge()
	if !ok {
		return nil, false
	}
	if age == 0 {
		return nil, true
	}

	password, err := s.pass("Password: ")
	if err != nil {
		return nil, false
	}
	if password == "" {
		fmt.Fprintln(s.out, "Warning: password must not be empty.")
		return nil, true
	}

	user, err := s.lib.RegisterUser(name, age, password, RoleUser)
	if err != nil {
		fmt.Fprintln(s.out, "Username already taken.")
		return nil, true
	}
	fmt.Fprintf(s.out, "Welcome to the system, %s!\n", name)
	return user, true
}

// promptAge reads an age in [1,119]; 0 means validation failed.
func (s *Session) promptAge() (int, bool) {
	raw, ok := s.prompt("Age: ")
	if !ok {
		return 0, false
	}
	age, err := strconv.Atoi(raw)
	if err != nil || age < 1 || age > 119 {
		fmt.Fprintln(s.out, "Warning: age must be a number between 1 and 119.")
		return 0, true
	}
	return age, true
}

// ------------------ Menu dispatch ------------------

type menuAction int

const (
	actStay menuAction = iota
	actLogout
	actQuit
)

// menuLoop shows the role's menu until logout or quit. It reports true
// when the session should end.
func (s *Session) menuLoop(user *User) bool {
	for {
		s.printMenu(user)
		choice, ok := s.prompt("Choice: ")
		if !ok {
			return true
		}
		if choice == easterEggCode {
			s.easterEgg()
			continue
		}

		var act menuAction
		switch user.Role {
		case RoleAdmin:
			act = s.dispatchAdmin(user, choice)
		case RoleStaff:
			act = s.dispatchStaff(user, choice)
		default:
			// Plain users and authors share the patron menu.
			act = s.dispatchUser(user, choice)
		}

		switch act {
		case actLogout:
			return false
		case actQuit:
			return true
		}
	}
}

func (s *Session) printMenu(user *User) {
	switch user.Role {
	case RoleAdmin:
		fmt.Fprintln(s.out, "\n=== Library System <ADMIN CONSOLE> ===")
		fmt.Fprintln(s.out, " 1. Show all media")
		fmt.Fprintln(s.out, " 2. Search media")
		fmt.Fprintln(s.out, " 3. Add media")
		fmt.Fprintln(s.out, " 4. Delete media")
		fmt.Fprintln(s.out, " 5. Revoke item from user")
		fmt.Fprintln(s.out, " 6. All users | borrowed items")
		fmt.Fprintln(s.out, " 7. Change user role")
		fmt.Fprintln(s.out, " 8. Add user")
		fmt.Fprintln(s.out, " 9. Delete user")
		fmt.Fprintln(s.out, "10. Search user")
		fmt.Fprintln(s.out, "11. Log out")
		fmt.Fprintln(s.out, "12. Quit")
	case RoleStaff:
		fmt.Fprintf(s.out, "\n=== Library System — welcome, %s! ===\n", user.Name)
		fmt.Fprintln(s.out, " 1. Show all media")
		fmt.Fprintln(s.out, " 2. Search media")
		fmt.Fprintln(s.out, " 3. Borrow item")
		fmt.Fprintln(s.out, " 4. Return item")
		fmt.Fprintln(s.out, " 5. Add media")
		fmt.Fprintln(s.out, " 6. Delete media")
		fmt.Fprintln(s.out, " 7. My items")
		fmt.Fprintln(s.out, " 8. All users | borrowed items")
		fmt.Fprintln(s.out, " 9. Add user")
		fmt.Fprintln(s.out, "10. Delete user")
		fmt.Fprintln(s.out, "11. Revoke item from user")
		fmt.Fprintln(s.out, "12. Log out")
		fmt.Fprintln(s.out, "13. Quit")
	default:
		fmt.Fprintf(s.out, "\n=== Library System — welcome, %s! ===\n", user.Name)
		fmt.Fprintln(s.out, "1. Show all media")
		fmt.Fprintln(s.out, "2. Search media")
		fmt.Fprintln(s.out, "3. My items")
		fmt.Fprintln(s.out, "4. Borrow item")
		fmt.Fprintln(s.out, "5. Return item")
		fmt.Fprintln(s.out, "6. Log out")
		fmt.Fprintln(s.out, "7. Quit")
	}
}

func (s *Session) dispatchAdmin(user *User, choice string) menuAction {
	switch choice {
	case "1":
		s.handleShowMedia()
	case "2":
		s.handleSearchMedia()
	case "3":
		s.handleAddMedia()
	case "4":
		s.handleDeleteMedia()
	case "5":
		s.handleRevokeItem(user)
	case "6":
		s.handleUserList()
	case "7":
		s.handleChangeRole(user)
	case "8":
		s.handleAddUser()
	case "9":
		s.handleDeleteUser(user)
	case "10":
		s.handleSearchUser()
	case "11":
		return actLogout
	case "12":
		return actQuit
	default:
		fmt.Fprintln(s.out, "Warning: invalid choice, try again.")
	}
	return actStay
}

func (s *Session) dispatchStaff(user *User, choice string) menuAction {
	switch choice {
	case "1":
		s.handleShowMedia()
	case "2":
		s.handleSearchMedia()
	case "3":
		s.handleBorrow(user)
	case "4":
		s.handleReturn(user)
	case "5":
		s.handleAddMedia()
	case "6":
		s.handleDeleteMedia()
	case "7":
		s.handleOwnItems(user)
	case "8":
		s.handleUserList()
	case "9":
		s.handleAddUser()
	case "10":
		s.handleDeleteUser(user)
	case "11":
		s.handleRevokeItem(user)
	case "12":
		return actLogout
	case "13":
		return actQuit
	default:
		fmt.Fprintln(s.out, "Warning: invalid choice, try again.")
	}
	return actStay
}

func (s *Session) dispatchUser(user *User, choice string) menuAction {
	switch choice {
	case "1":
		s.handleShowMedia()
	case "2":
		s.handleSearchMedia()
	case "3":
		s.handleOwnItems(user)
	case "4":
		s.handleBorrow(user)
	case "5":
		s.handleReturn(user)
	case "6":
		return actLogout
	case "7":
		return actQuit
	default:
		fmt.Fprintln(s.out, "Warning: invalid choice, try again.")
	}
	return actStay
}

// ------------------ Media handlers ------------------

// promptMediaType asks for a media kind by number; empty input cancels.
func (s *Session) promptMediaType() (MediaType, bool) {
	choice, ok := s.prompt("1. Books  2. DVDs  3. Magazines\nType (1-3, Enter to cancel): ")
	if !ok || choice == "" {
		return "", false
	}
	switch choice {
	case "1":
		return TypeBook, true
	case "2":
		return TypeDVD, true
	case "3":
		return TypeMagazine, true
	}
	fmt.Fprintln(s.out, "Warning: invalid choice.")
	return "", false
}

func (s *Session) handleShowMedia() {
	t, ok := s.promptMediaType()
	if !ok {
		return
	}
	items := s.lib.MediaByType(t)
	if len(items) == 0 {
		fmt.Fprintf(s.out, "No %ss in the catalog.\n", t)
		return
	}
	for _, item := range items {
		fmt.Fprintf(s.out, "- %s\n", item.Describe())
	}
}

func (s *Session) handleSearchMedia() {
	query, ok := s.prompt("Title or keyword: ")
	if !ok {
		return
	}
	found := s.lib.SearchItems(query)
	if len(found) == 0 {
		fmt.Fprintln(s.out, "No media found.")
		return
	}
	fmt.Fprintf(s.out, "Found %d item(s):\n", len(found))
	for _, item := range found {
		fmt.Fprintf(s.out, "- %s\n", item.Describe())
	}
}

func (s *Session) handleAddMedia() {
	t, ok := s.promptMediaType()
	if !ok {
		return
	}
	title, ok := s.prompt("Title: ")
	if !ok {
		return
	}
	if title == "" {
		fmt.Fprintln(s.out, "Warning: title must not be empty.")
		return
	}

	var item MediaItem
	switch t {
	case TypeBook:
		author, _ := s.prompt("Author: ")
		isbn, _ := s.prompt("ISBN: ")
		genre, _ := s.prompt("Genre: ")
		item = NewBook(title, author, isbn, genre)
	case TypeDVD:
		duration, _ := s.prompt("Duration (minutes): ")
		genre, _ := s.prompt("Genre: ")
		item = NewDVD(title, duration, genre)
	case TypeMagazine:
		issue, _ := s.prompt("Issue: ")
		item = NewMagazine(title, issue)
	}

	s.lib.AddMediaItem(item)
	fmt.Fprintf(s.out, "%s %q added.\n", t, title)
}

func (s *Session) handleDeleteMedia() {
	t, ok := s.promptMediaType()
	if !ok {
		return
	}
	items := s.lib.MediaByType(t)
	if len(items) == 0 {
		fmt.Fprintf(s.out, "No %ss in the catalog.\n", t)
		return
	}
	for _, item := range items {
		fmt.Fprintf(s.out, "- %s\n", item.Describe())
	}

	title, ok := s.prompt("Title to delete (Enter to cancel): ")
	if !ok || title == "" {
		return
	}
	item := s.lib.FindMediaByTitleAndType(title, t)
	if item == nil {
		fmt.Fprintf(s.out, "%s not found.\n", t)
		return
	}
	if err := s.lib.RemoveMediaItem(item); err != nil {
		if errors.Is(err, ErrItemBorrowed) {
			fmt.Fprintf(s.out, "Cannot delete %q: it is still borrowed. Revoke it first.\n", item.Title())
		} else {
			fmt.Fprintf(s.out, "Error deleting item: %v\n", err)
		}
		return
	}
	fmt.Fprintf(s.out, "%s %q deleted.\n", t, item.Title())
}

// ------------------ Circulation handlers ------------------

func (s *Session) handleBorrow(user *User) {
	t, ok := s.promptMediaType()
	if !ok {
		return
	}

	var available []MediaItem
	for _, item := range s.lib.MediaByType(t) {
		if item.Available() {
			available = append(available, item)
		}
	}
	if len(available) == 0 {
		fmt.Fprintf(s.out, "No %ss available right now.\n", t)
		return
	}
	for _, item := range available {
		fmt.Fprintf(s.out, "- %s\n", item.Describe())
	}

	title, ok := s.prompt("Title to borrow (Enter to cancel): ")
	if !ok || title == "" {
		return
	}
	item := s.lib.FindMediaByTitleAndType(title, t)
	if item == nil || !item.Available() {
		fmt.Fprintln(s.out, "Item not found or unavailable.")
		return
	}
	if err := s.checkout(user, item); err != nil {
		if errors.Is(err, ErrBorrowLimit) {
			fmt.Fprintf(s.out, "You can borrow at most %d books at a time.\n", MaxBorrowedBooks)
		} else {
			fmt.Fprintf(s.out, "%q is currently unavailable.\n", item.Title())
		}
		return
	}
	fmt.Fprintf(s.out, "%q borrowed.\n", item.Title())
}

// checkout applies the book cap before handing off to the item. The cap
// is a menu-level rule; Borrow itself stays uncapped.
func (s *Session) checkout(user *User, item MediaItem) error {
	if item.Type() == TypeBook && user.BorrowedBooks() >= MaxBorrowedBooks {
		return ErrBorrowLimit
	}
	return user.BorrowItem(item)
}

func (s *Session) handleReturn(user *User) {
	if len(user.Borrowed) == 0 {
		fmt.Fprintln(s.out, "You have nothing borrowed.")
		return
	}
	fmt.Fprintln(s.out, "Your borrowed items:")
	for i, item := range user.Borrowed {
		fmt.Fprintf(s.out, "%d. %s (since %s)\n", i+1, item.Describe(), s.borrowedSince(user, item))
	}

	title, ok := s.prompt("Title to return (Enter to cancel): ")
	if !ok || title == "" {
		return
	}
	var target MediaItem
	for _, item := range user.Borrowed {
		if normalize(item.Title()) == normalize(title) {
			target = item
			break
		}
	}
	if target == nil {
		fmt.Fprintln(s.out, "Item not found among your borrowed items.")
		return
	}
	if err := user.ReturnItem(target); err != nil {
		fmt.Fprintf(s.out, "Error returning item: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "%q returned.\n", target.Title())
}

func (s *Session) handleOwnItems(user *User) {
	if len(user.Borrowed) == 0 {
		fmt.Fprintln(s.out, "You have nothing borrowed.")
		return
	}
	fmt.Fprintln(s.out, "Your borrowed items:")
	for i, item := range user.Borrowed {
		fmt.Fprintf(s.out, "%d. %s (since %s)\n", i+1, item.Describe(), s.borrowedSince(user, item))
	}
}

func (s *Session) borrowedSince(user *User, item MediaItem) string {
	ts, ok := user.BorrowedAt[item.ID()]
	if !ok {
		return "unknown"
	}
	return ts.Format(timestampLayout)
}

// ------------------ User handlers ------------------

func (s *Session) handleRevokeItem(actor *User) {
	if !actor.Role.CanForceReturn() {
		fmt.Fprintln(s.out, "You are not allowed to revoke items.")
		return
	}
	anyLoans := false
	for _, u := range s.lib.Users() {
		if len(u.Borrowed) > 0 {
			anyLoans = true
			break
		}
	}
	if !anyLoans {
		fmt.Fprintln(s.out, "No media is borrowed right now.")
		return
	}

	fmt.Fprintln(s.out, "Borrowed media overview:")
	for _, u := range s.lib.Users() {
		for _, item := range u.Borrowed {
			fmt.Fprintf(s.out, "- %s: %s\n", u.Name, item.Describe())
		}
	}

	name, ok := s.prompt("User name (Enter to cancel): ")
	if !ok || name == "" {
		return
	}
	target := s.lib.FindUserByName(name)
	if target == nil {
		fmt.Fprintln(s.out, "User not found.")
		return
	}
	if len(target.Borrowed) == 0 {
		fmt.Fprintf(s.out, "%s has nothing borrowed.\n", target.Name)
		return
	}

	for i, item := range target.Borrowed {
		fmt.Fprintf(s.out, "%d. %s\n", i+1, item.Describe())
	}
	title, ok := s.prompt("Title to revoke (Enter to cancel): ")
	if !ok || title == "" {
		return
	}
	var item MediaItem
	for _, held := range target.Borrowed {
		if normalize(held.Title()) == normalize(title) {
			item = held
			break
		}
	}
	if item == nil {
		fmt.Fprintln(s.out, "Item not found among this user's borrowed items.")
		return
	}
	if err := target.ReturnItem(item); err != nil {
		fmt.Fprintf(s.out, "Error revoking item: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "%q revoked from %s.\n", item.Title(), target.Name)
}

func (s *Session) handleUserList() {
	fmt.Fprintln(s.out, "Registered users:")
	for _, u := range s.lib.Users() {
		fmt.Fprintf(s.out, "- %s (age %d | role %s)\n", u.Name, u.Age, u.Role)
		if len(u.Borrowed) == 0 {
			fmt.Fprintln(s.out, "    no media borrowed")
			continue
		}
		for _, item := range u.Borrowed {
			fmt.Fprintf(s.out, "    %s (since %s)\n", item.Describe(), s.borrowedSince(u, item))
		}
	}
}

func (s *Session) handleChangeRole(actor *User) {
	if !actor.Role.CanChangeRoles() {
		fmt.Fprintln(s.out, "You are not allowed to change roles.")
		return
	}
	for _, u := range s.lib.Users() {
		fmt.Fprintf(s.out, "- %s, current role: %s\n", u.Name, u.Role)
	}

	name, ok := s.prompt("User name (Enter to cancel): ")
	if !ok || name == "" {
		return
	}
	target := s.lib.FindUserByName(name)
	if target == nil {
		fmt.Fprintln(s.out, "User not found.")
		return
	}
	if target == actor {
		fmt.Fprintln(s.out, "You cannot change your own role.")
		return
	}

	raw, ok := s.prompt("New role (user, admin, verwaltung): ")
	if !ok {
		return
	}
	if err := s.lib.ReassignRole(actor, target, raw); err != nil {
		if errors.Is(err, ErrSelfForbidden) {
			fmt.Fprintln(s.out, "You cannot change your own role.")
		} else {
			fmt.Fprintln(s.out, "Invalid role, nothing changed.")
		}
		return
	}
	fmt.Fprintf(s.out, "Role of %s changed to %q.\n", target.Name, target.Role)
}

func (s *Session) handleAddUser() {
	name, ok := s.prompt("Name (Enter to cancel): ")
	if !ok || name == "" {
		return
	}
	if s.lib.UsernameExists(name) {
		fmt.Fprintln(s.out, "Username already taken.")
		return
	}

	age, ok := s.promptAge()
	if !ok || age == 0 {
		return
	}

	password, err := s.pass("Password: ")
	if err != nil {
		return
	}
	if password == "" {
		fmt.Fprintln(s.out, "Warning: password must not be empty.")
		return
	}

	raw, ok := s.prompt("Role (user, admin, verwaltung): ")
	if !ok {
		return
	}
	role, valid := ParseRole(raw)
	if !valid || !role.Assignable() {
		fmt.Fprintln(s.out, "Warning: invalid role, defaulting to 'user'.")
		role = RoleUser
	}

	if _, err := s.lib.RegisterUser(name, age, password, role); err != nil {
		fmt.Fprintln(s.out, "Username already taken.")
		return
	}
	fmt.Fprintf(s.out, "User %q added with role %q.\n", name, role)
}

func (s *Session) handleDeleteUser(actor *User) {
	if !actor.Role.CanManageUsers() {
		fmt.Fprintln(s.out, "You are not allowed to delete users.")
		return
	}
	for i, u := range s.lib.Users() {
		fmt.Fprintf(s.out, "%d. %s (role %s)\n", i+1, u.Name, u.Role)
	}
	fmt.Fprintln(s.out, "Deleting your own account is not allowed.")

	name, ok := s.prompt("Name to delete (Enter to cancel): ")
	if !ok || name == "" {
		return
	}
	target := s.lib.FindUserByName(name)
	if target == nil {
		fmt.Fprintln(s.out, "User not found.")
		return
	}
	if target == actor {
		fmt.Fprintln(s.out, "You cannot delete yourself.")
		return
	}

	confirm, ok := s.prompt(fmt.Sprintf("Really delete %q? (y/n): ", target.Name))
	if !ok || confirm != "y" {
		fmt.Fprintln(s.out, "Deletion cancelled.")
		return
	}
	if err := s.lib.DeleteUser(actor, target); err != nil {
		if errors.Is(err, ErrSelfForbidden) {
			fmt.Fprintln(s.out, "You cannot delete yourself.")
		} else {
			fmt.Fprintf(s.out, "Error deleting user: %v\n", err)
		}
		return
	}
	fmt.Fprintf(s.out, "User %q deleted.\n", target.Name)
}

func (s *Session) handleSearchUser() {
	query, ok := s.prompt("Search term (part of a name): ")
	if !ok || query == "" {
		return
	}
	matches := s.lib.SearchUsers(query)
	if len(matches) == 0 {
		fmt.Fprintln(s.out, "No user found.")
		return
	}
	fmt.Fprintf(s.out, "Found %d user(s):\n", len(matches))
	for _, u := range matches {
		fmt.Fprintf(s.out, "- %s (role %s)\n", u.Name, u.Role)
	}
}

// ------------------ Easter egg ------------------

func (s *Session) easterEgg() {
	fmt.Fprint(s.out, `
             ____
           /      \_____
          /    ^    \    \__
         /           \      \_
        /      / \     \       \_
       /      /   \     \        \
      /      /     \     \        |
     /      /       \_____\_______|
    /      /                 \      \
   /      /                   \      \
  /      /                     \      \
 /      /                       \      \
/      /                         \      \
\     /                           \      \
 \   /                             \      \
  \_/                               \     |
         ___                     ____|____|____
        /   \                   /   ^     ^    \
       |     |                 |    o     o     | ~~~ 'IM A sSsSsSNAKEEE!'
        \___/                   \   \_______/   /
                                 \_____________/

`)
}
