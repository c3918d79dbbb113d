package library

import "testing"

func TestBorrowFlipsAvailability(t *testing.T) {
	book := NewBook("Dune", "Frank Herbert", "123", "SF")
	if !book.Available() {
		t.Fatalf("new items must be available")
	}
	if !book.Borrow() {
		t.Fatalf("borrow of available item must succeed")
	}
	if book.Available() {
		t.Fatalf("borrowed item must be unavailable")
	}
}

func TestBorrowUnavailableFailsWithoutSideEffects(t *testing.T) {
	dvd := NewDVD("Blade Runner", "117", "SF")
	dvd.Borrow()
	if dvd.Borrow() {
		t.Fatalf("borrow of unavailable item must fail")
	}
	if dvd.Available() {
		t.Fatalf("failed borrow must not change availability")
	}
	dvd.Return()
	if !dvd.Available() {
		t.Fatalf("returned item must be available")
	}
}

func TestUserBorrowReturnRoundTrip(t *testing.T) {
	user := NewUser(1, "Alice", 30, "pw", RoleUser)
	book := NewBook("Dune", "Frank Herbert", "123", "SF")

	if err := user.BorrowItem(book); err != nil {
		t.Fatalf("borrow: %v", err)
	}
	if book.Available() {
		t.Fatalf("borrowed book must be unavailable")
	}
	if len(user.Borrowed) != 1 || user.Borrowed[0].ID() != book.ID() {
		t.Fatalf("book must be in the user's list")
	}
	if _, ok := user.BorrowedAt[book.ID()]; !ok {
		t.Fatalf("borrow timestamp must be recorded")
	}

	if err := user.ReturnItem(book); err != nil {
		t.Fatalf("return: %v", err)
	}
	if !book.Available() {
		t.Fatalf("returned book must be available")
	}
	if len(user.Borrowed) != 0 {
		t.Fatalf("user's list must be empty after return")
	}
	if _, ok := user.BorrowedAt[book.ID()]; ok {
		t.Fatalf("timestamp must be removed on return")
	}
}

func TestBorrowUnavailableLeavesUserUnchanged(t *testing.T) {
	alice := NewUser(1, "Alice", 30, "pw", RoleUser)
	bob := NewUser(2, "Bob", 25, "pw", RoleUser)
	book := NewBook("Dune", "Frank Herbert", "123", "SF")

	if err := alice.BorrowItem(book); err != nil {
		t.Fatalf("borrow: %v", err)
	}
	if err := bob.BorrowItem(book); err != ErrItemUnavailable {
		t.Fatalf("want ErrItemUnavailable, got %v", err)
	}
	if len(bob.Borrowed) != 0 || len(bob.BorrowedAt) != 0 {
		t.Fatalf("failed borrow must not change the user")
	}
}

func TestReturnNotBorrowed(t *testing.T) {
	user := NewUser(1, "Alice", 30, "pw", RoleUser)
	mag := NewMagazine("c't", "15/2025")
	if err := user.ReturnItem(mag); err != ErrNotBorrowed {
		t.Fatalf("want ErrNotBorrowed, got %v", err)
	}
}

func TestBorrowedBooksCountsOnlyBooks(t *testing.T) {
	user := NewUser(1, "Alice", 30, "pw", RoleUser)
	if err := user.BorrowItem(NewBook("A", "x", "1", "g")); err != nil {
		t.Fatalf("borrow: %v", err)
	}
	if err := user.BorrowItem(NewDVD("B", "90", "g")); err != nil {
		t.Fatalf("borrow: %v", err)
	}
	if err := user.BorrowItem(NewMagazine("C", "1")); err != nil {
		t.Fatalf("borrow: %v", err)
	}
	if got := user.BorrowedBooks(); got != 1 {
		t.Fatalf("want 1 borrowed book, got %d", got)
	}
}

func TestParseMediaType(t *testing.T) {
	if got, ok := ParseMediaType(" Book "); !ok || got != TypeBook {
		t.Fatalf("want book, got %q ok=%v", got, ok)
	}
	if got, ok := ParseMediaType("DVD"); !ok || got != TypeDVD {
		t.Fatalf("want dvd, got %q ok=%v", got, ok)
	}
	if _, ok := ParseMediaType("cassette"); ok {
		t.Fatalf("unknown type must not parse")
	}
}

func TestAuthorWrittenBooks(t *testing.T) {
	author := NewAuthor(1, "Frank Herbert", 65, "pw", "Wrote Dune.")
	if author.Role != RoleAuthor {
		t.Fatalf("author must carry the author role")
	}
	author.AddWrittenBook(NewBook("Dune", "Frank Herbert", "123", "SF"))
	if len(author.WrittenBooks) != 1 {
		t.Fatalf("want 1 written book, got %d", len(author.WrittenBooks))
	}
}
