package library

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempFile(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(t.TempDir(), name)
}

func TestMediaRoundTrip(t *testing.T) {
	lib := NewLibrary(nil)
	book := NewBook("Dune", "Frank Herbert", "123", "SF")
	dvd := NewDVD("Das Boot", "149", "War")
	mag := NewMagazine("c't", "15/2025")
	lib.AddMediaItem(book)
	lib.AddMediaItem(dvd)
	lib.AddMediaItem(mag)

	alice := NewUser(1, "Alice", 30, "pw", RoleUser)
	lib.AddUser(alice)
	require.NoError(t, alice.BorrowItem(book))

	path := tempFile(t, "media.json")
	require.NoError(t, lib.SaveMedia(path))

	fresh := NewLibrary(nil)
	fresh.LoadMedia(path)
	items := fresh.MediaItems()
	require.Len(t, items, 3)

	loadedBook := fresh.FindMediaByTitleAndType("Dune", TypeBook).(*Book)
	assert.Equal(t, book.ID(), loadedBook.ID(), "persisted IDs survive the round trip")
	assert.Equal(t, "Frank Herbert", loadedBook.Author)
	assert.Equal(t, "123", loadedBook.ISBN)
	assert.False(t, loadedBook.Available(), "borrowed state survives")

	loadedDVD := fresh.FindMediaByTitleAndType("Das Boot", TypeDVD).(*DVD)
	assert.Equal(t, "149", loadedDVD.Duration)
	assert.True(t, loadedDVD.Available())

	loadedMag := fresh.FindMediaByTitleAndType("c't", TypeMagazine).(*Magazine)
	assert.Equal(t, "15/2025", loadedMag.Issue)
}

func TestUsersRoundTripRelinksByISBN(t *testing.T) {
	lib := NewLibrary(nil)
	book := NewBook("Dune", "Frank Herbert", "123", "SF")
	lib.AddMediaItem(book)
	lib.AddMediaItem(NewDVD("Das Boot", "149", "War"))

	alice := NewUser(1, "Alice", 30, "secret", RoleUser)
	lib.AddUser(alice)
	require.NoError(t, alice.BorrowItem(book))
	borrowedAt := alice.BorrowedAt[book.ID()]

	mediaPath := tempFile(t, "media.json")
	usersPath := filepath.Join(filepath.Dir(mediaPath), "users.json")
	require.NoError(t, lib.SaveMedia(mediaPath))
	require.NoError(t, lib.SaveUsers(usersPath))

	fresh := NewLibrary(nil)
	fresh.LoadMedia(mediaPath)
	fresh.LoadUsers(usersPath)

	loaded := fresh.FindUserByName("Alice")
	require.NotNil(t, loaded)
	assert.Equal(t, 1, loaded.ID)
	assert.Equal(t, 30, loaded.Age)
	assert.Equal(t, "secret", loaded.Password, "password round-trips in plaintext")
	assert.Equal(t, RoleUser, loaded.Role)

	require.Len(t, loaded.Borrowed, 1)
	relinked, ok := loaded.Borrowed[0].(*Book)
	require.True(t, ok)
	assert.Equal(t, "123", relinked.ISBN)
	assert.False(t, relinked.Available())
	assert.Same(t, fresh.FindMediaByTitleAndType("Dune", TypeBook), MediaItem(relinked),
		"borrowed entry must reference the catalog's record, not a copy")

	ts, ok := loaded.BorrowedAt[relinked.ID()]
	require.True(t, ok, "timestamps are rekeyed from ISBN to item ID on load")
	assert.WithinDuration(t, borrowedAt, ts, time.Second)
}

func TestLoadUsersSingleHolderPerBook(t *testing.T) {
	mediaPath := tempFile(t, "media.json")
	usersPath := filepath.Join(filepath.Dir(mediaPath), "users.json")
	media := `[
        {"itemID": "a", "type": "book", "title": "Dune", "author": "Herbert", "isbn": "1", "genre": "SF", "issue": "", "duration": "", "available": false}
    ]`
	users := `[
        {"userID": 1, "name": "Alice", "age": 30, "password": "pw", "role": "user",
         "borrowedBooks": ["1"], "borrowedBookTimestamps": {}},
        {"userID": 2, "name": "Bob", "age": 40, "password": "pw", "role": "user",
         "borrowedBooks": ["1"], "borrowedBookTimestamps": {}}
    ]`
	require.NoError(t, os.WriteFile(mediaPath, []byte(media), 0o644))
	require.NoError(t, os.WriteFile(usersPath, []byte(users), 0o644))

	lib := NewLibrary(nil)
	lib.LoadMedia(mediaPath)
	lib.LoadUsers(usersPath)

	alice := lib.FindUserByName("Alice")
	bob := lib.FindUserByName("Bob")
	require.NotNil(t, alice)
	require.NotNil(t, bob)
	require.Len(t, alice.Borrowed, 1, "first record in the file keeps the loan")
	assert.Empty(t, bob.Borrowed, "same book cannot be relinked to a second user")
	assert.False(t, lib.MediaItems()[0].Available())
}

func TestAuthorRoleSurvivesRoundTrip(t *testing.T) {
	lib := NewLibrary(nil)
	author := NewAuthor(2, "Frank Herbert", 65, "pw", "Wrote Dune.")
	lib.AddUser(&author.User)

	path := tempFile(t, "users.json")
	require.NoError(t, lib.SaveUsers(path))

	fresh := NewLibrary(nil)
	fresh.LoadUsers(path)
	loaded := fresh.FindUserByName("Frank Herbert")
	require.NotNil(t, loaded)
	assert.Equal(t, RoleAuthor, loaded.Role)
}

func TestLoadMissingFileIsNoop(t *testing.T) {
	lib := NewLibrary(nil)
	lib.LoadMedia(tempFile(t, "missing.json"))
	lib.LoadUsers(tempFile(t, "missing.json"))
	assert.Empty(t, lib.MediaItems())
	assert.Empty(t, lib.Users())
}

func TestLoadCorruptFileIsNonFatal(t *testing.T) {
	path := tempFile(t, "media.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	lib := NewLibrary(nil)
	lib.LoadMedia(path)
	assert.Empty(t, lib.MediaItems(), "corrupt file loads nothing")
}

func TestLoadSkipsUnknownMediaType(t *testing.T) {
	path := tempFile(t, "media.json")
	payload := `[
        {"itemID": "a", "type": "book", "title": "Dune", "author": "Herbert", "isbn": "1", "genre": "SF", "issue": "", "duration": "", "available": true},
        {"itemID": "b", "type": "cassette", "title": "Mixtape", "author": "", "isbn": "", "genre": "", "issue": "", "duration": "", "available": true}
    ]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	lib := NewLibrary(nil)
	lib.LoadMedia(path)
	require.Len(t, lib.MediaItems(), 1)
	assert.Equal(t, "Dune", lib.MediaItems()[0].Title())
}

func TestLoadUsersDropsUnknownISBN(t *testing.T) {
	usersPath := tempFile(t, "users.json")
	payload := `[
        {"userID": 1, "name": "Alice", "age": 30, "password": "pw", "role": "user",
         "borrowedBooks": ["does-not-exist"], "borrowedBookTimestamps": {}}
    ]`
	require.NoError(t, os.WriteFile(usersPath, []byte(payload), 0o644))

	lib := NewLibrary(nil)
	lib.LoadUsers(usersPath)
	loaded := lib.FindUserByName("Alice")
	require.NotNil(t, loaded)
	assert.Empty(t, loaded.Borrowed, "ISBN with no catalog match is dropped")
}

func TestSavedUsersOmitNonBookLoans(t *testing.T) {
	lib := NewLibrary(nil)
	dvd := NewDVD("Das Boot", "149", "War")
	lib.AddMediaItem(dvd)
	alice := NewUser(1, "Alice", 30, "pw", RoleUser)
	lib.AddUser(alice)
	require.NoError(t, alice.BorrowItem(dvd))

	path := tempFile(t, "users.json")
	require.NoError(t, lib.SaveUsers(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"borrowedBooks": []`,
		"only book loans carry an ISBN and are persisted")
}
