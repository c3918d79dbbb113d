package main

import (
	"fmt"
	"os"
	"strings"

	"librarysystem/internal/config"
	"librarysystem/library"

	"go.uber.org/zap"
)

// Seeds a starter catalog: a handful of books, DVDs and magazines plus
// one admin account. Existing state files are replaced.
func main() {
	cfg := config.NewConfig()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	lib := library.NewLibrary(logger.Sugar())

	books := [][4]string{
		{"Dune", "Frank Herbert", "9780441172719", "Science Fiction"},
		{"1984", "George Orwell", "9780451524935", "Dystopia"},
		{"The Hobbit", "J.R.R. Tolkien", "9780547928227", "Fantasy"},
		{"Der Prozess", "Franz Kafka", "9783596293742", "Classic"},
		{"The Art of War", "Sun Tzu", "9781590302255", "Strategy"},
	}
	for _, b := range books {
		lib.AddMediaItem(library.NewBook(b[0], b[1], b[2], b[3]))
	}

	dvds := [][3]string{
		{"Blade Runner", "117", "Science Fiction"},
		{"Das Boot", "149", "War"},
		{"Spirited Away", "125", "Animation"},
	}
	for _, d := range dvds {
		lib.AddMediaItem(library.NewDVD(d[0], d[1], d[2]))
	}

	magazines := [][2]string{
		{"National Geographic", "July 2025"},
		{"c't", "15/2025"},
	}
	for _, m := range magazines {
		lib.AddMediaItem(library.NewMagazine(m[0], m[1]))
	}

	lib.AddUser(library.NewUser(lib.NextUserID(), "admin", 40, "admin", library.RoleAdmin))

	if err := lib.SaveMedia(cfg.MediaPath()); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing media file: %v\n", err)
		os.Exit(1)
	}
	if err := lib.SaveUsers(cfg.UsersPath()); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing users file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Seeded %d media items and %d user(s).\n", len(lib.MediaItems()), len(lib.Users()))
	fmt.Printf("%-10s %-30s %s\n", "Type", "Title", "Status")
	fmt.Println(strings.Repeat("-", 60))
	for _, item := range lib.MediaItems() {
		status := "available"
		if !item.Available() {
			status = "checked out"
		}
		fmt.Printf("%-10s %-30s %s\n", item.Type(), truncateString(item.Title(), 30), status)
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
