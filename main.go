package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"librarysystem/internal/config"
	"librarysystem/library"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

const version = "1.0.0"

func main() {
	cfg := config.NewConfig()

	rootCmd := &cobra.Command{
		Use:          "librarysystem",
		Short:        "Terminal library catalog with role-gated menus",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfg)
		},
	}
	rootCmd.Flags().StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "directory holding the JSON state files")
	rootCmd.Flags().StringVar(&cfg.MediaFile, "media-file", cfg.MediaFile, "media catalog file (relative paths resolve under data-dir)")
	rootCmd.Flags().StringVar(&cfg.UsersFile, "users-file", cfg.UsersFile, "users file (relative paths resolve under data-dir)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("librarysystem " + version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck
	sugar := logger.Sugar()

	lib := library.NewLibrary(sugar)
	// Media must load before users so borrowed books can be relinked
	// by ISBN.
	lib.LoadMedia(cfg.MediaPath())
	lib.LoadUsers(cfg.UsersPath())

	session := library.NewSession(lib, os.Stdin, os.Stdout, readPassword, sugar)

	// Ctrl-C skips straight to the shutdown/save sequence.
	done := make(chan struct{})
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		session.Run()
		close(done)
	}()
	select {
	case <-done:
	case <-sigCh:
		fmt.Println("\nInterrupted, saving...")
		// Closing stdin unblocks the pending read; the session loop
		// then winds down before state is written.
		os.Stdin.Close() //nolint:errcheck
		<-done
	}

	sugar.Infow("saving state", "media", cfg.MediaPath(), "users", cfg.UsersPath())
	if err := lib.SaveMedia(cfg.MediaPath()); err != nil {
		return fmt.Errorf("save media: %w", err)
	}
	if err := lib.SaveUsers(cfg.UsersPath()); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	fmt.Println("State saved. Goodbye!")
	return nil
}

// readPassword masks input when stdin is a terminal and falls back to
// a plain line read otherwise (pipes, tests).
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	if term.IsTerminal(int(syscall.Stdin)) {
		bytePassword, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			return "", err
		}
		fmt.Println()
		return strings.TrimSpace(string(bytePassword)), nil
	}
	var line string
	if _, err := fmt.Scanln(&line); err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
