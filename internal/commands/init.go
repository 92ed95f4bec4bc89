package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bookpost/internal/accounts"
	"github.com/cleared-dev/bookpost/internal/config"
	"github.com/cleared-dev/bookpost/internal/gitops"
	"github.com/cleared-dev/bookpost/internal/posting"
)

func newInitCommand() *cobra.Command {
	var name string
	var backend string
	var useGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new book",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.Context(), cmd.OutOrStdout(), absDir, name, backend, useGit)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "business name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&backend, "backend", config.BackendCSV, "store backend: csv, bolt or sqlite")
	cmd.Flags().BoolVar(&useGit, "git", true, "initialize a git repository and commit")

	return cmd
}

func runInit(ctx context.Context, out io.Writer, dir, name, backend string, useGit bool) error {
	if backend == config.BackendMemory {
		return fmt.Errorf("backend %q cannot hold a book on disk", backend)
	}

	// Create directory structure.
	dirs := []string{
		"accounts",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write bookpost.yaml.
	cfg := config.Default(name)
	cfg.Store.Backend = backend
	cfg.Store.Path = config.DefaultStorePath(backend)
	cfg.Git.AutoCommit = useGit
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write chart of accounts.
	svc := accounts.NewService(accounts.DefaultChart())
	if err := svc.Save(dir); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}

	// Create the books with their header rows.
	s, closeStore, err := cfg.OpenStore(dir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	opts, err := cfg.PostingOptions()
	if err != nil {
		closeStore()
		return err
	}
	if err := posting.WriteHeaders(ctx, s, opts.Sheets); err != nil {
		closeStore()
		return err
	}
	if err := closeStore(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}

	// Write .gitignore.
	gitignore := ".env\n*.sqlite-wal\n*.sqlite-shm\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	// Write import/.gitkeep.
	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	if !useGit {
		fmt.Fprintf(out, "Initialized book %q at %s\n", name, dir)
		return nil
	}

	// Initialize git and create initial commit.
	if err := gitops.Init(ctx, dir); err != nil {
		return err
	}
	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	hash, err := gitops.CommitAll(ctx, dir, "init: Initialize "+name, author)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized book %q at %s (%s)\n", name, dir, hash)
	return nil
}
