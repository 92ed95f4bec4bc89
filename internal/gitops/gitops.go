// Package gitops keeps a file-backed book under version control, one commit
// per posting or import.
package gitops

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrNothingToCommit is returned when the working tree is clean.
var ErrNothingToCommit = errors.New("nothing to commit")

// Author identifies who commits to the book.
type Author struct {
	Name  string
	Email string
}

func (a Author) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// git runs a git subcommand in dir as the given author. Output is returned
// trimmed; on failure it is folded into the error.
func git(ctx context.Context, dir string, a Author, args ...string) (string, error) {
	full := append([]string{"-c", "user.name=" + a.Name, "-c", "user.email=" + a.Email}, args...)
	cmd := exec.CommandContext(ctx, "git", full...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(stderr.String()+string(out)), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Init initializes a new git repository at dir.
func Init(ctx context.Context, dir string) error {
	_, err := git(ctx, dir, Author{}, "init", "--quiet")
	return err
}

// CommitAll stages all files and creates a commit. Returns the short commit hash.
func CommitAll(ctx context.Context, dir, message string, a Author) (string, error) {
	if _, err := git(ctx, dir, a, "add", "-A"); err != nil {
		return "", err
	}

	status, err := git(ctx, dir, a, "status", "--porcelain")
	if err != nil {
		return "", err
	}
	if status == "" {
		return "", ErrNothingToCommit
	}

	if _, err := git(ctx, dir, a, "commit", "--quiet", "-m", message, "--author", a.String()); err != nil {
		return "", err
	}
	return git(ctx, dir, a, "rev-parse", "--short", "HEAD")
}

// IsRepo reports whether dir is the root of a git repository.
func IsRepo(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil
}

// Committer commits a book directory after it changes. A disabled
// Committer, or one pointed at a directory outside git, does nothing.
type Committer struct {
	dir     string
	author  Author
	enabled bool
}

// NewCommitter returns a Committer for dir.
func NewCommitter(dir string, a Author, enabled bool) *Committer {
	return &Committer{dir: dir, author: a, enabled: enabled}
}

// Commit records the current state of the book. It returns "" when nothing
// was committed.
func (c *Committer) Commit(ctx context.Context, message string) (string, error) {
	if c == nil || !c.enabled || !IsRepo(c.dir) {
		return "", nil
	}
	hash, err := CommitAll(ctx, c.dir, message, c.author)
	if errors.Is(err, ErrNothingToCommit) {
		return "", nil
	}
	return hash, err
}
