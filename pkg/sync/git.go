// Package sync keeps the data directory in a git repository and
// synchronizes it with a remote.
package sync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// ErrNotRepo is returned when the data directory has no .git.
var ErrNotRepo = errors.New("not a git repository. Run 'stratlife init' first")

// Runner executes git with args inside dir.
type Runner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// ExecRunner runs the real git binary.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", dir}, args...)...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.String(), err
}

// Repo is a data directory under git.
type Repo struct {
	Dir string
	// Out receives progress lines; nil discards them.
	Out io.Writer

	runner Runner
	now    func() time.Time
}

// NewRepo returns a Repo for dir using the git binary.
func NewRepo(dir string) *Repo {
	return &Repo{Dir: dir, runner: ExecRunner{}, now: time.Now}
}

// WithRunner swaps the command runner, for tests.
func (r *Repo) WithRunner(run Runner) *Repo {
	r.runner = run
	return r
}

func (r *Repo) git(ctx context.Context, args ...string) (string, error) {
	return r.runner.Run(ctx, r.Dir, args...)
}

func (r *Repo) printf(format string, a ...any) {
	if r.Out != nil {
		fmt.Fprintf(r.Out, format, a...)
	}
}

// IsRepo reports whether Dir has a .git directory.
func (r *Repo) IsRepo() bool {
	_, err := os.Stat(filepath.Join(r.Dir, ".git"))
	return err == nil
}

// Init creates the repository if needed and, when remote is set, points
// origin at it.
func (r *Repo) Init(ctx context.Context, remote string) error {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	if !r.IsRepo() {
		if out, err := r.git(ctx, "init"); err != nil {
			return fmt.Errorf("git init: %w: %s", err, out)
		}
		r.printf("Initialized git repository in %s\n", r.Dir)
	}
	ignore := filepath.Join(r.Dir, ".gitignore")
	if _, err := os.Stat(ignore); os.IsNotExist(err) {
		if err := os.WriteFile(ignore, []byte("*.log\n"), 0o644); err != nil {
			return fmt.Errorf("writing .gitignore: %w", err)
		}
	}

	if remote == "" {
		r.printf("No remote specified. Use --remote <url> to set one.\n")
		return nil
	}

	// Remove existing origin first (ignore error if doesn't exist)
	_, _ = r.git(ctx, "remote", "remove", "origin")
	if out, err := r.git(ctx, "remote", "add", "origin", remote); err != nil {
		return fmt.Errorf("setting remote: %w: %s", err, out)
	}
	r.printf("Remote set to: %s\n", remote)
	return nil
}

// Sync commits local changes, pulls with rebase (falling back to merge),
// then pushes.
func (r *Repo) Sync(ctx context.Context) error {
	if !r.IsRepo() {
		return ErrNotRepo
	}

	r.printf("Staging changes...\n")
	if out, err := r.git(ctx, "add", "-A"); err != nil {
		return fmt.Errorf("git add: %w: %s", err, out)
	}
	// diff --quiet exits non-zero when something is staged
	if _, err := r.git(ctx, "diff", "--cached", "--quiet"); err != nil {
		msg := "sync " + r.now().Format("2006-01-02 15:04:05")
		if out, err := r.git(ctx, "commit", "-m", msg); err != nil {
			return fmt.Errorf("git commit: %w: %s", err, out)
		}
	}

	r.printf("Pulling...\n")
	if _, err := r.git(ctx, "pull", "--rebase"); err != nil {
		r.printf("Rebase failed, trying merge...\n")
		_, _ = r.git(ctx, "rebase", "--abort")
		if _, err := r.git(ctx, "pull", "--no-rebase"); err != nil {
			_, _ = r.git(ctx, "merge", "--abort")
			return fmt.Errorf("sync failed: could not rebase or merge. Resolve conflicts manually")
		}
	}

	r.printf("Pushing...\n")
	if out, err := r.git(ctx, "push"); err != nil {
		return fmt.Errorf("push failed: %w: %s", err, out)
	}

	r.printf("Sync complete.\n")
	return nil
}
