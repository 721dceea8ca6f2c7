// Package gitexec runs read-only git commands against local repositories.
// Every command carries a timeout, and the convenience helpers translate any
// failure (non-zero exit, missing binary, timeout) into an empty result so
// an inaccessible repository never aborts a scan or a coaching run.
package gitexec

import (
	"context"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/kalambet/commitcoach/internal/errs"
)

const defaultTimeout = 5 * time.Second

// Runner executes git in a given working directory.
type Runner struct {
	// Timeout bounds a single git invocation. Zero means 5 seconds.
	Timeout time.Duration
}

// Output runs git with the given arguments in dir and returns trimmed
// stdout. Failures are returned as a GitCommandError.
func (r Runner) Output(ctx context.Context, dir string, args ...string) (string, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", errs.Wrap(errs.GitCommandError, "git "+strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// output is Output with the error downgraded to a debug log and an empty
// string, matching the "empty result, never propagates" contract.
func (r Runner) output(ctx context.Context, dir string, args ...string) string {
	out, err := r.Output(ctx, dir, args...)
	if err != nil {
		slog.Debug("git command failed", "dir", dir, "args", args, "error", err)
		return ""
	}
	return out
}

// Subjects returns the one-line subjects of the last n commits, newest
// first. An empty or inaccessible history yields an empty slice.
func (r Runner) Subjects(ctx context.Context, repo string, n int) []string {
	if n <= 0 {
		n = 50
	}
	out := r.output(ctx, repo, "log", "--format=%s", "-n", strconv.Itoa(n))
	if out == "" {
		return nil
	}
	var subjects []string
	for _, line := range strings.Split(out, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			subjects = append(subjects, s)
		}
	}
	return subjects
}

// RemoteOriginURL returns the configured origin URL, or "" when there is
// no remote.
func (r Runner) RemoteOriginURL(ctx context.Context, repo string) string {
	return r.output(ctx, repo, "config", "--get", "remote.origin.url")
}

// DefaultBranch resolves the checked-out branch name, trying symbolic-ref
// first, then rev-parse, then falling back to "main".
func (r Runner) DefaultBranch(ctx context.Context, repo string) string {
	if b := r.output(ctx, repo, "symbolic-ref", "--short", "HEAD"); b != "" {
		return b
	}
	if b := r.output(ctx, repo, "rev-parse", "--abbrev-ref", "HEAD"); b != "" {
		return b
	}
	return "main"
}

// Toplevel returns the repository root for a path inside a working tree,
// or "" when the path is not inside one.
func (r Runner) Toplevel(ctx context.Context, dir string) string {
	return r.output(ctx, dir, "rev-parse", "--show-toplevel")
}

// StagedNumstat returns `git diff --numstat --cached` output.
func (r Runner) StagedNumstat(ctx context.Context, repo string) string {
	return r.output(ctx, repo, "diff", "--numstat", "--cached")
}

// Numstat returns `git diff --numstat` output for unstaged changes.
func (r Runner) Numstat(ctx context.Context, repo string) string {
	return r.output(ctx, repo, "diff", "--numstat")
}

// RepoName resolves the display name for a repository: the last path
// segment of the remote URL with any ".git" suffix stripped, falling back
// to the directory basename.
func RepoName(remoteURL, dir string) string {
	if remoteURL != "" {
		name := strings.TrimSuffix(remoteURL, ".git")
		if i := strings.LastIndexAny(name, "/:"); i >= 0 {
			name = name[i+1:]
		}
		if name != "" {
			return name
		}
	}
	return filepath.Base(dir)
}
