// Package scan discovers git repositories under configured development
// paths. The walk is bounded: nested repositories are never descended into,
// and the total number of repositories is capped.
package scan

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kalambet/commitcoach/internal/gitexec"
)

// DefaultMaxRepos bounds how many repositories a scan will process.
const DefaultMaxRepos = 10

// Repo identifies one discovered repository.
type Repo struct {
	Name string
	Path string
}

// Scanner walks development roots looking for git working trees.
type Scanner struct {
	Git gitexec.Runner
	// MaxRepos caps the scan. Zero means DefaultMaxRepos.
	MaxRepos int
}

// Scan returns discovered repositories, deduplicated by resolved name.
// Repositories beyond the cap are silently skipped. Per-directory
// filesystem errors are skipped and never abort the scan.
func (s Scanner) Scan(ctx context.Context, roots []string) []Repo {
	max := s.MaxRepos
	if max <= 0 {
		max = DefaultMaxRepos
	}

	var repos []Repo
	seen := make(map[string]bool)

	for _, root := range roots {
		if root == "" {
			continue
		}
		if _, err := os.Stat(root); err != nil {
			slog.Debug("skipping unreadable dev path", "path", root, "error", err)
			continue
		}
		if len(repos) >= max {
			break
		}

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == root {
					return err
				}
				return fs.SkipDir
			}
			if ctx.Err() != nil {
				return fs.SkipAll
			}
			if !d.IsDir() {
				return nil
			}
			if !isRepoRoot(path) {
				return nil
			}

			name := gitexec.RepoName(s.Git.RemoteOriginURL(ctx, path), path)
			if !seen[name] {
				seen[name] = true
				repos = append(repos, Repo{Name: name, Path: path})
			}
			if len(repos) >= max {
				return fs.SkipAll
			}
			// Never descend into a repository; nested repos are skipped.
			return fs.SkipDir
		})
		if err != nil {
			slog.Debug("dev path walk failed", "path", root, "error", err)
		}
	}
	return repos
}

func isRepoRoot(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}
