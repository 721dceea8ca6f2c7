// Package coach turns a draft commit message and the working tree state
// into ordered, deterministic suggestions.
package coach

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/kalambet/commitcoach/internal/gitexec"
)

// Context describes the pending change a commit message should cover.
type Context struct {
	Files          []string `json:"files"`
	TotalAdditions int      `json:"total_additions"`
	TotalDeletions int      `json:"total_deletions"`
	HasChanges     bool     `json:"has_changes"`
}

// Summary renders the context in the compact form fed to model backends.
func (c *Context) Summary() string {
	if c == nil || !c.HasChanges {
		return "No changes detected"
	}
	files := c.Files
	if len(files) > 5 {
		files = files[:5]
	}
	return fmt.Sprintf("Changes: %d files, +%d/-%d lines | Modified: %s",
		len(c.Files), c.TotalAdditions, c.TotalDeletions, strings.Join(files, ", "))
}

// Extractor reads the pending diff for a repository.
type Extractor struct {
	Git gitexec.Runner
}

// Extract prefers staged changes; when nothing is staged it falls back to
// unstaged ones. Git failures yield an empty context rather than an error.
func (e Extractor) Extract(ctx context.Context, dir string) *Context {
	out := e.Git.StagedNumstat(ctx, dir)
	if strings.TrimSpace(out) == "" {
		out = e.Git.Numstat(ctx, dir)
	}
	return parseNumstat(out)
}

// parseNumstat reads `git diff --numstat` output: one
// "additions<TAB>deletions<TAB>path" line per file, with "-" for binary
// counts.
func parseNumstat(out string) *Context {
	c := &Context{}
	for _, line := range strings.Split(out, "\n") {
		parts := strings.SplitN(strings.TrimSpace(line), "\t", 3)
		if len(parts) != 3 || parts[2] == "" {
			continue
		}
		c.Files = append(c.Files, parts[2])
		c.TotalAdditions += atoiOrZero(parts[0])
		c.TotalDeletions += atoiOrZero(parts[1])
	}
	c.HasChanges = len(c.Files) > 0
	return c
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
