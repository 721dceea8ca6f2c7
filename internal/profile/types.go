// Package profile holds the persisted commit-style aggregate: a global
// summary plus one entry per scanned repository. The on-disk form is JSON
// and tolerates unknown fields, so older binaries can read newer profiles.
package profile

import (
	"time"

	"github.com/kalambet/commitcoach/internal/stack"
	"github.com/kalambet/commitcoach/internal/style"
)

// GlobalStyle aggregates style across all scanned repositories.
type GlobalStyle struct {
	AvgLength float64         `json:"avg_length"`
	Mood      style.CaseStyle `json:"mood"`
	UsesEmoji bool            `json:"uses_emoji"`
}

// Habits records per-repository working habits.
type Habits struct {
	DefaultBranch string `json:"default_branch"`
}

// RepoProfile is everything known about one repository. Path is the source
// of truth; the map key in Profile.Repos is only a display label.
type RepoProfile struct {
	Path        string            `json:"path"`
	TechStack   []string          `json:"tech_stack"`
	Structure   stack.Structure   `json:"structure"`
	CommitStyle style.CommitStyle `json:"commit_style"`
	Habits      Habits            `json:"habits"`
}

// Profile is the root aggregate persisted between CLI invocations.
type Profile struct {
	Global   GlobalStyle            `json:"global"`
	Repos    map[string]RepoProfile `json:"repos"`
	LastScan time.Time              `json:"last_scan"`
	// NeedsRebuild is set when coaching runs against a repository the
	// profile does not know about, and cleared by a successful rebuild.
	NeedsRebuild bool `json:"needs_rebuild,omitempty"`
}

// Repo looks up a repository entry by display name.
func (p *Profile) Repo(name string) (RepoProfile, bool) {
	if p == nil || p.Repos == nil {
		return RepoProfile{}, false
	}
	rp, ok := p.Repos[name]
	return rp, ok
}

// Clamp01 clamps v to [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
