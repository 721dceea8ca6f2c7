package profile

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kalambet/commitcoach/internal/errs"
	"github.com/kalambet/commitcoach/internal/gitexec"
	"github.com/kalambet/commitcoach/internal/scan"
	"github.com/kalambet/commitcoach/internal/stack"
	"github.com/kalambet/commitcoach/internal/style"
)

// DefaultWorkers is the size of the per-repository analysis pool.
const DefaultWorkers = 4

// Builder orchestrates scanning, style analysis, and stack detection into
// a fresh Profile.
type Builder struct {
	Scanner scan.Scanner
	Style   style.Analyzer
	Stack   stack.Detector
	Git     gitexec.Runner
	// Workers bounds concurrent per-repo analysis. Zero means
	// DefaultWorkers.
	Workers int

	// now is overridable for tests.
	now func() time.Time
}

// Build scans the given dev paths and produces a complete Profile. It
// returns a ScanError when no repositories are found. Each repository's
// analysis is independent, so repos are analyzed by a small worker pool;
// results land in per-index slots with no shared mutable state.
func (b Builder) Build(ctx context.Context, roots []string) (*Profile, error) {
	repos := b.Scanner.Scan(ctx, roots)
	if len(repos) == 0 {
		return nil, errs.New(errs.ScanError, "no git repositories found under the configured dev paths")
	}

	workers := b.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	results := make([]RepoProfile, len(repos))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, repo := range repos {
		i, repo := i, repo
		g.Go(func() error {
			results[i] = RepoProfile{
				Path:        repo.Path,
				TechStack:   b.Stack.Detect(repo.Path),
				Structure:   b.Stack.Structure(repo.Path),
				CommitStyle: b.Style.Analyze(gctx, repo.Path),
				Habits:      Habits{DefaultBranch: b.Git.DefaultBranch(gctx, repo.Path)},
			}
			return nil
		})
	}
	// Workers only record results; they never return errors.
	g.Wait()

	p := &Profile{
		Repos:    make(map[string]RepoProfile, len(repos)),
		LastScan: b.timeNow().UTC(),
	}
	for i, repo := range repos {
		p.Repos[repo.Name] = results[i]
	}
	p.Global = aggregate(results)
	return p, nil
}

// aggregate folds per-repo styles into the global summary: mean average
// length, majority-vote mood (imperative wins ties over sentence, sentence
// over lowercase), and emoji use when more than 30% of repos report it.
func aggregate(results []RepoProfile) GlobalStyle {
	if len(results) == 0 {
		return GlobalStyle{AvgLength: 5.0, Mood: style.Imperative}
	}

	var totalLen float64
	var emojiRepos int
	moodCounts := map[style.CaseStyle]int{}
	for _, rp := range results {
		totalLen += rp.CommitStyle.AvgLength
		if rp.CommitStyle.UsesEmoji {
			emojiRepos++
		}
		moodCounts[rp.CommitStyle.CaseStyle]++
	}

	mood := style.Imperative
	best := 0
	for _, cs := range []style.CaseStyle{style.Imperative, style.Sentence, style.Lowercase} {
		if moodCounts[cs] > best {
			mood = cs
			best = moodCounts[cs]
		}
	}

	n := float64(len(results))
	return GlobalStyle{
		AvgLength: totalLen / n,
		Mood:      mood,
		UsesEmoji: float64(emojiRepos)/n > 0.3,
	}
}

func (b Builder) timeNow() time.Time {
	if b.now != nil {
		return b.now()
	}
	return time.Now()
}
