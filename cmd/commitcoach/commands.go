package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/commitcoach/internal/backend"
	"github.com/kalambet/commitcoach/internal/cloudapi"
	"github.com/kalambet/commitcoach/internal/coach"
	"github.com/kalambet/commitcoach/internal/config"
	"github.com/kalambet/commitcoach/internal/errs"
	"github.com/kalambet/commitcoach/internal/gitexec"
	"github.com/kalambet/commitcoach/internal/ollama"
	"github.com/kalambet/commitcoach/internal/profile"
	"github.com/kalambet/commitcoach/internal/scan"
	"github.com/kalambet/commitcoach/internal/stack"
	"github.com/kalambet/commitcoach/internal/storage"
	"github.com/kalambet/commitcoach/internal/style"
)

// app wires configuration into the operations behind each CLI flag.
type app struct {
	cfg   config.Config
	git   gitexec.Runner
	store *profile.Store
}

func newApp(cfg config.Config) *app {
	return &app{
		cfg:   cfg,
		git:   gitexec.Runner{},
		store: profile.NewStore(cfg.Profile.Path),
	}
}

func (a *app) buildProfile(ctx context.Context) error {
	if len(a.cfg.Scan.DevPaths) == 0 {
		return fmt.Errorf("no dev paths configured; set scan.dev_paths or COMMITCOACH_SCAN_DEV_PATHS")
	}

	printStep("Scanning %d dev paths...", len(a.cfg.Scan.DevPaths))
	builder := profile.Builder{
		Scanner: scan.Scanner{Git: a.git, MaxRepos: a.cfg.Scan.MaxRepos},
		Style:   style.Analyzer{Git: a.git, SampleSize: a.cfg.Scan.SampleSize},
		Stack:   stack.Detector{},
		Git:     a.git,
		Workers: a.cfg.Scan.Workers,
	}
	p, err := builder.Build(ctx, a.cfg.Scan.DevPaths)
	if err != nil {
		return err
	}

	if err := a.store.Save(p); err != nil {
		// The analysis itself succeeded; show it before failing.
		printWarning("Profile built but could not be saved: %v", err)
		return err
	}

	printSuccess("Analyzed %d repositories", len(p.Repos))
	printStatus("Global style", "avg %.1f words, %s mood", p.Global.AvgLength, p.Global.Mood)
	printStatus("Profile", "%s", a.cfg.Profile.Path)
	return nil
}

func (a *app) coach(ctx context.Context, draft string) error {
	p, err := a.loadProfile()
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("no profile found; run commitcoach --build-profile first")
	}

	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	if top := a.git.Toplevel(ctx, dir); top != "" {
		dir = top
	}
	name := gitexec.RepoName(a.git.RemoteOriginURL(ctx, dir), dir)

	var repo *profile.RepoProfile
	if rp, ok := p.Repo(name); ok {
		repo = &rp
	} else {
		printWarning("Repository %q is not in the profile; run --build-profile to include it", name)
		if !p.NeedsRebuild {
			p.NeedsRebuild = true
			if err := a.store.Save(p); err != nil {
				slog.Warn("could not record rebuild flag", "error", err)
			}
		}
	}

	diff := coach.Extractor{Git: a.git}.Extract(ctx, dir)

	sel := backend.NewSelector(a.cfg.Coach.Backend,
		backend.Local{Client: ollama.New(a.cfg.Ollama.BaseURL), Model: a.cfg.Ollama.Model},
		backend.Cloud{Client: cloudapi.NewClient(a.cfg.Cloud.APIKey), Model: a.cfg.Cloud.Model},
	)
	res := sel.Generate(ctx, backend.Request{
		Draft:  draft,
		Diff:   diff,
		Repo:   repo,
		Global: &p.Global,
	})

	printStatus("Backend", "%s (%s)", res.Model, res.Source)
	if draft != "" {
		printStatus("Draft", "%s", draft)
	}
	for i, s := range res.Suggestions {
		fmt.Fprintf(os.Stdout, "  %d. %s %s\n", i+1, colorize(colorBold, "["+string(s.Category)+"]"), s.Text)
	}

	a.recordSession(dir, name, draft, res)
	return nil
}

// recordSession logs the coaching run so --feedback and --insights can
// see it. Session history is best effort; a storage failure never fails
// the coaching itself.
func (a *app) recordSession(dir, name, draft string, res *backend.Result) {
	store, err := storage.Open(a.cfg.Storage.DataDir)
	if err != nil {
		slog.Warn("could not open session store", "error", err)
		return
	}
	defer store.Close()

	suggestions, err := json.Marshal(res.Suggestions)
	if err != nil {
		slog.Warn("could not encode suggestions", "error", err)
		return
	}
	sess := storage.Session{
		ID:              uuid.NewString(),
		CreatedAt:       time.Now(),
		RepoPath:        dir,
		RepoName:        name,
		Draft:           draft,
		Backend:         res.Model,
		Source:          string(res.Source),
		SuggestionsJSON: string(suggestions),
	}
	if err := store.SaveSession(sess); err != nil {
		slog.Warn("could not record coaching session", "error", err)
	}
}

func (a *app) insights(ctx context.Context) error {
	if len(a.cfg.Scan.DevPaths) == 0 {
		return fmt.Errorf("no dev paths configured; set scan.dev_paths or COMMITCOACH_SCAN_DEV_PATHS")
	}

	p, err := a.loadProfile()
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("no profile found; run commitcoach --build-profile first")
	}

	fmt.Fprintln(os.Stdout, colorize(colorBold, "Global style"))
	fmt.Fprintf(os.Stdout, "  average length : %.1f words\n", p.Global.AvgLength)
	fmt.Fprintf(os.Stdout, "  mood           : %s\n", p.Global.Mood)
	fmt.Fprintf(os.Stdout, "  uses emoji     : %v\n", p.Global.UsesEmoji)
	fmt.Fprintf(os.Stdout, "  last scan      : %s\n", p.LastScan.Local().Format(time.RFC1123))
	if p.NeedsRebuild {
		printWarning("Profile is stale; run --build-profile")
	}

	fmt.Fprintln(os.Stdout)
	fmt.Fprintln(os.Stdout, colorize(colorBold, "Repositories"))
	for _, name := range sortedRepoNames(p) {
		rp := p.Repos[name]
		fmt.Fprintf(os.Stdout, "  %s\n", colorize(colorCyan, name))
		fmt.Fprintf(os.Stdout, "    stack    : %s\n", strings.Join(rp.TechStack, ", "))
		fmt.Fprintf(os.Stdout, "    style    : avg %.1f words, %s, freeform %.0f%%\n",
			rp.CommitStyle.AvgLength, rp.CommitStyle.CaseStyle, rp.CommitStyle.FreeformRatio*100)
		if len(rp.CommitStyle.CommonPrefixes) > 0 {
			fmt.Fprintf(os.Stdout, "    prefixes : %s\n", strings.Join(rp.CommitStyle.CommonPrefixes, ", "))
		}
		fmt.Fprintf(os.Stdout, "    branch   : %s\n", rp.Habits.DefaultBranch)
	}

	a.printRecentSessions()
	return nil
}

func (a *app) printRecentSessions() {
	store, err := storage.Open(a.cfg.Storage.DataDir)
	if err != nil {
		slog.Debug("could not open session store", "error", err)
		return
	}
	defer store.Close()

	sessions, err := store.RecentSessions(5)
	if err != nil || len(sessions) == 0 {
		return
	}

	fmt.Fprintln(os.Stdout)
	fmt.Fprintln(os.Stdout, colorize(colorBold, "Recent sessions"))
	for _, s := range sessions {
		grade := s.Feedback
		if grade == "" {
			grade = "ungraded"
		}
		draft := s.Draft
		if draft == "" {
			draft = "(no draft)"
		}
		fmt.Fprintf(os.Stdout, "  %s  %-10s %s via %s [%s]\n",
			s.CreatedAt.Local().Format("2006-01-02 15:04"), s.RepoName, draft, s.Backend, grade)
	}
}

func (a *app) feedback(ctx context.Context, value string) error {
	fb := profile.Feedback(strings.ToLower(value))
	if fb != profile.FeedbackGood && fb != profile.FeedbackBad {
		return usageError{msg: fmt.Sprintf("invalid feedback %q: must be good or bad", value)}
	}

	store, err := storage.Open(a.cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening session store: %w", err)
	}
	defer store.Close()

	sess, err := store.LatestOpenSession()
	if errors.Is(err, storage.ErrNotFound) {
		printWarning("No active coaching session to grade")
		return nil
	}
	if err != nil {
		return err
	}

	if err := store.SetSessionFeedback(sess.ID, string(fb)); err != nil {
		return err
	}

	adapter := profile.FeedbackAdapter{Git: a.git, Store: a.store}
	if err := adapter.Apply(ctx, sess.RepoPath, fb); err != nil {
		return err
	}

	printSuccess("Recorded %s feedback for %s", fb, sess.RepoName)
	return nil
}

// loadProfile treats a corrupt profile as absent so a broken file asks
// for a rebuild instead of wedging every command.
func (a *app) loadProfile() (*profile.Profile, error) {
	p, err := a.store.Load()
	if errs.IsKind(err, errs.ProfileCorrupt) {
		printWarning("Profile file is corrupt and will be rebuilt: %v", err)
		return nil, nil
	}
	return p, err
}

func sortedRepoNames(p *profile.Profile) []string {
	names := make([]string, 0, len(p.Repos))
	for name := range p.Repos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
