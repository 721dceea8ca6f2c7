// Package backend abstracts where coaching suggestions come from: the
// rule engine, a local pattern model, a local Ollama daemon, or a hosted
// API. A selector probes availability and falls back so coaching always
// produces something.
package backend

import (
	"context"

	"github.com/kalambet/commitcoach/internal/coach"
	"github.com/kalambet/commitcoach/internal/profile"
)

// Source labels where a result came from.
type Source string

const (
	SourceAPI       Source = "api"
	SourceLocal     Source = "local"
	SourceML        Source = "ml"
	SourceHeuristic Source = "heuristic"
)

// Request carries everything a backend may use to coach a draft.
type Request struct {
	Draft  string
	Diff   *coach.Context
	Repo   *profile.RepoProfile
	Global *profile.GlobalStyle
}

// Result is a backend's coaching output.
type Result struct {
	Suggestions []coach.Suggestion
	Model       string
	Source      Source
}

// Backend generates coaching suggestions. Available is a cheap liveness
// probe; Generate may still fail after a positive probe and callers are
// expected to fall back.
type Backend interface {
	Name() string
	Available(ctx context.Context) bool
	Generate(ctx context.Context, req Request) (*Result, error)
}
