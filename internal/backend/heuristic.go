package backend

import (
	"context"

	"github.com/kalambet/commitcoach/internal/coach"
)

// Heuristic runs the deterministic rule engine. It has no external
// dependencies, so it is always available and never fails; the selector
// uses it as the fallback of last resort.
type Heuristic struct {
	Engine coach.Engine
}

func (Heuristic) Name() string { return "heuristic" }

func (Heuristic) Available(context.Context) bool { return true }

func (h Heuristic) Generate(_ context.Context, req Request) (*Result, error) {
	return &Result{
		Suggestions: h.Engine.Suggest(req.Draft, req.Diff, req.Repo, req.Global),
		Model:       "Heuristic Coach",
		Source:      SourceHeuristic,
	}, nil
}
