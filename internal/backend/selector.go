package backend

import (
	"context"
	"log/slog"
)

// Selector picks the first available backend and guarantees a result by
// falling back, ultimately to the heuristic engine which cannot fail.
type Selector struct {
	// Preferred names a backend to try first; empty means probe in the
	// default order.
	Preferred string
	Backends  []Backend
	Fallback  Heuristic
}

// NewSelector builds the default fallback chain: local daemon, then cloud
// API, then the pattern model, with the rule engine as the safety net.
func NewSelector(preferred string, local Local, cloud Cloud) *Selector {
	return &Selector{
		Preferred: preferred,
		Backends:  []Backend{local, cloud, PatternModel{}},
	}
}

// Generate runs the request through the first backend that probes
// available. That backend gets one attempt; a runtime failure after a
// positive probe goes straight to the heuristic engine rather than on to
// the next model, so a hung daemon costs one warning, not a cascade of
// network calls. Generate never returns an error and never returns an
// empty result.
func (s *Selector) Generate(ctx context.Context, req Request) *Result {
	if s.Preferred == s.Fallback.Name() {
		res, _ := s.Fallback.Generate(ctx, req)
		return res
	}

	for _, b := range s.ordered() {
		if !b.Available(ctx) {
			continue
		}
		res, err := b.Generate(ctx, req)
		if err == nil && res != nil && len(res.Suggestions) > 0 {
			return res
		}
		if err != nil {
			slog.Warn("coaching backend failed, using heuristic fallback", "backend", b.Name(), "error", err)
		}
		break
	}

	res, _ := s.Fallback.Generate(ctx, req)
	return res
}

// ordered returns the probe order, moving the preferred backend to the
// front when it names one of the configured backends.
func (s *Selector) ordered() []Backend {
	if s.Preferred == "" {
		return s.Backends
	}
	out := make([]Backend, 0, len(s.Backends))
	for _, b := range s.Backends {
		if b.Name() == s.Preferred {
			out = append(out, b)
		}
	}
	for _, b := range s.Backends {
		if b.Name() != s.Preferred {
			out = append(out, b)
		}
	}
	return out
}
