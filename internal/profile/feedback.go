package profile

import (
	"context"
	"log/slog"
	"math"

	"github.com/kalambet/commitcoach/internal/gitexec"
)

// Feedback is a user verdict on a coaching session.
type Feedback string

const (
	FeedbackGood Feedback = "good"
	FeedbackBad  Feedback = "bad"
)

// FeedbackAdapter nudges the stored style preferences in response to
// explicit user feedback. Good feedback shifts the freeform ratio toward
// structured suggestions, bad feedback toward freeform; each application
// moves it by 0.1 and the ratio stays clamped to [0, 1].
type FeedbackAdapter struct {
	Git   gitexec.Runner
	Store *Store
}

// Apply records feedback for the repository at dir and persists the
// adjusted profile immediately. When the repository is not in the profile
// the call is a no-op; the nudge only makes sense against an observed
// style.
func (a FeedbackAdapter) Apply(ctx context.Context, dir string, fb Feedback) error {
	p, err := a.Store.Load()
	if err != nil {
		return err
	}
	if p == nil {
		slog.Debug("feedback ignored, no profile on disk")
		return nil
	}

	name := gitexec.RepoName(a.Git.RemoteOriginURL(ctx, dir), dir)
	rp, ok := p.Repo(name)
	if !ok {
		slog.Debug("feedback ignored, repository not in profile", "repo", name)
		return nil
	}

	delta := 0.1
	if fb == FeedbackGood {
		delta = -0.1
	}
	rp.CommitStyle.FreeformRatio = round2(Clamp01(rp.CommitStyle.FreeformRatio + delta))
	p.Repos[name] = rp

	return a.Store.Save(p)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
