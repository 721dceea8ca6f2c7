package backend

import (
	"context"
	"time"

	"github.com/kalambet/commitcoach/internal/errs"
	"github.com/kalambet/commitcoach/internal/ollama"
)

const localTimeout = 30 * time.Second

// Local coaches via a local Ollama daemon.
type Local struct {
	Client *ollama.Client
	// Model overrides automatic selection when non-empty.
	Model string
}

func (Local) Name() string { return "local" }

func (l Local) Available(ctx context.Context) bool {
	return l.Client.IsRunning(ctx)
}

func (l Local) Generate(ctx context.Context, req Request) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, localTimeout)
	defer cancel()

	model := l.Model
	if model == "" {
		var err error
		model, err = l.Client.SelectModel(ctx)
		if err != nil {
			return nil, errs.Wrap(errs.BackendUnavailable, "selecting local model", err)
		}
	}

	content, err := l.Client.Chat(ctx, model, []ollama.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildPrompt(req)},
	})
	if err != nil {
		return nil, errs.Wrap(errs.BackendUnavailable, "local model chat failed", err)
	}

	suggestions := parseResponse(content)
	if len(suggestions) == 0 {
		return nil, errs.New(errs.BackendUnavailable, "local model returned no suggestions")
	}
	return &Result{Suggestions: suggestions, Model: model, Source: SourceLocal}, nil
}
