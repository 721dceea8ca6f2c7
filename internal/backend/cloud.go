package backend

import (
	"context"

	"github.com/kalambet/commitcoach/internal/cloudapi"
	"github.com/kalambet/commitcoach/internal/errs"
)

// Cloud coaches via a hosted chat API. It is available whenever an API
// key is configured; no network probe is made before Generate.
type Cloud struct {
	Client *cloudapi.Client
	Model  string
}

func (Cloud) Name() string { return "cloud" }

func (c Cloud) Available(context.Context) bool {
	return c.Client.HasKey()
}

func (c Cloud) Generate(ctx context.Context, req Request) (*Result, error) {
	content, err := c.Client.Chat(ctx, c.Model, []cloudapi.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: buildPrompt(req)},
	})
	if err != nil {
		return nil, errs.Wrap(errs.BackendUnavailable, "cloud chat failed", err)
	}

	suggestions := parseResponse(content)
	if len(suggestions) == 0 {
		return nil, errs.New(errs.BackendUnavailable, "cloud model returned no suggestions")
	}

	model := c.Model
	if model == "" {
		model = cloudapi.DefaultModel
	}
	return &Result{Suggestions: suggestions, Model: model, Source: SourceAPI}, nil
}
