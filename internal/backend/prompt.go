package backend

import (
	"fmt"
	"strings"

	"github.com/kalambet/commitcoach/internal/coach"
)

const systemPrompt = "You are a commit message coach. Reply with up to 3 " +
	"suggested commit messages, one per line, no numbering and no extra prose."

// buildPrompt renders the coaching request for a chat model. The stored
// style narrows what the model proposes so suggestions match how the user
// actually writes.
func buildPrompt(req Request) string {
	var b strings.Builder

	if req.Draft == "" {
		b.WriteString("Suggest a commit message for these changes.\n")
	} else {
		fmt.Fprintf(&b, "Improve this draft commit message: %q\n", req.Draft)
	}

	if req.Diff != nil {
		fmt.Fprintf(&b, "Diff: %s\n", req.Diff.Summary())
	}
	if req.Repo != nil {
		cs := req.Repo.CommitStyle
		if cs.FreeformRatio > 0.8 {
			b.WriteString("Style: freeform messages, no type prefixes.\n")
		} else if len(cs.CommonPrefixes) > 0 {
			fmt.Fprintf(&b, "Style: conventional commits, common prefixes: %s.\n", strings.Join(cs.CommonPrefixes, ", "))
		}
		if cs.AvgLength > 0 {
			fmt.Fprintf(&b, "Typical length: about %.0f words.\n", cs.AvgLength)
		}
	}
	return b.String()
}

// parseResponse turns model output into suggestions: one per non-empty
// line, with list markers and quotes stripped, capped at three.
func parseResponse(content string) []coach.Suggestion {
	var out []coach.Suggestion
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*0123456789.) ")
		line = strings.Trim(line, "`\"")
		if line == "" {
			continue
		}
		out = append(out, coach.Suggestion{Category: coach.CategoryMessage, Text: line})
		if len(out) == 3 {
			break
		}
	}
	return out
}
