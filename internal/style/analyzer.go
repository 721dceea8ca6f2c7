// Package style computes a commit-message style summary from recent history.
package style

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/kalambet/commitcoach/internal/gitexec"
)

// CaseStyle classifies how commit subjects are phrased.
type CaseStyle string

const (
	Imperative CaseStyle = "imperative"
	Sentence   CaseStyle = "sentence"
	Lowercase  CaseStyle = "lowercase"
)

// casePriority is the fixed tie-break order for the majority vote. This is
// a documented policy, not an artifact of map iteration.
var casePriority = []CaseStyle{Imperative, Sentence, Lowercase}

// CommitStyle summarizes the commit-message habits of one repository.
type CommitStyle struct {
	// AvgLength is the mean number of words per subject.
	AvgLength      float64   `json:"avg_length"`
	CommonPrefixes []string  `json:"common_prefixes"`
	CaseStyle      CaseStyle `json:"case_style"`
	UsesEmoji      bool      `json:"uses_emoji"`
	// FreeformRatio is the fraction of subjects without a conventional
	// prefix, always in [0, 1].
	FreeformRatio float64 `json:"freeform_ratio"`
}

// Default is the contract for repositories with no readable history.
func Default() CommitStyle {
	return CommitStyle{
		AvgLength:      5.0,
		CommonPrefixes: []string{},
		CaseStyle:      Imperative,
		UsesEmoji:      false,
		FreeformRatio:  1.0,
	}
}

var (
	prefixRe = regexp.MustCompile(`(?i)^([a-z]+):`)
	emojiRe  = regexp.MustCompile(`[\x{1F600}-\x{1F64F}\x{1F300}-\x{1F5FF}\x{1F680}-\x{1F6FF}\x{1F1E0}-\x{1F1FF}\x{2702}-\x{27B0}\x{24C2}-\x{1F251}]`)
)

// HasEmoji reports whether s contains an emoji from the detection ranges.
func HasEmoji(s string) bool {
	return emojiRe.MatchString(s)
}

var imperativeVerbs = map[string]bool{
	"add": true, "fix": true, "update": true, "remove": true,
	"refactor": true, "implement": true, "create": true, "delete": true,
}

// Analyzer reads recent commit subjects for a repository.
type Analyzer struct {
	Git gitexec.Runner
	// SampleSize caps the number of subjects read. Zero means 50.
	SampleSize int
}

// Analyze returns the CommitStyle for the repository at path. An empty or
// inaccessible history yields Default().
func (a Analyzer) Analyze(ctx context.Context, path string) CommitStyle {
	n := a.SampleSize
	if n <= 0 {
		n = 50
	}
	return FromSubjects(a.Git.Subjects(ctx, path, n))
}

// FromSubjects computes a CommitStyle from one-line subjects.
func FromSubjects(subjects []string) CommitStyle {
	if len(subjects) == 0 {
		return Default()
	}

	var (
		totalWords  int
		emojiCount  int
		prefixed    int
		caseCounts  = map[CaseStyle]int{}
		prefixCount = map[string]int{}
		prefixSeen  []string
	)

	for _, msg := range subjects {
		words := strings.Fields(msg)
		totalWords += len(words)

		if HasEmoji(msg) {
			emojiCount++
		}

		if m := prefixRe.FindStringSubmatch(msg); m != nil {
			prefix := strings.ToLower(m[1])
			if prefixCount[prefix] == 0 {
				prefixSeen = append(prefixSeen, prefix)
			}
			prefixCount[prefix]++
			prefixed++
		}

		if len(words) == 0 {
			continue
		}
		first := words[0]
		switch {
		case imperativeVerbs[strings.ToLower(first)]:
			caseCounts[Imperative]++
		case startsUpper(first) && strings.HasSuffix(msg, "."):
			caseCounts[Sentence]++
		case strings.ToLower(first) == first:
			caseCounts[Lowercase]++
		}
	}

	total := len(subjects)
	return CommitStyle{
		AvgLength:      round1(float64(totalWords) / float64(total)),
		CommonPrefixes: topPrefixes(prefixCount, prefixSeen, 3),
		CaseStyle:      dominantCase(caseCounts),
		UsesEmoji:      float64(emojiCount)/float64(total) > 0.2,
		FreeformRatio:  round2(1.0 - float64(prefixed)/float64(total)),
	}
}

// dominantCase picks the bucket with the highest count, breaking ties by
// the fixed priority imperative > sentence > lowercase.
func dominantCase(counts map[CaseStyle]int) CaseStyle {
	best := Imperative
	bestCount := 0
	for _, cs := range casePriority {
		if counts[cs] > bestCount {
			best = cs
			bestCount = counts[cs]
		}
	}
	return best
}

// topPrefixes returns up to max prefixes ordered by frequency, ties broken
// by first appearance in the sample.
func topPrefixes(counts map[string]int, seen []string, max int) []string {
	order := make(map[string]int, len(seen))
	for i, p := range seen {
		order[p] = i
	}
	sorted := append([]string(nil), seen...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if counts[sorted[i]] != counts[sorted[j]] {
			return counts[sorted[i]] > counts[sorted[j]]
		}
		return order[sorted[i]] < order[sorted[j]]
	})
	if len(sorted) > max {
		sorted = sorted[:max]
	}
	if sorted == nil {
		sorted = []string{}
	}
	return sorted
}

func startsUpper(word string) bool {
	for _, r := range word {
		return unicode.IsUpper(r)
	}
	return false
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
