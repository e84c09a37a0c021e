// Package detect matches dataset column names against the critical-variable
// registry and produces one detection result per variable.
package detect

import (
	"fmt"
	"sort"
	"strings"

	"github.com/varlens/varlens-cli/internal/registry"
	"github.com/varlens/varlens-cli/internal/similarity"
	"github.com/varlens/varlens-cli/internal/textnorm"
)

// DefaultThreshold is the minimum similarity for a match to count as detected.
const DefaultThreshold = 0.6

// Tier buckets a confidence value. The Medium boundary (0.7) sits above the
// default detection threshold (0.6) on purpose: confidences in [0.6, 0.7)
// are detected with tier low. Tier boundaries are fixed; only the detection
// threshold is configurable.
type Tier string

const (
	TierHigh   Tier = "high"   // confidence >= 0.9
	TierMedium Tier = "medium" // 0.7 <= confidence < 0.9
	TierLow    Tier = "low"    // confidence < 0.7
)

func tierOf(confidence float64) Tier {
	switch {
	case confidence >= 0.9:
		return TierHigh
	case confidence >= 0.7:
		return TierMedium
	default:
		return TierLow
	}
}

// Options controls a detection run.
type Options struct {
	// Threshold is the detection cutoff in (0.0, 1.0]. Zero means DefaultThreshold.
	Threshold float64
}

// ColumnMatch records one column contributing evidence for a variable.
type ColumnMatch struct {
	Column  string  `json:"column"`
	Score   float64 `json:"score"`
	Synonym string  `json:"synonym"`
	Group   string  `json:"group,omitempty"`
}

// Result is the detection outcome for one critical variable. Confidence is
// always the maximum similarity observed across every (column, synonym)
// pair evaluated for the variable, whether or not it cleared the threshold.
type Result struct {
	Key          string            `json:"key"`
	Name         string            `json:"name"`
	Category     registry.Category `json:"category"`
	Detected     bool              `json:"detected"`
	Column       string            `json:"column,omitempty"`
	Synonym      string            `json:"synonym,omitempty"`
	Confidence   float64           `json:"confidence"`
	Tier         Tier              `json:"tier"`
	Contributing []ColumnMatch     `json:"contributing,omitempty"`
	Notes        string            `json:"notes,omitempty"`
}

// ConfigError marks a fatal misconfiguration: the run cannot proceed and the
// caller must fix the registry or options rather than retry.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return "detect: " + e.Reason }

// Detect scores every registry variable against the dataset columns and
// returns one Result per variable, in catalog order. An empty column list is
// a valid input and yields an all-undetected result set; an empty registry
// or an out-of-range threshold is a ConfigError.
func Detect(columns []string, reg *registry.Registry, opts Options) ([]Result, error) {
	threshold := opts.Threshold
	if threshold == 0 {
		threshold = DefaultThreshold
	}
	if threshold <= 0 || threshold > 1 {
		return nil, &ConfigError{Reason: fmt.Sprintf("threshold %.3f outside (0.0, 1.0]", threshold)}
	}
	if reg == nil || reg.Len() == 0 {
		return nil, &ConfigError{Reason: "registry is empty"}
	}

	// Columns are normalized exactly once and shared across all variables.
	candidates := textnorm.Candidates(columns)

	results := make([]Result, 0, reg.Len())
	for _, v := range reg.All() {
		if v.Distributed {
			results = append(results, detectDistributed(v, candidates, threshold))
		} else {
			results = append(results, detectSingle(v, candidates, threshold))
		}
	}
	return results, nil
}

// detectSingle finds the single best (column, synonym) pair for a variable.
func detectSingle(v registry.CriticalVariable, candidates []textnorm.Candidate, threshold float64) Result {
	res := Result{Key: v.Key, Name: v.Name, Category: v.Category}
	synonyms := normalizeSynonyms(v.Synonyms)
	best := 0.0
	for _, c := range candidates {
		for si, syn := range synonyms {
			score := similarity.Ratio(c.Norm, syn)
			if score > best {
				best = score
				res.Column = c.Raw
				res.Synonym = v.Synonyms[si]
			}
		}
	}
	res.Confidence = best
	res.Detected = best >= threshold
	res.Tier = tierOf(best)
	if res.Detected {
		res.Contributing = []ColumnMatch{{Column: res.Column, Score: best, Synonym: res.Synonym}}
	}
	return res
}

// detectDistributed collects every column whose best synonym score clears the
// threshold, since evidence for variables like diet is legitimately spread
// over several dataset fields. Confidence stays the single best score, so one
// strong column still triggers detection on its own.
func detectDistributed(v registry.CriticalVariable, candidates []textnorm.Candidate, threshold float64) Result {
	res := Result{Key: v.Key, Name: v.Name, Category: v.Category}
	synonyms := normalizeSynonyms(v.Synonyms)
	best := 0.0
	for _, c := range candidates {
		colBest := 0.0
		colSyn := ""
		for si, syn := range synonyms {
			score := similarity.Ratio(c.Norm, syn)
			if score > colBest {
				colBest = score
				colSyn = v.Synonyms[si]
			}
		}
		if colBest > best {
			best = colBest
			res.Column = c.Raw
			res.Synonym = colSyn
		}
		if colBest >= threshold {
			res.Contributing = append(res.Contributing, ColumnMatch{
				Column:  c.Raw,
				Score:   colBest,
				Synonym: colSyn,
				Group:   classifyGroup(c.Norm, v.Groups),
			})
		}
	}
	sort.SliceStable(res.Contributing, func(i, j int) bool {
		return res.Contributing[i].Score > res.Contributing[j].Score
	})
	res.Confidence = best
	res.Detected = best >= threshold
	res.Tier = tierOf(best)
	if len(res.Contributing) > 0 {
		res.Notes = groupNotes(res.Contributing, v.Groups)
	}
	return res
}

// classifyGroup assigns a contributing column to the first group whose
// keyword appears in the normalized column name; columns matching no group
// fall into "general".
func classifyGroup(normCol string, groups []registry.Group) string {
	for _, g := range groups {
		for _, kw := range g.Keywords {
			if kw != "" && strings.Contains(normCol, kw) {
				return g.Name
			}
		}
	}
	return "general"
}

// groupNotes summarizes contributing columns per group, e.g.
// "fruits: 1 column(s); general: 2 column(s)".
func groupNotes(matches []ColumnMatch, groups []registry.Group) string {
	counts := map[string]int{}
	for _, m := range matches {
		counts[m.Group]++
	}
	order := make([]string, 0, len(groups)+1)
	for _, g := range groups {
		order = append(order, g.Name)
	}
	order = append(order, "general")
	var parts []string
	for _, name := range order {
		if n := counts[name]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s: %d column(s)", name, n))
		}
	}
	return strings.Join(parts, "; ")
}

func normalizeSynonyms(synonyms []string) []string {
	out := make([]string, len(synonyms))
	for i, s := range synonyms {
		out[i] = textnorm.Normalize(s)
	}
	return out
}
