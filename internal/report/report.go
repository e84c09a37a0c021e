// Package report assembles scan results into a persisted, renderable report.
package report

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/varlens/varlens-cli/internal/detect"
	"github.com/varlens/varlens-cli/internal/ingest"
	"github.com/varlens/varlens-cli/internal/registry"
	"github.com/varlens/varlens-cli/internal/summary"
	"github.com/varlens/varlens-cli/internal/utils"
)

// Report is the full outcome of one scan run.
type Report struct {
	ID          string          `json:"id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Dataset     ingest.Dataset  `json:"dataset"`
	Threshold   float64         `json:"threshold"`
	Results     []detect.Result `json:"results"`
	Summary     summary.Summary `json:"summary"`
	Suggestions []string        `json:"suggestions,omitempty"`
}

// New builds a report for a finished detection run, including actionable
// suggestions derived from the results.
func New(ds *ingest.Dataset, results []detect.Result, sum summary.Summary, threshold float64) *Report {
	r := &Report{
		ID:          uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Dataset:     *ds,
		Threshold:   threshold,
		Results:     results,
		Summary:     sum,
	}
	r.Suggestions = suggestions(ds, results)
	return r
}

// suggestions flags missing variables, weak matches worth a manual look, and
// datasets where most columns matched nothing.
func suggestions(ds *ingest.Dataset, results []detect.Result) []string {
	var out []string
	matched := map[string]bool{}
	for _, res := range results {
		if !res.Detected {
			out = append(out, fmt.Sprintf("Variable %q was not found; consider renaming a column to one of its synonyms.", res.Name))
			continue
		}
		for _, c := range res.Contributing {
			matched[c.Column] = true
		}
		if res.Confidence < 0.9 {
			out = append(out, fmt.Sprintf("Match for %q (column %q, confidence %.2f) is approximate; verify it manually.", res.Name, res.Column, res.Confidence))
		}
	}
	if n := len(ds.Columns); n > 0 {
		unused := n - len(matched)
		if float64(unused) > float64(n)*0.5 {
			out = append(out, fmt.Sprintf("%d of %d columns matched no variable; the dataset may contain data outside the registry's scope.", unused, n))
		}
	}
	return out
}

// Markdown renders the report in a compact bracketed-section format.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[SCAN SUMMARY]\n")
	b.WriteString(fmt.Sprintf("File: %s\n", r.Dataset.Name))
	if r.Dataset.Sheet != "" {
		b.WriteString(fmt.Sprintf("Sheet: %s\n", r.Dataset.Sheet))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Dataset.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(r.Dataset.Columns)))
	b.WriteString(fmt.Sprintf("Threshold: %.2f\n", r.Threshold))
	b.WriteString(fmt.Sprintf("Coverage: %d/%d (%.0f%%)\n", r.Summary.Detected, r.Summary.Total, r.Summary.Coverage*100))
	b.WriteString(fmt.Sprintf("Mean confidence: %.2f\n", r.Summary.MeanConfidence))
	b.WriteString(fmt.Sprintf("Quality: %s\n\n", r.Summary.Quality))

	b.WriteString("[VARIABLES]\n")
	for _, res := range r.Results {
		if !res.Detected {
			b.WriteString(fmt.Sprintf("- %s: not detected (best %.2f)\n", res.Name, res.Confidence))
			continue
		}
		b.WriteString(fmt.Sprintf("- %s: %s (synonym %q, confidence %.2f, tier %s)\n",
			res.Name, res.Column, res.Synonym, res.Confidence, res.Tier))
		if len(res.Contributing) > 1 {
			for _, c := range res.Contributing {
				group := c.Group
				if group == "" {
					group = "general"
				}
				b.WriteString(fmt.Sprintf("    - %s (%.2f, %s)\n", c.Column, c.Score, group))
			}
		}
		if res.Notes != "" {
			b.WriteString(fmt.Sprintf("    notes: %s\n", res.Notes))
		}
	}
	b.WriteString("\n")

	if len(r.Summary.ByCategory) > 0 {
		b.WriteString("[CATEGORY BREAKDOWN]\n")
		cats := make([]string, 0, len(r.Summary.ByCategory))
		for c := range r.Summary.ByCategory {
			cats = append(cats, string(c))
		}
		sort.Strings(cats)
		for _, c := range cats {
			cs := r.Summary.ByCategory[registry.Category(c)]
			b.WriteString(fmt.Sprintf("- %s: %d/%d detected (%.0f%%, mean confidence %.2f)\n",
				c, cs.Detected, cs.Total, cs.Coverage*100, cs.MeanConfidence))
		}
		b.WriteString("\n")
	}

	if len(r.Suggestions) > 0 {
		b.WriteString("[SUGGESTIONS]\n")
		for _, s := range r.Suggestions {
			b.WriteString(fmt.Sprintf("- %s\n", s))
		}
	}
	return b.String()
}

// JSON renders the report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	return utils.PrettyJSON(r)
}

// SaveJSON writes the report as indented JSON, creating the directory first.
func (r *Report) SaveJSON(path string) error {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}
	data, err := utils.PrettyJSON(r)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(path, data)
}
