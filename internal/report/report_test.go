package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/varlens/varlens-cli/internal/detect"
	"github.com/varlens/varlens-cli/internal/ingest"
	"github.com/varlens/varlens-cli/internal/registry"
	"github.com/varlens/varlens-cli/internal/summary"
)

func sampleReport() *Report {
	ds := &ingest.Dataset{
		Name:    "cohort.csv",
		Columns: []string{"patient_id", "blood_glucose_level", "BMI", "notes"},
		Rows:    120,
	}
	results := []detect.Result{
		{
			Key: "glucose", Name: "Plasma glucose", Category: registry.CategoryDiagnostic,
			Detected: true, Column: "blood_glucose_level", Synonym: "blood glucose",
			Confidence: 0.81, Tier: detect.TierMedium,
			Contributing: []detect.ColumnMatch{{Column: "blood_glucose_level", Score: 0.81, Synonym: "blood glucose"}},
		},
		{
			Key: "bmi", Name: "Body mass index", Category: registry.CategoryAnthropometric,
			Detected: true, Column: "BMI", Synonym: "bmi",
			Confidence: 1.0, Tier: detect.TierHigh,
			Contributing: []detect.ColumnMatch{{Column: "BMI", Score: 1.0, Synonym: "bmi"}},
		},
		{
			Key: "dieta", Name: "Diet", Category: registry.CategoryLifestyle,
			Detected: false, Confidence: 0.31, Tier: detect.TierLow,
		},
	}
	sum := summary.Summarize(results, summary.Cutoffs{})
	return New(ds, results, sum, 0.6)
}

func TestNewReport(t *testing.T) {
	r := sampleReport()
	if r.ID == "" {
		t.Fatalf("report ID is empty")
	}
	if r.GeneratedAt.IsZero() {
		t.Fatalf("GeneratedAt not set")
	}
	if r.Threshold != 0.6 || len(r.Results) != 3 {
		t.Fatalf("report = %#v", r)
	}
}

func TestSuggestions(t *testing.T) {
	r := sampleReport()
	joined := strings.Join(r.Suggestions, "\n")
	if !strings.Contains(joined, `Variable "Diet" was not found`) {
		t.Fatalf("missing-variable suggestion absent: %q", joined)
	}
	if !strings.Contains(joined, `Match for "Plasma glucose"`) {
		t.Fatalf("low-confidence suggestion absent: %q", joined)
	}
	// 2 of 4 columns matched; that is not over half unused.
	if strings.Contains(joined, "matched no variable") {
		t.Fatalf("unexpected unused-columns suggestion: %q", joined)
	}
}

func TestSuggestionsUnusedColumns(t *testing.T) {
	ds := &ingest.Dataset{Name: "wide.csv", Columns: []string{"a", "b", "c", "d", "glucose"}}
	results := []detect.Result{{
		Key: "glucose", Name: "Glucose", Detected: true, Column: "glucose", Synonym: "glucose",
		Confidence: 1.0, Tier: detect.TierHigh,
		Contributing: []detect.ColumnMatch{{Column: "glucose", Score: 1.0, Synonym: "glucose"}},
	}}
	r := New(ds, results, summary.Summarize(results, summary.Cutoffs{}), 0.6)
	joined := strings.Join(r.Suggestions, "\n")
	if !strings.Contains(joined, "4 of 5 columns matched no variable") {
		t.Fatalf("suggestions = %q", joined)
	}
}

func TestMarkdown(t *testing.T) {
	md := sampleReport().Markdown()
	for _, want := range []string{
		"[SCAN SUMMARY]",
		"File: cohort.csv",
		"Rows: 120",
		"Threshold: 0.60",
		"Coverage: 2/3",
		"[VARIABLES]",
		"- Plasma glucose: blood_glucose_level (synonym \"blood glucose\", confidence 0.81, tier medium)",
		"- Diet: not detected (best 0.31)",
		"[CATEGORY BREAKDOWN]",
		"- diagnostic: 1/1 detected (100%, mean confidence 0.81)",
		"- lifestyle: 0/1 detected (0%, mean confidence 0.00)",
		"[SUGGESTIONS]",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestSaveJSONRoundTrip(t *testing.T) {
	r := sampleReport()
	path := filepath.Join(t.TempDir(), "reports", "scan.json")
	if err := r.SaveJSON(path); err != nil {
		t.Fatalf("SaveJSON: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var got Report
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.ID != r.ID || got.Dataset.Name != "cohort.csv" || len(got.Results) != 3 {
		t.Fatalf("round trip = %#v", got)
	}
}
