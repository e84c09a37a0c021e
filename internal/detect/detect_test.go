package detect

import (
	"errors"
	"math"
	"testing"

	"github.com/varlens/varlens-cli/internal/registry"
)

func mustRegistry(t *testing.T, vars []registry.CriticalVariable) *registry.Registry {
	t.Helper()
	r, err := registry.FromVariables(vars)
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return r
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}

func TestDetectSingleBestMatch(t *testing.T) {
	reg := mustRegistry(t, []registry.CriticalVariable{
		{Key: "glucose", Name: "Glucose", Category: registry.CategoryDiagnostic, Synonyms: []string{"blood glucose"}},
	})
	results, err := Detect([]string{"blood_glucose_level"}, reg, Options{Threshold: 0.6})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}
	r := results[0]
	if !almostEqual(r.Confidence, 26.0/32.0) {
		t.Fatalf("confidence = %f, want %f", r.Confidence, 26.0/32.0)
	}
	if !r.Detected {
		t.Fatalf("expected detected")
	}
	if r.Tier != TierMedium {
		t.Fatalf("tier = %q, want medium", r.Tier)
	}
	if r.Column != "blood_glucose_level" || r.Synonym != "blood glucose" {
		t.Fatalf("best match = %q / %q", r.Column, r.Synonym)
	}
	if len(r.Contributing) != 1 || r.Contributing[0].Column != "blood_glucose_level" {
		t.Fatalf("contributing = %#v", r.Contributing)
	}
}

func TestDetectEmptyColumns(t *testing.T) {
	reg := mustRegistry(t, []registry.CriticalVariable{
		{Key: "glucose", Synonyms: []string{"glucose"}},
		{Key: "dieta", Distributed: true, Synonyms: []string{"diet"}},
	})
	results, err := Detect(nil, reg, Options{})
	if err != nil {
		t.Fatalf("empty columns must not be an error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	for _, r := range results {
		if r.Detected || r.Confidence != 0 || r.Column != "" || len(r.Contributing) != 0 {
			t.Fatalf("empty dataset result = %#v", r)
		}
		if r.Tier != TierLow {
			t.Fatalf("tier = %q, want low", r.Tier)
		}
	}
}

func TestDetectConfigErrors(t *testing.T) {
	reg := mustRegistry(t, []registry.CriticalVariable{{Key: "glucose", Synonyms: []string{"glucose"}}})

	var cfgErr *ConfigError
	if _, err := Detect([]string{"glucose"}, nil, Options{}); !errors.As(err, &cfgErr) {
		t.Fatalf("nil registry error = %v", err)
	}
	empty := mustRegistry(t, nil)
	if _, err := Detect([]string{"glucose"}, empty, Options{}); !errors.As(err, &cfgErr) {
		t.Fatalf("empty registry error = %v", err)
	}
	if _, err := Detect([]string{"glucose"}, reg, Options{Threshold: 1.5}); !errors.As(err, &cfgErr) {
		t.Fatalf("threshold 1.5 error = %v", err)
	}
	if _, err := Detect([]string{"glucose"}, reg, Options{Threshold: -0.1}); !errors.As(err, &cfgErr) {
		t.Fatalf("threshold -0.1 error = %v", err)
	}
	// threshold 1.0 is inside the domain
	if _, err := Detect([]string{"glucose"}, reg, Options{Threshold: 1.0}); err != nil {
		t.Fatalf("threshold 1.0 should be valid: %v", err)
	}
}

func TestDetectDistributedContributingColumns(t *testing.T) {
	reg := mustRegistry(t, []registry.CriticalVariable{{
		Key:         "dieta",
		Name:        "Diet",
		Category:    registry.CategoryLifestyle,
		Distributed: true,
		Synonyms:    []string{"fruit intake", "vegetable intake"},
		Groups: []registry.Group{
			{Name: "fruits", Keywords: []string{"frut", "fruit"}},
			{Name: "vegetables", Keywords: []string{"vegetal", "verdura", "vegetable"}},
		},
	}})
	results, err := Detect([]string{"fruit_intake_daily", "vegetables", "patient_id"}, reg, Options{Threshold: 0.6})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	r := results[0]
	if !r.Detected {
		t.Fatalf("expected detected")
	}
	if !almostEqual(r.Confidence, 0.8) {
		t.Fatalf("confidence = %f, want 0.8", r.Confidence)
	}
	if r.Column != "fruit_intake_daily" {
		t.Fatalf("best column = %q", r.Column)
	}
	if len(r.Contributing) != 2 {
		t.Fatalf("contributing = %#v, want fruit_intake_daily and vegetables only", r.Contributing)
	}
	first, second := r.Contributing[0], r.Contributing[1]
	if first.Column != "fruit_intake_daily" || first.Group != "fruits" || !almostEqual(first.Score, 0.8) {
		t.Fatalf("first contributor = %#v", first)
	}
	if second.Column != "vegetables" || second.Group != "vegetables" || !almostEqual(second.Score, 18.0/26.0) {
		t.Fatalf("second contributor = %#v", second)
	}
	if r.Notes != "fruits: 1 column(s); vegetables: 1 column(s)" {
		t.Fatalf("notes = %q", r.Notes)
	}
}

func TestDetectDistributedSingleStrongColumn(t *testing.T) {
	// A single strong column still triggers a distributed variable.
	reg := mustRegistry(t, []registry.CriticalVariable{{
		Key: "dieta", Distributed: true, Synonyms: []string{"diet"},
	}})
	results, err := Detect([]string{"diet", "shoe_size"}, reg, Options{Threshold: 0.6})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	r := results[0]
	if !r.Detected || !almostEqual(r.Confidence, 1.0) {
		t.Fatalf("result = %#v", r)
	}
	if len(r.Contributing) != 1 || r.Contributing[0].Group != "general" {
		t.Fatalf("contributing = %#v", r.Contributing)
	}
}

func TestDetectTierBoundaries(t *testing.T) {
	// Each case runs alone so the column can only match its own synonym.
	cases := []struct {
		name     string
		synonym  string
		column   string
		wantConf float64
		wantTier Tier
	}{
		{"exactly at threshold is detected, tier low", "abcdefg", "abc", 0.6, TierLow},
		{"medium boundary is inclusive", "abcdefghijklm", "abcdefg", 0.7, TierMedium},
		{"high boundary is inclusive", "abcdefghijk", "abcdefghi", 0.9, TierHigh},
	}
	for _, tc := range cases {
		reg := mustRegistry(t, []registry.CriticalVariable{{Key: "v", Synonyms: []string{tc.synonym}}})
		results, err := Detect([]string{tc.column}, reg, Options{Threshold: 0.6})
		if err != nil {
			t.Fatalf("%s: Detect: %v", tc.name, err)
		}
		r := results[0]
		if !almostEqual(r.Confidence, tc.wantConf) {
			t.Fatalf("%s: confidence = %f, want %f", tc.name, r.Confidence, tc.wantConf)
		}
		if !r.Detected {
			t.Fatalf("%s: expected detected", tc.name)
		}
		if r.Tier != tc.wantTier {
			t.Fatalf("%s: tier = %q, want %q", tc.name, r.Tier, tc.wantTier)
		}
	}
}

func TestDetectThresholdMonotonicity(t *testing.T) {
	reg := mustRegistry(t, []registry.CriticalVariable{
		{Key: "glucose", Synonyms: []string{"blood glucose"}},
		{Key: "bmi", Synonyms: []string{"bmi"}},
		{Key: "edad", Synonyms: []string{"age"}},
		{Key: "dieta", Distributed: true, Synonyms: []string{"fruit intake", "vegetable intake"}},
	})
	columns := []string{"blood_glucose_level", "BMI", "patient_age", "fruit_intake_daily"}

	loose, err := Detect(columns, reg, Options{Threshold: 0.6})
	if err != nil {
		t.Fatalf("Detect loose: %v", err)
	}
	strict, err := Detect(columns, reg, Options{Threshold: 0.9})
	if err != nil {
		t.Fatalf("Detect strict: %v", err)
	}
	for i := range loose {
		if !almostEqual(loose[i].Confidence, strict[i].Confidence) {
			t.Fatalf("confidence changed with threshold: %f vs %f", loose[i].Confidence, strict[i].Confidence)
		}
		if strict[i].Detected && !loose[i].Detected {
			t.Fatalf("raising the threshold re-detected %q", strict[i].Key)
		}
	}
}

func TestDetectUnmatchableColumns(t *testing.T) {
	reg := mustRegistry(t, []registry.CriticalVariable{{Key: "glucose", Synonyms: []string{"glucose"}}})
	// Column normalizes to the empty string; it can never match, but the run succeeds.
	results, err := Detect([]string{"###", "!!!"}, reg, Options{})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if results[0].Detected || results[0].Confidence != 0 {
		t.Fatalf("result = %#v", results[0])
	}
}

func TestDetectDuplicateColumnsAreIndependent(t *testing.T) {
	reg := mustRegistry(t, []registry.CriticalVariable{{
		Key: "dieta", Distributed: true, Synonyms: []string{"fruit intake"},
	}})
	results, err := Detect([]string{"fruit intake", "fruit intake"}, reg, Options{})
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(results[0].Contributing) != 2 {
		t.Fatalf("duplicate columns should contribute independently: %#v", results[0].Contributing)
	}
}
