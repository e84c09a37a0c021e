package textnorm

import "testing"

func TestNormalizeEquivalence(t *testing.T) {
	cases := []struct {
		a, b string
	}{
		{"Glucosa_Plasmática", "glucosa plasmatica"},
		{"BMI_calculado", "bmi calculado"},
		{"  Hemoglobina   Glicosilada ", "hemoglobina_glicosilada"},
		{"Años", "anos"},
		{"blood-glucose (mg/dL)", "Blood Glucose  mg dL"},
	}
	for _, c := range cases {
		if Normalize(c.a) != Normalize(c.b) {
			t.Fatalf("Normalize(%q) = %q, Normalize(%q) = %q; want equal", c.a, Normalize(c.a), c.b, Normalize(c.b))
		}
	}
}

func TestNormalizeValues(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Glucosa_Plasmática", "glucosa plasmatica"},
		{"glucose_mg_dl", "glucose mg dl"},
		{"", ""},
		{"___", ""},
		{"  \t\n ", ""},
		{"A1c", "a1c"},
		{"消費", ""}, // non-latin letters fall outside [a-z0-9] and vanish
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Fatalf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"Glucosa_Plasmática", "blood glucose level", "", "HbA1c (%)", "édad__paciente"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Fatalf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestCandidates(t *testing.T) {
	cands := Candidates([]string{"Blood_Glucose", "", "edad"})
	if len(cands) != 3 {
		t.Fatalf("candidates len = %d, want 3", len(cands))
	}
	if cands[0].Raw != "Blood_Glucose" || cands[0].Norm != "blood glucose" {
		t.Fatalf("candidate 0 = %#v", cands[0])
	}
	if cands[1].Norm != "" {
		t.Fatalf("empty column should normalize to empty, got %q", cands[1].Norm)
	}
}
