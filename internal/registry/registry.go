// Package registry holds the catalog of clinically critical variables and
// their multilingual synonyms. The built-in catalog follows ADA/WHO variable
// sets for diabetes research datasets; studies can extend or replace it
// through a YAML overrides file without touching the defaults.
package registry

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category classifies a critical variable by its clinical role.
type Category string

const (
	CategoryDiagnostic     Category = "diagnostic"
	CategoryAnthropometric Category = "anthropometric"
	CategoryClinical       Category = "clinical"
	CategoryLifestyle      Category = "lifestyle"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryDiagnostic, CategoryAnthropometric, CategoryClinical, CategoryLifestyle:
		return true
	}
	return false
}

// Group names a bucket of keywords used to classify the contributing columns
// of a distributed variable (e.g. fruit vs vegetable intake columns).
type Group struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// CriticalVariable is one catalog entry. Immutable once the registry is built.
type CriticalVariable struct {
	Key         string   `yaml:"key" json:"key"`
	Name        string   `yaml:"name,omitempty" json:"name"`
	Category    Category `yaml:"category,omitempty" json:"category"`
	Synonyms    []string `yaml:"synonyms" json:"synonyms"`
	Distributed bool     `yaml:"distributed,omitempty" json:"distributed"`
	Groups      []Group  `yaml:"groups,omitempty" json:"groups,omitempty"`
}

// Registry is a read-only variable catalog. It is safe for concurrent use by
// multiple detection runs; reloading builds a fresh Registry instead of
// mutating an existing one.
type Registry struct {
	vars  []CriticalVariable
	byKey map[string]int
}

// Overrides is the on-disk extension format. With Replace false (the default)
// its variables are merged into the built-in catalog; with Replace true they
// become the whole catalog.
type Overrides struct {
	Replace   bool               `yaml:"replace,omitempty"`
	Variables []CriticalVariable `yaml:"variables"`
}

// Default returns the built-in catalog.
func Default() *Registry {
	r, err := FromVariables(defaultVariables())
	if err != nil {
		// the built-in catalog is validated by tests; this cannot happen
		panic(fmt.Sprintf("registry: invalid built-in catalog: %v", err))
	}
	return r
}

// FromVariables builds a registry from an explicit variable list, rejecting
// duplicate keys and entries without synonyms.
func FromVariables(vars []CriticalVariable) (*Registry, error) {
	r := &Registry{byKey: make(map[string]int, len(vars))}
	for _, v := range vars {
		v.Key = normalizeKey(v.Key)
		if v.Key == "" {
			return nil, fmt.Errorf("registry: variable with empty key")
		}
		if _, dup := r.byKey[v.Key]; dup {
			return nil, fmt.Errorf("registry: duplicate variable %q", v.Key)
		}
		v.Synonyms = cleanSynonyms(v.Synonyms)
		if len(v.Synonyms) == 0 {
			return nil, fmt.Errorf("registry: variable %q has no synonyms", v.Key)
		}
		if v.Name == "" {
			v.Name = v.Key
		}
		if v.Category == "" {
			v.Category = CategoryClinical
		}
		if !v.Category.Valid() {
			return nil, fmt.Errorf("registry: variable %q has unknown category %q", v.Key, v.Category)
		}
		r.byKey[v.Key] = len(r.vars)
		r.vars = append(r.vars, v)
	}
	return r, nil
}

// Load builds the effective registry for a run: the built-in catalog plus the
// overrides file at path. An empty path or a missing file yields the
// defaults, mirroring the config-file fallback elsewhere in the tool.
func Load(path string) (*Registry, error) {
	o, err := LoadOverrides(path)
	if err != nil {
		return nil, err
	}
	return Build(o)
}

// LoadOverrides reads the overrides file. A missing or empty path returns an
// empty override set rather than an error.
func LoadOverrides(path string) (*Overrides, error) {
	if path == "" {
		return &Overrides{}, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Overrides{}, nil
		}
		return nil, fmt.Errorf("read registry overrides: %w", err)
	}
	var o Overrides
	if err := yaml.Unmarshal(b, &o); err != nil {
		return nil, fmt.Errorf("parse registry overrides: %w", err)
	}
	return &o, nil
}

// Save writes the overrides back to path as YAML.
func (o *Overrides) Save(path string) error {
	b, err := yaml.Marshal(o)
	if err != nil {
		return fmt.Errorf("marshal registry overrides: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write registry overrides: %w", err)
	}
	return nil
}

// Build applies overrides to the built-in catalog. Merge semantics: an
// override for an existing key appends new synonyms (and may upgrade name,
// category, distributed flag, groups); an override with a new key adds a
// variable. Replace swaps the defaults out entirely.
func Build(o *Overrides) (*Registry, error) {
	if o == nil {
		return Default(), nil
	}
	if o.Replace {
		return FromVariables(o.Variables)
	}
	merged := defaultVariables()
	index := make(map[string]int, len(merged))
	for i, v := range merged {
		index[v.Key] = i
	}
	for _, ov := range o.Variables {
		key := normalizeKey(ov.Key)
		if key == "" {
			return nil, fmt.Errorf("registry: override with empty key")
		}
		i, exists := index[key]
		if !exists {
			ov.Key = key
			index[key] = len(merged)
			merged = append(merged, ov)
			continue
		}
		base := &merged[i]
		for _, s := range cleanSynonyms(ov.Synonyms) {
			if !containsString(base.Synonyms, s) {
				base.Synonyms = append(base.Synonyms, s)
			}
		}
		if ov.Name != "" {
			base.Name = ov.Name
		}
		if ov.Category != "" {
			base.Category = ov.Category
		}
		if ov.Distributed {
			base.Distributed = true
		}
		if len(ov.Groups) > 0 {
			base.Groups = append(base.Groups, ov.Groups...)
		}
	}
	return FromVariables(merged)
}

// All returns every variable in stable catalog order.
func (r *Registry) All() []CriticalVariable {
	out := make([]CriticalVariable, len(r.vars))
	copy(out, r.vars)
	return out
}

// Get returns the variable with the given key.
func (r *Registry) Get(key string) (CriticalVariable, bool) {
	i, ok := r.byKey[normalizeKey(key)]
	if !ok {
		return CriticalVariable{}, false
	}
	return r.vars[i], true
}

// SynonymsOf returns the synonym set for key, or nil for unknown keys.
func (r *Registry) SynonymsOf(key string) []string {
	v, ok := r.Get(key)
	if !ok {
		return nil
	}
	out := make([]string, len(v.Synonyms))
	copy(out, v.Synonyms)
	return out
}

// Keys returns all variable keys, sorted.
func (r *Registry) Keys() []string {
	keys := make([]string, 0, len(r.vars))
	for _, v := range r.vars {
		keys = append(keys, v.Key)
	}
	sort.Strings(keys)
	return keys
}

// Len reports the number of variables in the catalog.
func (r *Registry) Len() int { return len(r.vars) }

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func cleanSynonyms(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" && !containsString(out, s) {
			out = append(out, s)
		}
	}
	return out
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
