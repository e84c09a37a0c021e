package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/varlens/varlens-cli/internal/registry"
)

var (
	varsAddName        string
	varsAddCategory    string
	varsAddSynonyms    []string
	varsAddDistributed bool
)

var varsCmd = &cobra.Command{
	Use:   "vars",
	Short: "Inspect and edit the critical-variable registry",
}

var varsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all variables in the effective registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		for _, v := range reg.All() {
			marker := ""
			if v.Distributed {
				marker = " [distributed]"
			}
			fmt.Printf("- %s: %s (%s, %d synonyms)%s\n", v.Key, v.Name, v.Category, len(v.Synonyms), marker)
		}
		return nil
	},
}

var varsShowCmd = &cobra.Command{
	Use:   "show <key>",
	Short: "Show one variable with all its synonyms",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		v, ok := reg.Get(args[0])
		if !ok {
			return fmt.Errorf("unknown variable: %s (see 'varlens vars list')", args[0])
		}
		fmt.Printf("Key: %s\n", v.Key)
		fmt.Printf("Name: %s\n", v.Name)
		fmt.Printf("Category: %s\n", v.Category)
		fmt.Printf("Distributed: %v\n", v.Distributed)
		fmt.Println("Synonyms:")
		for _, s := range v.Synonyms {
			fmt.Printf("  - %s\n", s)
		}
		for _, g := range v.Groups {
			fmt.Printf("Group %s: %s\n", g.Name, strings.Join(g.Keywords, ", "))
		}
		return nil
	},
}

var varsAddCmd = &cobra.Command{
	Use:   "add <key> [synonym...]",
	Short: "Add a variable or extra synonyms to the overrides file",
	Long: `Add appends an entry to the registry overrides file. For an existing key
the synonyms are merged into the built-in variable; for a new key a new
variable is created.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		synonyms := append(append([]string{}, args[1:]...), varsAddSynonyms...)
		if len(synonyms) == 0 {
			return fmt.Errorf("at least one synonym is required (positional or --synonym)")
		}
		path, err := overridesPath()
		if err != nil {
			return err
		}
		o, err := registry.LoadOverrides(path)
		if err != nil {
			return err
		}
		o.Variables = append(o.Variables, registry.CriticalVariable{
			Key:         args[0],
			Name:        varsAddName,
			Category:    registry.Category(varsAddCategory),
			Synonyms:    synonyms,
			Distributed: varsAddDistributed,
		})
		// Reject bad entries before persisting them.
		if _, err := registry.Build(o); err != nil {
			return err
		}
		if err := o.Save(path); err != nil {
			return err
		}
		fmt.Printf("✓ Saved %s to %s\n", args[0], path)
		return nil
	},
}

var varsRemoveCmd = &cobra.Command{
	Use:   "remove <key> [synonym]",
	Short: "Remove an override entry or one of its synonyms",
	Long: `Remove deletes an override entry, or just one synonym of it when a synonym
argument is given. Built-in variables cannot be removed; overrides only add
to them.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := overridesPath()
		if err != nil {
			return err
		}
		o, err := registry.LoadOverrides(path)
		if err != nil {
			return err
		}
		key := strings.ToLower(strings.TrimSpace(args[0]))

		if len(args) == 2 {
			return removeSynonym(o, path, key, args[1])
		}

		kept := o.Variables[:0]
		removed := false
		for _, v := range o.Variables {
			if strings.ToLower(strings.TrimSpace(v.Key)) == key {
				removed = true
				continue
			}
			kept = append(kept, v)
		}
		if !removed {
			if _, ok := registry.Default().Get(key); ok {
				return fmt.Errorf("%s is a built-in variable and cannot be removed; use 'vars add' overrides to adjust it", key)
			}
			return fmt.Errorf("no override entry for %s", key)
		}
		o.Variables = kept
		if err := o.Save(path); err != nil {
			return err
		}
		fmt.Printf("✓ Removed override %s\n", key)
		return nil
	},
}

func removeSynonym(o *registry.Overrides, path, key, synonym string) error {
	for i, v := range o.Variables {
		if strings.ToLower(strings.TrimSpace(v.Key)) != key {
			continue
		}
		kept := v.Synonyms[:0]
		found := false
		for _, s := range v.Synonyms {
			if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(synonym)) {
				found = true
				continue
			}
			kept = append(kept, s)
		}
		if !found {
			return fmt.Errorf("override %s has no synonym %q", key, synonym)
		}
		o.Variables[i].Synonyms = kept
		if _, err := registry.Build(o); err != nil {
			return err
		}
		if err := o.Save(path); err != nil {
			return err
		}
		fmt.Printf("✓ Removed synonym %q from %s\n", synonym, key)
		return nil
	}
	return fmt.Errorf("no override entry for %s", key)
}

var varsCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List variable categories with counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		counts := map[string]int{}
		for _, v := range reg.All() {
			counts[string(v.Category)]++
		}
		names := make([]string, 0, len(counts))
		for n := range counts {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Printf("- %s: %d\n", n, counts[n])
		}
		return nil
	},
}

func loadRegistry() (*registry.Registry, error) {
	path, err := overridesPath()
	if err != nil {
		return nil, err
	}
	return registry.Load(path)
}

// overridesPath resolves the registry overrides file from the --registry-file
// configuration, falling back to ~/.varlens/registry.yaml via config defaults.
func overridesPath() (string, error) {
	c, err := ensureConfig()
	if err != nil {
		return "", err
	}
	return c.RegistryPath()
}

func init() {
	rootCmd.AddCommand(varsCmd)
	varsCmd.AddCommand(varsListCmd)
	varsCmd.AddCommand(varsShowCmd)
	varsCmd.AddCommand(varsAddCmd)
	varsCmd.AddCommand(varsRemoveCmd)
	varsCmd.AddCommand(varsCategoriesCmd)
	varsAddCmd.Flags().StringVar(&varsAddName, "name", "", "display name (defaults to key)")
	varsAddCmd.Flags().StringVar(&varsAddCategory, "category", "", "category: diagnostic|anthropometric|clinical|lifestyle")
	varsAddCmd.Flags().StringArrayVarP(&varsAddSynonyms, "synonym", "s", nil, "synonym to match (repeatable)")
	varsAddCmd.Flags().BoolVar(&varsAddDistributed, "distributed", false, "evidence may be spread across several columns")
}
