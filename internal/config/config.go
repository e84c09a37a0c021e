package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/varlens/varlens-cli/internal/summary"
)

// Global configuration structure.
type Global struct {
	Threshold        float64 `mapstructure:"threshold" yaml:"threshold"`
	QualityExcellent float64 `mapstructure:"quality_excellent" yaml:"quality_excellent"`
	QualityGood      float64 `mapstructure:"quality_good" yaml:"quality_good"`
	QualityFair      float64 `mapstructure:"quality_fair" yaml:"quality_fair"`
	RegistryFile     string  `mapstructure:"registry_file" yaml:"registry_file"`
	ReportsDir       string  `mapstructure:"reports_dir" yaml:"reports_dir"`
}

// Cutoffs converts the configured quality boundaries to summary cutoffs.
func (c *Global) Cutoffs() summary.Cutoffs {
	return summary.Cutoffs{Excellent: c.QualityExcellent, Good: c.QualityGood, Fair: c.QualityFair}
}

// RegistryPath resolves the registry overrides file, defaulting to
// ~/.varlens/registry.yaml when unset.
func (c *Global) RegistryPath() (string, error) {
	if c.RegistryFile != "" {
		return c.RegistryFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	dir := filepath.Join(home, ".varlens")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir config dir: %w", err)
	}
	return filepath.Join(dir, "registry.yaml"), nil
}

// Validate reports the first out-of-range setting.
func (c *Global) Validate() error {
	if c.Threshold <= 0 || c.Threshold > 1 {
		return fmt.Errorf("config: threshold %.3f outside (0.0, 1.0]", c.Threshold)
	}
	for name, v := range map[string]float64{
		"quality_excellent": c.QualityExcellent,
		"quality_good":      c.QualityGood,
		"quality_fair":      c.QualityFair,
	} {
		if v <= 0 || v > 1 {
			return fmt.Errorf("config: %s %.3f outside (0.0, 1.0]", name, v)
		}
	}
	if c.QualityExcellent < c.QualityGood || c.QualityGood < c.QualityFair {
		return fmt.Errorf("config: quality cutoffs must satisfy excellent >= good >= fair")
	}
	return nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.varlens/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".varlens")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("VARLENS")
	v.AutomaticEnv()

	v.SetDefault("threshold", 0.6)
	v.SetDefault("quality_excellent", 0.9)
	v.SetDefault("quality_good", 0.7)
	v.SetDefault("quality_fair", 0.5)
	v.SetDefault("registry_file", "")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".varlens")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve reports_dir default: ~/.varlens/reports
	if c.ReportsDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		c.ReportsDir = filepath.Join(home, ".varlens", "reports")
	}
	return &c, nil
}
