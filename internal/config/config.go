package config

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"
)

type Config struct {
	Input            string `koanf:"input"`
	Output           string `koanf:"output"`
	Format           string `koanf:"format"`
	ConflictStrategy string `koanf:"conflict-strategy"`
	NoProvenance     bool   `koanf:"no-provenance"`
	Verbose          bool   `koanf:"verbose"`
}

// BindFlags binds the resolve command's flags
func BindFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.StringP("config", "c", "", "Config file path (default: deref.yaml)")
	flags.StringP("output", "o", "", "Output file path (default: stdout)")
	flags.StringP("format", "f", "", "Output format: yaml, json")
	flags.String("conflict-strategy", "", "Component name conflict strategy: error, rename, ignore")
	flags.Bool("no-provenance", false, "Suppress x-resolved-from/x-resolved-at markers")
	flags.BoolP("verbose", "v", false, "Verbose resolution logging")
}

// Load merges the optional config file with command line flags; flags win.
// The positional argument, when given, overrides the configured input.
func Load(cmd *cobra.Command, args []string) (*Config, error) {
	k := koanf.New(".")

	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		if _, err := os.Stat("deref.yaml"); err == nil {
			configFile = "deref.yaml"
		}
	}

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	flagsMap := buildFlagsMap(cmd)
	if len(flagsMap) > 0 {
		if err := k.Load(confmap.Provider(flagsMap, "."), nil); err != nil {
			return nil, fmt.Errorf("loading flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if len(args) > 0 {
		cfg.Input = args[0]
	}
	if cfg.Format == "" {
		cfg.Format = "yaml"
	}
	if cfg.ConflictStrategy == "" {
		cfg.ConflictStrategy = "rename"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func buildFlagsMap(cmd *cobra.Command) map[string]any {
	m := make(map[string]any)

	getString := func(name string) string {
		if v, err := cmd.Flags().GetString(name); err == nil && v != "" {
			return v
		}
		return ""
	}

	getBool := func(name string) bool {
		v, err := cmd.Flags().GetBool(name)
		return err == nil && v
	}

	if v := getString("output"); v != "" {
		m["output"] = v
	}
	if v := getString("format"); v != "" {
		m["format"] = v
	}
	if v := getString("conflict-strategy"); v != "" {
		m["conflict-strategy"] = v
	}
	if cmd.Flags().Changed("no-provenance") {
		m["no-provenance"] = getBool("no-provenance")
	}
	if cmd.Flags().Changed("verbose") {
		m["verbose"] = getBool("verbose")
	}

	return m
}

func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input document is required")
	}

	validFormats := map[string]bool{"yaml": true, "json": true}
	if !validFormats[c.Format] {
		return fmt.Errorf("invalid format: %s (valid: yaml, json)", c.Format)
	}

	validStrategies := map[string]bool{"error": true, "rename": true, "ignore": true}
	if !validStrategies[c.ConflictStrategy] {
		return fmt.Errorf("invalid conflict strategy: %s (valid: error, rename, ignore)", c.ConflictStrategy)
	}

	return nil
}
