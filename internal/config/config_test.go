package config

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		config      Config
		wantErr     bool
		errContains string
	}{
		{
			name:   "valid config",
			config: Config{Input: "api.yaml", Format: "yaml", ConflictStrategy: "rename"},
		},
		{
			name:   "valid json format",
			config: Config{Input: "api.yaml", Format: "json", ConflictStrategy: "error"},
		},
		{
			name:        "missing input",
			config:      Config{Format: "yaml", ConflictStrategy: "rename"},
			wantErr:     true,
			errContains: "input document is required",
		},
		{
			name:        "invalid format",
			config:      Config{Input: "api.yaml", Format: "xml", ConflictStrategy: "rename"},
			wantErr:     true,
			errContains: "invalid format",
		},
		{
			name:        "invalid strategy",
			config:      Config{Input: "api.yaml", Format: "yaml", ConflictStrategy: "merge"},
			wantErr:     true,
			errContains: "invalid conflict strategy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.ErrorContains(t, err, tt.errContains)
				return
			}
			require.NoError(t, err)
		})
	}
}

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "resolve"}
	BindFlags(cmd)
	return cmd
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newTestCmd(), []string{"api.yaml"})
	require.NoError(t, err)
	require.Equal(t, "api.yaml", cfg.Input)
	require.Equal(t, "yaml", cfg.Format)
	require.Equal(t, "rename", cfg.ConflictStrategy)
	require.False(t, cfg.NoProvenance)
	require.False(t, cfg.Verbose)
}

func TestLoadFlagsOverride(t *testing.T) {
	cmd := newTestCmd()
	require.NoError(t, cmd.Flags().Set("format", "json"))
	require.NoError(t, cmd.Flags().Set("conflict-strategy", "ignore"))
	require.NoError(t, cmd.Flags().Set("no-provenance", "true"))
	require.NoError(t, cmd.Flags().Set("output", "out.json"))

	cfg, err := Load(cmd, []string{"api.yaml"})
	require.NoError(t, err)
	require.Equal(t, "json", cfg.Format)
	require.Equal(t, "ignore", cfg.ConflictStrategy)
	require.Equal(t, "out.json", cfg.Output)
	require.True(t, cfg.NoProvenance)
}

func TestLoadMissingInput(t *testing.T) {
	_, err := Load(newTestCmd(), nil)
	require.ErrorContains(t, err, "input document is required")
}
