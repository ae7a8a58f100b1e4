package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spicery/swift2kt/pkg/config"
	"github.com/spicery/swift2kt/pkg/registry"
)

func writeFile(t *testing.T, name string, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_EmptyFile_UsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeFile(t, "empty.yaml", ""), nil)
	require.NoError(t, err)

	assert.Equal(t, config.Default(), cfg)
}

func TestLoadConfig_ValidFile_Unmarshals(t *testing.T) {
	t.Parallel()

	content := `output:
  indent_unit: "    "
  line_limit: 80
pipeline:
  workers: 2
  stop_at_first_error: true
dump:
  format: json
bundle: run.db
`
	cfg, err := config.LoadConfig(writeFile(t, "cfg.yaml", content), nil)
	require.NoError(t, err)

	assert.Equal(t, "    ", cfg.Output.IndentUnit)
	assert.Equal(t, 80, cfg.Output.LineLimit)
	assert.Equal(t, 2, cfg.Pipeline.Workers)
	assert.True(t, cfg.Pipeline.StopAtFirstError)
	assert.Equal(t, "json", cfg.Dump.Format)
	assert.Equal(t, config.DefaultHorizontalLimit, cfg.Dump.HorizontalLimit)
	assert.Equal(t, "run.db", cfg.Bundle)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	t.Parallel()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("line-limit", config.DefaultLineLimit, "")
	require.NoError(t, flags.Parse([]string{"--line-limit=60"}))

	cfg, err := config.LoadConfig(writeFile(t, "cfg.yaml", "output:\n  line_limit: 80\n"), flags)
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Output.LineLimit)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"line limit", "output:\n  line_limit: 0\n", config.ErrInvalidLineLimit},
		{"workers", "pipeline:\n  workers: -1\n", config.ErrInvalidWorkers},
		{"horizontal limit", "dump:\n  horizontal_limit: -5\n", config.ErrInvalidHorizontalLimit},
		{"format", "dump:\n  format: xml\n", config.ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := config.LoadConfig(writeFile(t, "cfg.yaml", tt.content), nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoadSubstitutions_Default(t *testing.T) {
	t.Parallel()

	substitutions, err := config.LoadSubstitutions("")
	require.NoError(t, err)

	assert.Equal(t, "Boolean", substitutions.TypeMappings["Bool"])
	assert.Contains(t, substitutions.BuiltinProtocols, "Equatable")
	assert.Equal(t, "u", substitutions.LiteralSuffixes["uint"])

	r := registry.New()
	substitutions.Seed(r)
	translation, ok := r.FunctionTranslation("print(_:separator:terminator:)", "")
	require.True(t, ok)
	assert.Equal(t, "println", translation.Prefix)
	assert.True(t, r.IsBuiltinProtocol("Int"))
}

func TestLoadSubstitutions_Overlay(t *testing.T) {
	t.Parallel()

	overlay := `type-mappings:
  Bool: Bool
identifiers:
  greet: hello
function-translations:
  - swift: "f(_:)"
    kotlin: g
`
	substitutions, err := config.LoadSubstitutions(writeFile(t, "subs.yaml", overlay))
	require.NoError(t, err)

	assert.Equal(t, "Bool", substitutions.TypeMappings["Bool"])
	assert.Equal(t, "Long", substitutions.TypeMappings["Int64"])
	assert.Equal(t, "hello", substitutions.Identifiers["greet"])
	assert.Equal(t, "g", substitutions.FunctionTranslations[len(substitutions.FunctionTranslations)-1].Kotlin)
}

func TestLoadSubstitutions_Invalid(t *testing.T) {
	t.Parallel()

	_, err := config.LoadSubstitutionsFromString("function-translations:\n  - swift: f\n")
	assert.Error(t, err)

	_, err = config.LoadSubstitutionsFromString("type-mappings: [")
	assert.Error(t, err)

	_, err = config.LoadSubstitutions(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
