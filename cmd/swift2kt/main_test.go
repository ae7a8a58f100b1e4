package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtures = "../../pkg/pipeline/testdata"

func TestMain(m *testing.M) {
	color.NoColor = true //nolint:reassign // plain output for comparisons
	os.Exit(m.Run())
}

// execute runs the CLI with args and returns its stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	rootCmd := newRootCmd()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// copyFixture copies a testdata case into a fresh directory and returns the
// path of its dump.
func copyFixture(t *testing.T, name string) string {
	t.Helper()

	dir := t.TempDir()
	for _, extension := range []string{".swiftASTDump", ".swift", ".kt"} {
		contents, err := os.ReadFile(filepath.Join(fixtures, name+extension))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+extension), contents, 0o644))
	}
	return filepath.Join(dir, name+".swiftASTDump")
}

func TestHelpAndSubcommands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args    []string
		wantOut string
		wantErr bool
	}{
		{args: []string{"--help"}, wantOut: "swift2kt reads the output"},
		{args: []string{"translate", "--help"}, wantOut: "--output-dir"},
		{args: []string{"dump", "--help"}, wantOut: "--stage"},
		{args: []string{"verify", "--help"}, wantOut: "expected.kt"},
		{args: []string{"version"}, wantOut: "swift2kt dev"},
		{args: []string{"translate"}, wantErr: true},
		{args: []string{"unknown"}, wantErr: true},
	}

	for _, tt := range tests {
		stdout, _, err := execute(t, tt.args...)
		if tt.wantErr {
			assert.Error(t, err, "args %v", tt.args)
			continue
		}
		require.NoError(t, err, "args %v", tt.args)
		assert.Contains(t, stdout, tt.wantOut, "args %v", tt.args)
	}
}

func TestTranslateWritesKotlinBesideTheSource(t *testing.T) {
	t.Parallel()

	dump := copyFixture(t, "operators")
	target := filepath.Join(filepath.Dir(dump), "operators.kt")
	require.NoError(t, os.Remove(target))

	stdout, _, err := execute(t, "translate", dump)
	require.NoError(t, err)
	assert.Contains(t, stdout, "operators.swift")
	assert.Contains(t, strings.ToUpper(stdout), "TOTAL: 1 FILES")

	expected, err := os.ReadFile(filepath.Join(fixtures, "operators.kt"))
	require.NoError(t, err)
	written, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, string(expected), string(written))
}

func TestTranslateIntoOutputDirWithBundle(t *testing.T) {
	t.Parallel()

	dump := copyFixture(t, "operators")
	outputDir := t.TempDir()
	bundle := filepath.Join(t.TempDir(), "run.db")

	stdout, _, err := execute(t, "translate", "-q", "-o", outputDir, "--bundle", bundle, "--indent", "    ", dump)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	written, err := os.ReadFile(filepath.Join(outputDir, "operators.kt"))
	require.NoError(t, err)
	assert.Contains(t, string(written), "\n    var x: Int = 1\n")

	info, err := os.Stat(bundle)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestTranslateReportsErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dump := filepath.Join(dir, "bad.swiftASTDump")
	source := "// one\n// two\n// three\n  let y = 1\n"
	require.NoError(t, os.WriteFile(dump, []byte(`(source_file "bad.swift"
  (mystery_decl range=[bad.swift:4:3 - line:4:5]))`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.swift"), []byte(source), 0o644))

	_, stderr, err := execute(t, "translate", "-q", dump)
	require.ErrorIs(t, err, errTranslationFailed)
	assert.Contains(t, stderr, "bad.swift:4:3: error:")
	assert.Contains(t, stderr, "  let y = 1\n  ^~~\n")
}

func TestVerify(t *testing.T) {
	t.Parallel()

	dump := copyFixture(t, "operators")
	stdout, _, err := execute(t, "verify", dump)
	require.NoError(t, err)
	assert.Contains(t, stdout, "operators.swiftASTDump matches operators.kt")

	wrong := filepath.Join(t.TempDir(), "wrong.kt")
	require.NoError(t, os.WriteFile(wrong, []byte("fun main(args: Array<String>) {\n}\n"), 0o644))
	stdout, _, err = execute(t, "verify", dump, wrong)
	require.ErrorIs(t, err, errMismatch)
	assert.Contains(t, stdout, "+ \tvar x: Int = 1\n")
}

func TestDumpStages(t *testing.T) {
	t.Parallel()

	dump := copyFixture(t, "operators")

	tests := []struct {
		args    []string
		wantOut string
	}{
		{args: []string{"dump", dump}, wantOut: "Source File"},
		{args: []string{"dump", "--format", "json", dump}, wantOut: `"Source File"`},
		{args: []string{"dump", "--format", "dot", dump}, wantOut: "digraph"},
		{args: []string{"dump", "--stage", "ir", dump}, wantOut: "Source File"},
		{args: []string{"dump", "--stage", "final", "--horizontal-limit", "0", dump}, wantOut: "Source File"},
	}

	for _, tt := range tests {
		stdout, _, err := execute(t, tt.args...)
		require.NoError(t, err, "args %v", tt.args)
		assert.Contains(t, stdout, tt.wantOut, "args %v", tt.args)
	}

	saved, _, err := execute(t, "dump", "--format", "json", dump)
	require.NoError(t, err)
	tree := filepath.Join(t.TempDir(), "tree.json")
	require.NoError(t, os.WriteFile(tree, []byte(saved), 0o644))
	stdout, _, err := execute(t, "dump", "--format", "dot", tree)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Source File")

	_, _, err = execute(t, "dump", "--stage", "bytecode", dump)
	assert.ErrorIs(t, err, errUnknownStage)
}
