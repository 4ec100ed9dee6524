package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestGrammarsCmd(t *testing.T) {
	out, err := run(t, "grammars")
	require.NoError(t, err)
	assert.Contains(t, out, "tzif")
	assert.Contains(t, out, "binary")
	assert.Contains(t, out, "arith")
}

func TestParseCmd(t *testing.T) {
	tests := []struct {
		name    string
		content string
		args    []string
		want    string
	}{
		{"keyed date", "2024-01-15", []string{"--grammar", "date", "--keyed", "--format", "line"}, "year\t2024\nmonth\t1\nday\t15\n"},
		{"arith as json", "1 + 2", []string{"-g", "arith", "-f", "json"}, "[\n  3\n]\n"},
		{"arith as yaml", "2 * (3 + 4)", []string{"-g", "arith", "-f", "yaml"}, "- 14\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "input", tt.content)
			out, err := run(t, append([]string{"parse", path}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestParseCmdEncoding(t *testing.T) {
	path := writeFile(t, "latin1.csv", "caf\xe9")
	out, err := run(t, "parse", path, "-g", "csv", "-f", "line", "--encoding", "ISO-8859-1")
	require.NoError(t, err)
	assert.Equal(t, "[[café]]\n", out)
}

func TestParseCmdErrors(t *testing.T) {
	path := writeFile(t, "input", "1 +")

	_, err := run(t, "parse", path, "-g", "nope")
	assert.ErrorContains(t, err, `unknown grammar "nope"`)

	_, err = run(t, "parse", path, "-g", "arith", "-f", "xml")
	assert.ErrorContains(t, err, `unknown format "xml"`)

	_, err = run(t, "parse", path, "-g", "arith")
	assert.EqualError(t, err, path+": Expected end of input at line 1, column 3.")

	_, err = run(t, "parse", filepath.Join(t.TempDir(), "missing"), "-g", "arith")
	assert.ErrorContains(t, err, "no such file or directory")
}

func TestParseCmdConfigFile(t *testing.T) {
	config := writeFile(t, "combo.toml", "grammar = \"arith\"\nformat = \"line\"\n")
	path := writeFile(t, "input", "6 * 7")

	out, err := run(t, "--config", config, "parse", path)
	require.NoError(t, err)
	assert.Equal(t, "42\n", out)

	out, err = run(t, "--config", config, "parse", path, "-f", "json")
	require.NoError(t, err)
	assert.Equal(t, "[\n  42\n]\n", out)
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig(writeFile(t, "combo.toml", "keyed = true\nverbosity = 2\n"))
	require.NoError(t, err)
	assert.Equal(t, Config{Format: "json", Keyed: true, Verbosity: 2}, cfg)

	_, err = loadConfig(writeFile(t, "combo.toml", "colour = \"red\"\n"))
	assert.ErrorContains(t, err, "unknown keys [colour]")

	_, err = loadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestLexCmd(t *testing.T) {
	grammar := writeFile(t, "tokens.ebnf", `
Number = digit { digit } .
Ident  = letter { letter } .
Space  = " " .
digit  = "0" … "9" .
letter = "a" … "z" .
`)
	input := writeFile(t, "input", "ab 12")

	out, err := run(t, "lex", input, "--ebnf", grammar, "--skip", "Space")
	require.NoError(t, err)
	assert.Equal(t, "1:1 Ident \"ab\"\n1:4 Number \"12\"\n", out)

	bad := writeFile(t, "bad", "ab?")
	out, err = run(t, "lex", bad, "--ebnf", grammar)
	assert.EqualError(t, err, `no token matches "?" at line 1, column 3`)
	assert.Equal(t, "1:1 Ident \"ab\"\n", out)
}

func TestTraceRaisesVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		trace     bool
		want      int
	}{
		{0, false, 0},
		{1, false, 1},
		{0, true, debugVerbosity},
		{1, true, debugVerbosity},
		{3, true, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, logVerbosity(tt.verbosity, tt.trace), "verbosity %d, trace %v", tt.verbosity, tt.trace)
	}

	path := writeFile(t, "input", "1 + 2")
	out, err := run(t, "parse", path, "-g", "arith", "-f", "json", "--trace")
	require.NoError(t, err)
	assert.Equal(t, "[\n  3\n]\n", out)
}
