package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestValidate_DefaultsNeedInput(t *testing.T) {
	cfg := Default()

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic due to missing input file, but got none")
		}
		assert.Contains(t, r, "InputFile")
	}()

	cfg.validate()
}

func TestValidate_Valid(t *testing.T) {
	cfg := Default()
	cfg.InputFile = "in.idf"

	assert.NotPanics(t, cfg.validate)
}

func TestValidate_PortOutOfRange(t *testing.T) {
	cfg := Default()
	cfg.InputFile = "in.idf"
	cfg.ServePort = 70000

	assert.Panics(t, cfg.validate)
}

func TestValidate_DatadogNeedsAgent(t *testing.T) {
	cfg := Default()
	cfg.InputFile = "in.idf"
	cfg.EnableDatadog = true

	assert.Panics(t, cfg.validate)

	cfg.DDAgentAddr = "127.0.0.1:8125"
	assert.NotPanics(t, cfg.validate)
}

func TestFromFile_JSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"input_file": "in.idf",
		"serve_port": 8080,
		"translator": {"exclude_orphaned_components": false},
		"dd_tags": ["env:test"]
	}`)

	cfg := FromFile(path)

	assert.Equal(t, "in.idf", cfg.InputFile)
	assert.Equal(t, "out.idf", cfg.OutputFile, "unset keys keep their defaults")
	assert.Equal(t, 8080, cfg.ServePort)
	assert.False(t, cfg.Translator.ExcludeOrphanedComponents)
	assert.True(t, cfg.Translator.OutdoorAirNodeList)
	assert.Equal(t, []string{"env:test"}, cfg.DDTags)
}

func TestFromFile_YAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
input_file: model.idf
output_file: result.idf
translator:
  outdoor_air_node_list: false
enable_datadog: true
dd_agent_addr: localhost:8125
`)

	cfg := FromFile(path)

	assert.Equal(t, "model.idf", cfg.InputFile)
	assert.Equal(t, "result.idf", cfg.OutputFile)
	assert.True(t, cfg.Translator.ExcludeOrphanedComponents)
	assert.False(t, cfg.Translator.OutdoorAirNodeList)
	assert.True(t, cfg.EnableDatadog)
	assert.Equal(t, "localhost:8125", cfg.DDAgentAddr)
}

func TestFromFile_Malformed(t *testing.T) {
	path := writeFile(t, "config.json", `{"input_file": `)

	assert.Panics(t, func() { FromFile(path) })
}

func TestFromFile_Missing(t *testing.T) {
	assert.Panics(t, func() { FromFile(filepath.Join(t.TempDir(), "nope.json")) })
}

func TestParseLogLevel(t *testing.T) {
	for in, want := range map[string]string{
		"debug": "debug",
		"warn":  "warn",
		"error": "error",
		"":      "info",
		"loud":  "info",
	} {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, parseLogLevel(in).String())
		})
	}
}
