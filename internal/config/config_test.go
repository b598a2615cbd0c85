package config

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	Init(nil)

	assert.Equal(t, "gemini", Provider())
	assert.Equal(t, 5, ChunkSize())
	assert.Equal(t, "summary", ReportType())
	assert.Equal(t, "http://localhost:11434", OllamaURL())
	assert.Equal(t, "md", ExportFormat())
	assert.False(t, MockAI())
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("CHUNK_SIZE", "3")
	t.Setenv("DEFAULT_PROVIDER", "ollama")
	t.Setenv("E2E_TEST_MOCK_AI", "true")

	Init(nil)

	assert.Equal(t, 3, ChunkSize())
	assert.Equal(t, "ollama", Provider())
	assert.True(t, MockAI())
}

func TestFlagsOverrideEnvironment(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("CHUNK_SIZE", "3")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Int("chunk-size", 5, "")
	cmd.Flags().String("provider", "", "")
	Init(cmd)

	require.NoError(t, cmd.Flags().Set("chunk-size", "9"))
	assert.Equal(t, 9, ChunkSize())
	assert.Equal(t, "gemini", Provider())
}
