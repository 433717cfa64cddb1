package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sandevgo/alexbot/internal/service/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRuntimeFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".alex")

	written, err := writeRuntimeFiles(dir, newStarterEnv("gemini", "g-key", "sqlite"), false)
	require.NoError(t, err)
	assert.Len(t, written, 2)

	envData, err := os.ReadFile(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "STORE_DRIVER=sqlite\nLLM_PROVIDER=gemini\nGEMINI_API_KEY=g-key\nENABLE_HTTP=true\nPORT=3000\n", string(envData))

	persona, err := memory.LoadPersona(filepath.Join(dir, "PERSONA.yaml"))
	require.NoError(t, err)
	assert.Equal(t, memory.DefaultPersona(), persona)

	// a second run keeps what is there
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LLM_PROVIDER=echo\n"), 0600))
	written, err = writeRuntimeFiles(dir, newStarterEnv("openai", "o", "memory"), false)
	require.NoError(t, err)
	assert.Empty(t, written)

	envData, err = os.ReadFile(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "LLM_PROVIDER=echo\n", string(envData))

	written, err = writeRuntimeFiles(dir, newStarterEnv("openai", "o", "memory"), true)
	require.NoError(t, err)
	assert.Len(t, written, 2)
}

func TestNewStarterEnv(t *testing.T) {
	assert.Equal(t, "a", newStarterEnv("anthropic", "a", "memory").AnthropicKey)
	assert.Equal(t, "r", newStarterEnv("openrouter", "r", "memory").OpenRouter)

	echo := newStarterEnv("echo", "ignored", "memory")
	assert.Empty(t, echo.GeminiKey)
	assert.Empty(t, echo.OpenAIKey)
}
