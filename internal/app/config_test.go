package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/florianilch/odette-proxy/internal/anthropicadapter/openaichat"
)

// clearRecognizedEnv blanks every environment variable the config layer reads
// so tests are isolated from the invoking shell.
func clearRecognizedEnv(t *testing.T) {
	t.Helper()
	for name := range envKeys {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearRecognizedEnv(t)

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1:3000", cfg.Listen)
	require.False(t, cfg.Debug)
	require.Equal(t, "https://api.openai.com/v1", cfg.Backend.BaseURL)
	require.Equal(t, openaichat.DefaultModel, cfg.Routing.Default)
	require.Equal(t, "env", cfg.Auth.Storage)
	require.Empty(t, cfg.Routing.Model)
	require.Empty(t, cfg.Routing.ReasoningModel)
	require.Empty(t, cfg.Routing.CompletionModel)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	clearRecognizedEnv(t)
	t.Setenv("MODEL", "gpt-base")
	t.Setenv("REASONING_MODEL", "gpt-reasoner")
	t.Setenv("COMPLETION_MODEL", "gpt-completer")
	t.Setenv("OPENAI_API_BASE", "http://localhost:11434/v1")
	t.Setenv("PORT", "8080")
	t.Setenv("DEBUG", "true")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	require.Equal(t, "127.0.0.1:8080", cfg.Listen)
	require.True(t, cfg.Debug)
	require.Equal(t, "http://localhost:11434/v1", cfg.Backend.BaseURL)

	router := cfg.ModelRouter()
	require.Equal(t, openaichat.ModelRouter{
		Model:           "gpt-base",
		ReasoningModel:  "gpt-reasoner",
		CompletionModel: "gpt-completer",
		Default:         openaichat.DefaultModel,
	}, router)
}

func TestLoadConfigFile(t *testing.T) {
	clearRecognizedEnv(t)

	path := filepath.Join(t.TempDir(), "odette.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen = "0.0.0.0:9000"

[backend]
base_url = "http://backend.internal/v1"

[routing]
model = "file-model"

[auth]
storage = "keyring"
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, "0.0.0.0:9000", cfg.Listen)
	require.Equal(t, "http://backend.internal/v1", cfg.Backend.BaseURL)
	require.Equal(t, "file-model", cfg.Routing.Model)
	require.Equal(t, "keyring", cfg.Auth.Storage)
}

func TestLoadConfigEnvBeatsFile(t *testing.T) {
	clearRecognizedEnv(t)
	t.Setenv("MODEL", "env-model")

	path := filepath.Join(t.TempDir(), "odette.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[routing]
model = "file-model"
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "env-model", cfg.Routing.Model)
}

func TestLoadConfigPortKeepsConfiguredHost(t *testing.T) {
	clearRecognizedEnv(t)
	t.Setenv("ODETTE_LISTEN", "0.0.0.0:3000")
	t.Setenv("PORT", "8188")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:8188", cfg.Listen)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad port", map[string]string{"PORT": "not-a-port"}},
		{"port out of range", map[string]string{"PORT": "70000"}},
		{"bad base url", map[string]string{"OPENAI_API_BASE": "localhost:11434"}},
		{"bad storage", map[string]string{"ODETTE_AUTH_STORAGE": "vault"}},
		{"file storage without path", map[string]string{"ODETTE_AUTH_STORAGE": "file"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearRecognizedEnv(t)
			for name, value := range tt.env {
				t.Setenv(name, value)
			}

			_, err := LoadConfig("")
			require.Error(t, err)
		})
	}
}

func TestLoadConfigIgnoresDebugGarbage(t *testing.T) {
	clearRecognizedEnv(t)
	t.Setenv("DEBUG", "maybe")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.False(t, cfg.Debug)
}

func TestLoadConfigMissingFile(t *testing.T) {
	clearRecognizedEnv(t)
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
}

func TestNewKeyStore(t *testing.T) {
	clearRecognizedEnv(t)
	t.Setenv("ODETTE_AUTH_STORAGE", "file")
	t.Setenv("ODETTE_AUTH_KEY_FILE", filepath.Join(t.TempDir(), "backend.key"))

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	store, err := cfg.NewKeyStore()
	require.NoError(t, err)
	require.NotNil(t, store)
}
