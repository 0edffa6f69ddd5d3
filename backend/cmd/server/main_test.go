package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/internal/api"
	"github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/internal/nodes"
	"github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/internal/tokenizer"
	"github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/pkg/config"
	apperrors "github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/pkg/errors"
)

type charTokenizer struct{}

func (charTokenizer) Encode(text string) ([]int, error) {
	return make([]int, len(text)), nil
}

type mapSource map[string]tokenizer.Tokenizer

func (s mapSource) Load(name string) (tokenizer.Tokenizer, error) {
	if tok, ok := s[name]; ok {
		return tok, nil
	}
	return nil, apperrors.NewTokenizerUnavailable(name, nil)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	modelsFile := filepath.Join(t.TempDir(), "models.yaml")
	require.NoError(t, os.WriteFile(modelsFile, []byte("models:\n  - name: flux1-dev\n    tokenizer: flux-t5\n"), 0o644))
	return &config.Config{
		Port:                   "0",
		Env:                    "test",
		ShutdownTimeoutSeconds: 1,
		PrimaryTokenizer:       "t5-xxl",
		SecondaryTokenizer:     "clip",
		ModelsFile:             modelsFile,
	}
}

func TestBuildRegistry(t *testing.T) {
	registry, err := buildRegistry(testConfig(t), mapSource{"flux-t5": charTokenizer{}})
	require.NoError(t, err)

	names := []string{}
	for _, d := range registry.Descriptors() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{nodes.PromptJSONName, nodes.TokenCounterName}, names)

	out, err := registry.Invoke(context.Background(), nodes.TokenCounterName, nodes.Args{"text": "abcd", "model": "flux1-dev"})
	require.NoError(t, err)
	count, _ := out.Get("t5_token_count")
	assert.Equal(t, 4, count)

	_, err = registry.Invoke(context.Background(), nodes.TokenCounterName, nodes.Args{"text": "abcd", "model": "sdxl"})
	assert.True(t, apperrors.IsErrorType(err, apperrors.ErrorTypeInput))
}

func TestBuildRegistry_BadModelsFile(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.ModelsFile, []byte("models:\n  - tokenizer: x\n"), 0o644))

	_, err := buildRegistry(cfg, mapSource{})
	assert.Error(t, err)
}

func TestNewCompleter(t *testing.T) {
	cfg := testConfig(t)
	assert.Nil(t, newCompleter(cfg))

	cfg.LiteLLMURL = "http://localhost:4000"
	cfg.ModelID = "m"
	assert.NotNil(t, newCompleter(cfg))
}

func TestServerWiring(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)
	registry, err := buildRegistry(cfg, mapSource{"flux-t5": charTokenizer{}})
	require.NoError(t, err)
	router := api.NewRouter(api.RouterConfig{Registry: registry, Completer: newCompleter(cfg), AllowOrigins: []string{"*"}})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	body, _ := json.Marshal(map[string]interface{}{"inputs": map[string]interface{}{
		"prompt": "x", "negative_prompt": "", "llm_prompt_type": "One Shot", "schema_type": "JSON",
	}})
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/prompt/complete", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "not configured"))
}
