package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/internal/nodes"
	"github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/internal/promptgen"
	"github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/internal/tokenizer"
	apperrors "github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/pkg/errors"
)

type spaceTokenizer struct{}

func (spaceTokenizer) Encode(text string) ([]int, error) {
	return make([]int, len(strings.Fields(text))+1), nil
}

type mapSource map[string]tokenizer.Tokenizer

func (s mapSource) Load(name string) (tokenizer.Tokenizer, error) {
	if tok, ok := s[name]; ok {
		return tok, nil
	}
	return nil, apperrors.NewTokenizerUnavailable(name, nil)
}

type namedModel string

func (m namedModel) Name() string { return string(m) }

type fakeCompleter struct {
	system, user string
	reply        string
	err          error
}

func (f *fakeCompleter) Complete(_ context.Context, system, user string) (string, error) {
	f.system, f.user = system, user
	return f.reply, f.err
}

func newTestRouter(t *testing.T, source tokenizer.Source, completer Completer) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := nodes.NewRegistry()
	require.NoError(t, reg.Register(nodes.NewPromptSchemaNode(promptgen.NewGenerator())))
	resolver := nodes.ModelResolverFunc(func(name string) (tokenizer.Model, error) {
		if name == "missing" {
			return nil, apperrors.NewInvalidInput("model", "unknown model")
		}
		return namedModel(name), nil
	})
	require.NoError(t, reg.Register(nodes.NewTokenCountNode(tokenizer.NewCounter(source, "t5-xxl", "clip"), resolver)))

	return NewRouter(RouterConfig{Registry: reg, Completer: completer, AllowOrigins: []string{"*"}})
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func promptInputs() map[string]interface{} {
	return map[string]interface{}{
		"prompt":          "A lighthouse at dusk",
		"negative_prompt": "people",
		"complexity":      0.8,
		"llm_prompt_type": "One Shot",
		"schema_type":     "Key",
		"enhance_prompt":  true,
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, mapSource{}, nil)

	w := doJSON(t, router, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(headerRequestID))
}

func TestRequestIDIsPropagated(t *testing.T) {
	router := newTestRouter(t, mapSource{}, nil)

	req, _ := http.NewRequest("GET", "/health", nil)
	req.Header.Set(headerRequestID, "abc-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(headerRequestID))
}

func TestObjectInfo(t *testing.T) {
	router := newTestRouter(t, mapSource{}, nil)

	w := doJSON(t, router, "GET", "/api/object_info", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all map[string]nodes.Descriptor
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Contains(t, all, nodes.PromptJSONName)
	assert.Contains(t, all, nodes.TokenCounterName)
	assert.Equal(t, "prompt_converters", all[nodes.PromptJSONName].Category)

	w = doJSON(t, router, "GET", "/api/object_info/TokenCounter", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var one nodes.Descriptor
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &one))
	assert.Equal(t, "count_tokens", one.Function)

	w = doJSON(t, router, "GET", "/api/object_info/Nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvokePromptJSON(t *testing.T) {
	router := newTestRouter(t, mapSource{}, nil)

	w := doJSON(t, router, "POST", "/api/nodes/PromptJSON/invoke", gin.H{"inputs": promptInputs()})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Node    string            `json:"node"`
		Outputs map[string]string `json:"outputs"`
		Order   []string          `json:"order"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "PromptJSON", resp.Node)
	assert.Equal(t, []string{"system_prompt", "user_prompt", "negative_passthru", "schema"}, resp.Order)
	assert.Equal(t, "people", resp.Outputs["negative_passthru"])
	assert.Contains(t, resp.Outputs["user_prompt"], "complexity value of 0.8")
	assert.True(t, strings.HasPrefix(resp.Outputs["schema"], "title: [Brief title for the image]"))

	// outputs object keys follow declared order
	body := w.Body.String()
	outputs := body[strings.Index(body, `"outputs":`):]
	assert.Less(t, strings.Index(outputs, `"system_prompt"`), strings.Index(outputs, `"user_prompt"`))
	assert.Less(t, strings.Index(outputs, `"negative_passthru"`), strings.Index(outputs, `"schema"`))
}

func TestInvokeTokenCounter(t *testing.T) {
	router := newTestRouter(t, mapSource{"t5-xxl": spaceTokenizer{}, "clip": spaceTokenizer{}}, nil)

	w := doJSON(t, router, "POST", "/api/nodes/TokenCounter/invoke", gin.H{"inputs": gin.H{"text": "one two three", "model": ""}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Outputs map[string]*int `json:"outputs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Outputs["t5_token_count"])
	assert.Equal(t, 4, *resp.Outputs["t5_token_count"])
	assert.Nil(t, resp.Outputs["clip_token_count"])
}

func TestInvokeStatusMapping(t *testing.T) {
	router := newTestRouter(t, mapSource{}, nil)

	bad := promptInputs()
	bad["schema_type"] = "TOML"

	cases := []struct {
		name   string
		path   string
		body   interface{}
		status int
	}{
		{"invalid input", "/api/nodes/PromptJSON/invoke", gin.H{"inputs": bad}, http.StatusBadRequest},
		{"unknown node", "/api/nodes/Upscale/invoke", gin.H{"inputs": gin.H{}}, http.StatusNotFound},
		{"unknown model", "/api/nodes/TokenCounter/invoke", gin.H{"inputs": gin.H{"text": "x", "model": "missing"}}, http.StatusBadRequest},
		{"no tokenizer", "/api/nodes/TokenCounter/invoke", gin.H{"inputs": gin.H{"text": "x", "model": ""}}, http.StatusUnprocessableEntity},
		{"malformed body", "/api/nodes/PromptJSON/invoke", "not an object", http.StatusBadRequest},
	}
	for _, tc := range cases {
		w := doJSON(t, router, "POST", tc.path, tc.body)
		assert.Equal(t, tc.status, w.Code, "%s: %s", tc.name, w.Body.String())
	}
}

func TestCompleteEndpoint(t *testing.T) {
	completer := &fakeCompleter{reply: "title: Lighthouse at dusk"}
	router := newTestRouter(t, mapSource{}, completer)

	w := doJSON(t, router, "POST", "/api/prompt/complete", gin.H{"inputs": promptInputs()})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Completion string            `json:"completion"`
		Outputs    map[string]string `json:"outputs"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, completer.reply, resp.Completion)
	assert.Equal(t, resp.Outputs["system_prompt"], completer.system)
	assert.Equal(t, resp.Outputs["user_prompt"], completer.user)
}

func TestCompleteEndpoint_Errors(t *testing.T) {
	router := newTestRouter(t, mapSource{}, nil)
	w := doJSON(t, router, "POST", "/api/prompt/complete", gin.H{"inputs": promptInputs()})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	failing := &fakeCompleter{err: apperrors.NewLLMRequestFailed("m", 3, errors.New("down"))}
	router = newTestRouter(t, mapSource{}, failing)
	w = doJSON(t, router, "POST", "/api/prompt/complete", gin.H{"inputs": promptInputs()})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("plain")))
	assert.Equal(t, http.StatusBadRequest, statusFor(fmt.Errorf("wrapped: %w", apperrors.NewInvalidInput("x", "y"))))
	assert.Equal(t, http.StatusBadRequest, statusFor(apperrors.NewUnsupportedSchemaType("YAML")))
	assert.Equal(t, http.StatusNotFound, statusFor(apperrors.NewNodeNotFound("n")))
	assert.Equal(t, http.StatusUnprocessableEntity, statusFor(apperrors.NewTokenizerUnavailable("t", nil)))
	assert.Equal(t, http.StatusBadGateway, statusFor(apperrors.ErrLLMNoResponse))
	assert.Equal(t, http.StatusInternalServerError, statusFor(apperrors.NewConfigMissingRequired("PORT")))
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(t, mapSource{}, nil)

	req, _ := http.NewRequest("OPTIONS", "/api/nodes/PromptJSON/invoke", nil)
	req.Header.Set("Origin", "http://localhost:8188")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
