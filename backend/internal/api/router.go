// Package api serves the prompt nodes over HTTP in the shape a node-graph
// host expects: descriptors under object_info and per-node invocation.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/internal/nodes"
	apperrors "github.com/NeuralSamurAI/ComfyUI-PromptJSON/backend/pkg/errors"
)

// Completer sends a system/user prompt pair to a language model.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// RouterConfig wires the router's dependencies. Completer may be nil, which
// disables /api/prompt/complete.
type RouterConfig struct {
	Registry     *nodes.Registry
	Completer    Completer
	Logger       *zap.Logger
	AllowOrigins []string
	ServiceName  string
}

type handler struct {
	registry  *nodes.Registry
	completer Completer
	logger    *zap.Logger
}

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "promptjson"
	}

	router := gin.New()
	router.Use(requestID())
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())
	router.Use(corsMiddleware(cfg.AllowOrigins))
	router.Use(otelgin.Middleware(serviceName))

	h := &handler{registry: cfg.Registry, completer: cfg.Completer, logger: log}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/object_info", h.objectInfo)
		api.GET("/object_info/:node", h.nodeInfo)
		api.POST("/nodes/:node/invoke", h.invoke)
		api.POST("/prompt/complete", h.complete)
	}
	return router
}

type invokeRequest struct {
	Inputs map[string]interface{} `json:"inputs"`
}

func (h *handler) objectInfo(c *gin.Context) {
	descs := h.registry.Descriptors()
	out := make(map[string]nodes.Descriptor, len(descs))
	for _, d := range descs {
		out[d.Name] = d
	}
	c.JSON(http.StatusOK, out)
}

func (h *handler) nodeInfo(c *gin.Context) {
	n, err := h.registry.Get(c.Param("node"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, n.Descriptor())
}

func (h *handler) invoke(c *gin.Context) {
	var req invokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "type": apperrors.ErrorTypeInput})
		return
	}

	name := c.Param("node")
	outputs, err := h.registry.Invoke(c.Request.Context(), name, req.Inputs)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"node":    name,
		"outputs": outputs,
		"order":   outputs.Names(),
	})
}

func (h *handler) complete(c *gin.Context) {
	if h.completer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "LLM completion is not configured", "type": apperrors.ErrorTypeLLM})
		return
	}

	var req invokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "type": apperrors.ErrorTypeInput})
		return
	}

	ctx := c.Request.Context()
	outputs, err := h.registry.Invoke(ctx, nodes.PromptJSONName, req.Inputs)
	if err != nil {
		h.fail(c, err)
		return
	}

	system, _ := outputs.Get("system_prompt")
	user, _ := outputs.Get("user_prompt")
	systemPrompt, _ := system.(string)
	userPrompt, _ := user.(string)

	completion, err := h.completer.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"node":       nodes.PromptJSONName,
		"outputs":    outputs,
		"order":      outputs.Names(),
		"completion": completion,
	})
}

func (h *handler) fail(c *gin.Context, err error) {
	status := statusFor(err)
	errType, _ := apperrors.TypeOf(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString(ctxRequestID)),
			zap.Error(err),
		)
	}
	c.JSON(status, gin.H{"error": err.Error(), "type": errType})
}

// statusFor maps an error category to an HTTP status.
func statusFor(err error) int {
	errType, ok := apperrors.TypeOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch errType {
	case apperrors.ErrorTypeInput, apperrors.ErrorTypeSchema:
		return http.StatusBadRequest
	case apperrors.ErrorTypeNode:
		return http.StatusNotFound
	case apperrors.ErrorTypeTokenizer:
		return http.StatusUnprocessableEntity
	case apperrors.ErrorTypeLLM:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
