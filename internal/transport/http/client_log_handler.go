package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	apperrors "github.com/burevuh-next/logistics-analyzer/internal/errors"
	"github.com/burevuh-next/logistics-analyzer/internal/middleware"
)

// maxClientLogBytes bounds a single client log entry
const maxClientLogBytes = 64 << 10

// ClientLogHandler forwards dashboard frontend log entries into the server log
type ClientLogHandler struct {
	validator    *middleware.Validator
	errorHandler *apperrors.ErrorHandler
	logger       *slog.Logger
}

// NewClientLogHandler creates a new client log handler
func NewClientLogHandler(logger *slog.Logger, errorHandler *apperrors.ErrorHandler) *ClientLogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClientLogHandler{
		validator:    middleware.NewValidator(errorHandler, logger),
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "client_log")),
	}
}

// LogRequest represents a client log entry
type LogRequest struct {
	Level   string                 `json:"level" validate:"omitempty,oneof=debug info warn error"`
	Message string                 `json:"message" validate:"required,max=2048"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Source  string                 `json:"source,omitempty" validate:"max=256"`
}

var clientLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// Handle handles POST /api/v1/client-log
func (h *ClientLogHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var req LogRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxClientLogBytes)).Decode(&req); err != nil {
		h.errorHandler.HandleError(w, r, apperrors.InvalidParameter("body", err))
		return
	}
	if !h.validator.Check(w, r, req) {
		return
	}

	level, ok := clientLevels[req.Level]
	if !ok {
		level = slog.LevelInfo
	}
	attrs := []slog.Attr{slog.String("client_source", req.Source)}
	if req.Data != nil {
		attrs = append(attrs, slog.Any("data", req.Data))
	}
	h.logger.LogAttrs(r.Context(), level, req.Message, attrs...)

	render.JSON(w, r, map[string]bool{"success": true})
}
