// Package remote exposes the timer over a loopback HTTP and websocket API.
package remote

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"focusring/internal/core/timekeeper"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

const maxBodyBytes = 4 << 10

// Controller is the timer surface the API drives.
type Controller interface {
	Toggle()
	EndSession()
	ResetSessions()
	RequestSetDuration(raw string) error
	Snapshot() timekeeper.Snapshot
	Subscribe(buffer int) <-chan timekeeper.Event
	Unsubscribe(events <-chan timekeeper.Event)
}

// Handler serves the remote control routes.
type Handler struct {
	controller Controller
	logger     *slog.Logger
}

// NewHandler creates a Handler. A nil logger means slog.Default().
func NewHandler(controller Controller, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		controller: controller,
		logger:     logger.With("component", "remote"),
	}
}

// Routes builds the chi router with request logging, recovery and /health.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RequestLogger(&chiMiddleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(h.logger.Handler(), slog.LevelDebug),
		NoColor: true,
	}))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.handleState)
		r.Post("/toggle", h.handleIntent(h.controller.Toggle))
		r.Post("/end", h.handleIntent(h.controller.EndSession))
		r.Post("/reset", h.handleIntent(h.controller.ResetSessions))
		r.Put("/duration", h.handleSetDuration)
	})
	r.Get("/ws/events", h.handleEvents)

	return r
}

func (h *Handler) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, newStateResponse(h.controller.Snapshot()))
}

func (h *Handler) handleIntent(intent func()) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		intent()
		writeJSON(w, http.StatusOK, newStateResponse(h.controller.Snapshot()))
	}
}

func (h *Handler) handleSetDuration(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "read body"})
		return
	}
	var request DurationRequest
	if err := sonic.Unmarshal(body, &request); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponse{Error: "invalid json"})
		return
	}

	raw := minutesText(request.Minutes)
	if err := h.controller.RequestSetDuration(raw); err != nil {
		var validation *timekeeper.ValidationError
		if !errors.As(err, &validation) {
			h.logger.Error("set duration failed", "err", err)
			writeError(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}
		status := http.StatusUnprocessableEntity
		if errors.Is(err, timekeeper.ErrSessionRunning) {
			status = http.StatusConflict
		}
		writeError(w, status, ErrorResponse{Error: validation.Reason, Input: raw})
		return
	}

	writeJSON(w, http.StatusOK, newStateResponse(h.controller.Snapshot()))
}

func minutesText(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		return fmt.Sprint(typed)
	}
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	data, err := sonic.Marshal(value)
	if err != nil {
		http.Error(w, `{"error":"failed to encode response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, response ErrorResponse) {
	writeJSON(w, status, response)
}
