package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/AbigailEBurns/EarningsDateUpdater/internal/config"
	apperrors "github.com/AbigailEBurns/EarningsDateUpdater/internal/errors"
	"github.com/AbigailEBurns/EarningsDateUpdater/internal/workbook"
	"github.com/AbigailEBurns/EarningsDateUpdater/pkg/contracts"
)

// StatusSource provides the live sweep progress
type StatusSource interface {
	Snapshot() workbook.Snapshot
}

// HealthResponse is the body of GET /healthz
type HealthResponse struct {
	Status  string `json:"status"`
	App     string `json:"app"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Uptime  string `json:"uptime"`
}

// StatusResponse is the body of GET /status
type StatusResponse struct {
	RunID string `json:"run_id,omitempty"`
	workbook.Snapshot
}

// StatusHandler handles the health and status endpoints
type StatusHandler struct {
	source  StatusSource
	runID   string
	started time.Time
	logger  *slog.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(source StatusSource, runID string, logger *slog.Logger) *StatusHandler {
	return &StatusHandler{
		source:  source,
		runID:   runID,
		started: time.Now(),
		logger:  logger.With(slog.String("handler", "status")),
	}
}

// Health handles GET /healthz
func (h *StatusHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{
		Status:  "ok",
		App:     config.AppName,
		Version: config.AppVersion,
		Commit:  contracts.GitCommit,
		Uptime:  time.Since(h.started).Round(time.Second).String(),
	})
}

// Status handles GET /status
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, StatusResponse{RunID: h.runID, Snapshot: h.source.Snapshot()})
}

// metricsDisabled answers /metrics when no Prometheus handler is configured
func metricsDisabled(w http.ResponseWriter, r *http.Request) {
	renderError(w, r, apperrors.ErrMetricsDisabled)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	renderError(w, r, apperrors.ErrNotFound)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	renderError(w, r, apperrors.ErrMethodNotAllowed)
}

func renderError(w http.ResponseWriter, r *http.Request, err *apperrors.APIError) {
	if rerr := render.Render(w, r, apperrors.NewErrorResponse(err)); rerr != nil {
		http.Error(w, err.Message, err.StatusCode)
	}
}
