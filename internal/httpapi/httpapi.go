// Package httpapi exposes the odds service over HTTP with JSON bodies.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/xtding233/craft-odds/internal/export"
	"github.com/xtding233/craft-odds/internal/service"
)

const maxBodyBytes = 1 << 20

type errResp struct {
	Err string `json:"err"`
}

type optionsResp struct {
	Options []string `json:"options"`
}

type levelsResp struct {
	Option string   `json:"option"`
	Levels []string `json:"levels"`
}

type healthResp struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// Handler serves the odds API.
type Handler struct {
	odds   *service.Odds
	logger *slog.Logger
	mux    *http.ServeMux
}

// New returns a Handler with every route registered.
func New(odds *service.Odds, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &Handler{odds: odds, logger: logger, mux: http.NewServeMux()}
	h.mux.HandleFunc("POST /v1/odds", h.handleOdds)
	h.mux.HandleFunc("POST /v1/odds.xlsx", h.handleOddsXLSX)
	h.mux.HandleFunc("GET /v1/options", h.handleOptions)
	h.mux.HandleFunc("GET /v1/levels", h.handleLevels)
	h.mux.HandleFunc("GET /healthz", h.handleHealth)
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	h.mux.ServeHTTP(rec, r)
	h.logger.Debug("http request",
		"method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
}

func (h *Handler) handleOdds(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}
	resp, err := h.odds.Calculate(r.Context(), req)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleOddsXLSX(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}
	resp, err := h.odds.Calculate(r.Context(), req)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="odds.xlsx"`)
	if err := export.WriteXLSX(w, req.Selections, resp); err != nil {
		h.logger.Error("writing xlsx", "err", err)
	}
}

func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.odds.ListOptions(r.Context())
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if opts == nil {
		opts = []string{}
	}
	writeJSON(w, http.StatusOK, optionsResp{Options: opts})
}

func (h *Handler) handleLevels(w http.ResponseWriter, r *http.Request) {
	option := strings.TrimSpace(r.URL.Query().Get("option"))
	if option == "" {
		writeJSON(w, http.StatusBadRequest, errResp{Err: "missing param option"})
		return
	}
	levels, err := h.odds.ListLevels(r.Context(), option)
	if err != nil {
		h.writeErr(w, err)
		return
	}
	if levels == nil {
		levels = []string{}
	}
	writeJSON(w, http.StatusOK, levelsResp{Option: option, Levels: levels})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !h.odds.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, healthResp{Status: "loading"})
		return
	}
	writeJSON(w, http.StatusOK, healthResp{Status: "ok", Version: h.odds.Version()})
}

func (h *Handler) decodeRequest(w http.ResponseWriter, r *http.Request) (service.Request, bool) {
	var req service.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errResp{Err: "invalid request body: " + err.Error()})
		return service.Request{}, false
	}
	return req, true
}

func (h *Handler) writeErr(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrNoData) {
		writeJSON(w, http.StatusServiceUnavailable, errResp{Err: err.Error()})
		return
	}
	h.logger.Error("request failed", "err", err)
	writeJSON(w, http.StatusInternalServerError, errResp{Err: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
