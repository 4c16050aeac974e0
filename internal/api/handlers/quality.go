package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ColeMorton/sensylate-sub000/internal/contracts"
	"github.com/ColeMorton/sensylate-sub000/internal/history"
	"github.com/ColeMorton/sensylate-sub000/internal/monitor"
	"github.com/ColeMorton/sensylate-sub000/internal/qualityconfig"
	"github.com/ColeMorton/sensylate-sub000/internal/report"
	"github.com/ColeMorton/sensylate-sub000/pkg/logger"
)

// QualityHandler handles quality API endpoints
// ⭐ SSOT: 품질 API 핸들러는 이 구조체에서만
type QualityHandler struct {
	monitor   *monitor.Monitor
	store     *history.Store
	generator *report.Generator
	cfg       *qualityconfig.Config
	logger    *logger.Logger
}

// NewQualityHandler creates a new quality handler
func NewQualityHandler(
	mon *monitor.Monitor,
	store *history.Store,
	gen *report.Generator,
	cfg *qualityconfig.Config,
	log *logger.Logger,
) *QualityHandler {
	return &QualityHandler{
		monitor:   mon,
		store:     store,
		generator: gen,
		cfg:       cfg,
		logger:    log,
	}
}

// GetReport runs an on-demand validation and returns the gated report
// GET /api/quality/report?region=US&date=YYYYMMDD
func (h *QualityHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("region")
	if region == "" {
		region = h.defaultRegion()
	}

	date := r.URL.Query().Get("date")
	if date != "" {
		if _, err := time.Parse("20060102", date); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid 'date' format (expected YYYYMMDD)")
			return
		}
	}

	result := h.monitor.RunValidation(r.Context(), region, date)
	respondJSON(w, http.StatusOK, result)
}

// GetAlerts returns recent alerts from the history store
// GET /api/quality/alerts?hours=24
func (h *QualityHandler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	hours, err := queryInt(r, "hours", 24)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'hours' value")
		return
	}

	alerts, err := h.store.AlertsSince(time.Now().Add(-time.Duration(hours) * time.Hour))
	if err != nil {
		h.logger.WithError(err).Error("Failed to read alert history")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve alerts")
		return
	}
	if alerts == nil {
		alerts = []contracts.QualityAlert{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"hours":  hours,
		"count":  len(alerts),
		"alerts": alerts,
	})
}

// GetMetrics returns metrics snapshots from the history store
// GET /api/quality/metrics?days=7
func (h *QualityHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", 7)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'days' value")
		return
	}

	metrics, err := h.store.MetricsSince(time.Now().Add(-time.Duration(days) * 24 * time.Hour))
	if err != nil {
		h.logger.WithError(err).Error("Failed to read metrics history")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve metrics")
		return
	}
	if metrics == nil {
		metrics = []contracts.QualityMetricsSnapshot{}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"days":    days,
		"count":   len(metrics),
		"metrics": metrics,
	})
}

// GetTrend returns the aggregated quality trend for one region
// GET /api/quality/trend?region=US&days=7
func (h *QualityHandler) GetTrend(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("region")
	if region == "" {
		region = h.defaultRegion()
	}

	days, err := queryInt(r, "days", 7)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'days' value")
		return
	}

	summary, err := h.generator.Trend(region, days)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build trend summary")
		respondError(w, http.StatusInternalServerError, "Failed to build trend summary")
		return
	}
	if summary == nil {
		respondError(w, http.StatusNotFound, "No quality history for region "+region)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

func (h *QualityHandler) defaultRegion() string {
	if len(h.cfg.RegionsToMonitor) > 0 {
		return h.cfg.RegionsToMonitor[0]
	}
	return "US"
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}
