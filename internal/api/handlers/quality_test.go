package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ColeMorton/sensylate-sub000/internal/alerts"
	"github.com/ColeMorton/sensylate-sub000/internal/artifacts"
	"github.com/ColeMorton/sensylate-sub000/internal/contracts"
	"github.com/ColeMorton/sensylate-sub000/internal/gates"
	"github.com/ColeMorton/sensylate-sub000/internal/history"
	"github.com/ColeMorton/sensylate-sub000/internal/monitor"
	"github.com/ColeMorton/sensylate-sub000/internal/qualityconfig"
	"github.com/ColeMorton/sensylate-sub000/internal/report"
	"github.com/ColeMorton/sensylate-sub000/pkg/logger"
)

func newTestHandler(t *testing.T) (*QualityHandler, *history.Store) {
	t.Helper()
	log := logger.Nop()
	cfg := qualityconfig.Default()

	loader, err := artifacts.NewLoader(t.TempDir(), log)
	require.NoError(t, err)
	store, err := history.NewStore(t.TempDir(), log)
	require.NoError(t, err)

	mon := monitor.New(loader, cfg, "", gates.NewEngine(cfg),
		alerts.NewEngine(store, cfg, log), store, log)
	gen := report.NewGenerator(store, log)
	return NewQualityHandler(mon, store, gen, cfg, log), store
}

func TestGetReportEmptyDataDir(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/quality/report?region=US", nil)
	rec := httptest.NewRecorder()
	h.GetReport(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var decoded contracts.CrossValidationReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	assert.False(t, decoded.OverallPassed)
	assert.Equal(t, "US", decoded.Metadata.Region)
}

func TestGetReportRejectsBadDate(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/quality/report?date=2026-08-31", nil)
	rec := httptest.NewRecorder()
	h.GetReport(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetAlerts(t *testing.T) {
	h, store := newTestHandler(t)
	require.NoError(t, store.AppendAlerts(contracts.QualityAlert{
		ID:        "a1",
		AlertType: "freshness",
		Severity:  contracts.SeverityHigh,
		Message:   "freshness: discovery artifact is stale",
		Timestamp: time.Now(),
		Region:    "US",
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/quality/alerts?hours=48", nil)
	rec := httptest.NewRecorder()
	h.GetAlerts(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Hours  int                      `json:"hours"`
		Count  int                      `json:"count"`
		Alerts []contracts.QualityAlert `json:"alerts"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 48, body.Hours)
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Alerts, 1)
	assert.Equal(t, "a1", body.Alerts[0].ID)
}

func TestGetAlertsRejectsBadHours(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/quality/alerts?hours=zero", nil)
	rec := httptest.NewRecorder()
	h.GetAlerts(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMetricsEmptyHistoryIsEmptyArray(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/quality/metrics", nil)
	rec := httptest.NewRecorder()
	h.GetMetrics(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"metrics":[]`)
}

func TestGetTrend(t *testing.T) {
	h, store := newTestHandler(t)
	require.NoError(t, store.AppendMetrics(
		contracts.QualityMetricsSnapshot{Timestamp: time.Now(), OverallScore: 0.9, Region: "US"},
	))

	req := httptest.NewRequest(http.MethodGet, "/api/quality/trend?region=US&days=7", nil)
	rec := httptest.NewRecorder()
	h.GetTrend(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var summary report.TrendSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 1, summary.Samples)
	assert.Equal(t, "US", summary.Region)
}

func TestGetTrendNoHistory(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/quality/trend?region=EU", nil)
	rec := httptest.NewRecorder()
	h.GetTrend(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
