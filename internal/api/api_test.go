package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/levelmeter-go/internal/levelmeter"
)

func newTestController(t *testing.T) (*Controller, *levelmeter.Processor) {
	t.Helper()
	cfg := levelmeter.DefaultConfig()
	cfg.HistorySize = 5
	p := levelmeter.New(cfg)
	require.True(t, p.IsInitialized())
	return New(p, nil), p
}

func feedChunks(t *testing.T, p *levelmeter.Processor, n int) {
	t.Helper()
	chunk := make([]float64, 441)
	for i := range chunk {
		chunk[i] = 0.5
	}
	for iter := 0; iter < n; iter++ {
		_, err := p.ProcessAudio(chunk, 1)
		require.NoError(t, err)
	}
}

func TestGetLevel(t *testing.T) {
	c, p := newTestController(t)
	feedChunks(t, p, 3)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/level", http.NoBody)
	c.Echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	for _, key := range []string{"rms", "peak", "rmsLinear", "peakLinear", "timestamp"} {
		assert.Contains(t, body, key)
	}
}

func TestGetLevelHistory(t *testing.T) {
	c, p := newTestController(t)
	feedChunks(t, p, 8)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/level/history", http.NoBody)
	c.Echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var docs []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs))
	assert.Len(t, docs, 5, "history bounded by configured capacity")
}

func TestGetLevelHistory_CountParam(t *testing.T) {
	c, p := newTestController(t)
	feedChunks(t, p, 8)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/level/history?count=2", http.NoBody)
	c.Echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var docs []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs))
	assert.Len(t, docs, 2)
}

func TestGetLevelHistory_BadCount(t *testing.T) {
	c, _ := newTestController(t)

	for _, count := range []string{"abc", "-1", "1.5"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/level/history?count="+count, http.NoBody)
		c.Echo.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "count=%s", count)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	c, p := newTestController(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/config", http.NoBody)
	c.Echo.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var dto configDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dto))
	assert.InDelta(t, 44100.0, dto.SampleRate, 0)

	// Install a new valid configuration through the API.
	dto.HistorySize = 2
	payload, err := json.Marshal(dto)
	require.NoError(t, err)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/api/v1/config", strings.NewReader(string(payload)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c.Echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, p.Config().HistorySize)
}

func TestUpdateConfig_RejectsInvalid(t *testing.T) {
	c, p := newTestController(t)
	before := p.Config()

	dto := toConfigDTO(before)
	dto.DBFloor = 0
	dto.DBCeiling = -10
	payload, err := json.Marshal(dto)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/config", strings.NewReader(string(payload)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c.Echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, before, p.Config(), "rejected update must not change configuration")
}

func TestReset(t *testing.T) {
	c, p := newTestController(t)
	feedChunks(t, p, 3)
	require.NotZero(t, p.CurrentLevel().RMSLinear)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reset", http.NoBody)
	c.Echo.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, p.CurrentLevel().RMSLinear)
	assert.Empty(t, p.History(0))
}

func TestStatusAndHealth(t *testing.T) {
	c, _ := newTestController(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/status", http.NoBody)
	c.Echo.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var status statusDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.Initialized)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	c.Echo.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
