package controllers

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"
	"vtlink/internal/models"
	"vtlink/internal/services"
	"vtlink/internal/structures"
	"vtlink/internal/testutil"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHealthController(t *testing.T) (*HealthController, services.MappingServiceInterface) {
	dir := t.TempDir()
	conf := &structures.Config{
		Store: structures.StoreConfig{
			BilibiliDir:  filepath.Join(dir, "bilibili"),
			YoutubeDir:   filepath.Join(dir, "youtube"),
			Level1Length: 2,
			Level2Length: 2,
			HashLength:   8,
		},
	}
	logger := &testutil.MockLogger{}
	stores, err := services.NewStores(conf, logger)
	require.NoError(t, err)
	service := services.NewMappingService(stores, logger)
	return NewHealthController(service), service
}

func TestHealth_ReportsServiceState(t *testing.T) {
	hc, service := newTestHealthController(t)
	require.NoError(t, service.SaveMappings([]*models.Mapping{
		{BilibiliUID: "1", YoutubeChannelID: "UCa", Level: 1, VerifiedBy: models.VerifiedByAuto},
	}))
	_, err := service.SubmitTicket(&models.SubmissionRequest{
		BilibiliUID:      "2",
		YoutubeChannelID: "UCb",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	hc.Health(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, float64(1), resp["mappings"])
	assert.Equal(t, float64(1), resp["pending_tickets"])
	assert.Equal(t, false, resp["cold_start"])
	assert.GreaterOrEqual(t, resp["uptime_seconds"], float64(0))
}

func TestHealth_RejectsNonGet(t *testing.T) {
	hc, _ := newTestHealthController(t)

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	w := httptest.NewRecorder()
	hc.Health(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0h0m0s", formatDuration(0))
	assert.Equal(t, "1h1m5s", formatDuration(time.Hour+time.Minute+5*time.Second))
	assert.Equal(t, "25h0m1s", formatDuration(25*time.Hour+time.Second))
}
