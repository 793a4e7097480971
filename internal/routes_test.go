package internal

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"vtlink/internal/controllers"
	"vtlink/internal/services"
	"vtlink/internal/structures"
	"vtlink/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func routesTestController(t *testing.T) (*controllers.ApiController, *structures.Config) {
	dir := t.TempDir()
	conf := &structures.Config{
		Store: structures.StoreConfig{
			BilibiliDir:  filepath.Join(dir, "bilibili"),
			YoutubeDir:   filepath.Join(dir, "youtube"),
			Level1Length: 2,
			Level2Length: 2,
			HashLength:   8,
		},
		Submission: structures.SubmissionConfig{HourlyLimit: 10},
	}
	logger := &testutil.MockLogger{}
	stores, err := services.NewStores(conf, logger)
	require.NoError(t, err)
	service := services.NewMappingService(stores, logger)
	return controllers.NewApiController(conf, logger, service, &testutil.MockCache{}, &testutil.MockMetrics{}), conf
}

func TestInitRoutes_RegistersAllRoutes(t *testing.T) {
	ac, conf := routesTestController(t)

	router := InitRoutes(ac, conf)
	routes := router.GetRoutes()

	require.Len(t, routes, 3)

	urls := make([]string, len(routes))
	for i, r := range routes {
		urls[i] = r.Url
	}

	assert.Contains(t, urls, "/submit")
	assert.Contains(t, urls, "/mapping")
	assert.Contains(t, urls, "/unlink")
}

func TestInitRoutes_MethodEnforcement(t *testing.T) {
	ac, conf := routesTestController(t)

	router := InitRoutes(ac, conf)
	routes := router.GetRoutes()

	mux := http.NewServeMux()
	for _, r := range routes {
		mux.Handle(r.Url, r.Handler)
	}

	// POST /submit with GET should fail
	req := httptest.NewRequest(http.MethodGet, "/submit", nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	// GET /mapping with POST should fail
	req = httptest.NewRequest(http.MethodPost, "/mapping", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)

	// DELETE /unlink with GET should fail
	req = httptest.NewRequest(http.MethodGet, "/unlink", nil)
	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
