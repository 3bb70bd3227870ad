package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/origintrust/linkage-service/config"
	"github.com/origintrust/linkage-service/internal/did"
	"github.com/origintrust/linkage-service/internal/keyaccess"
	"github.com/origintrust/linkage-service/pkg/server/router"
	"github.com/origintrust/linkage-service/pkg/service/linkage"
	"github.com/origintrust/linkage-service/pkg/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	boltDB, err := storage.NewBoltDBWithFile(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, boltDB.Close())
	})

	service, err := linkage.NewService(did.NewStaticResolver(), boltDB)
	require.NoError(t, err)

	cfg := config.LinkageServiceConfig{
		Server: config.ServerConfig{
			Environment: config.EnvironmentTest,
			APIHost:     "0.0.0.0:0",
		},
		Services: config.ServicesConfig{
			ServiceEndpoint: "http://localhost:3000",
		},
	}

	shutdown := make(chan os.Signal, 1)
	testServer, err := NewServer(shutdown, cfg, service, keyaccess.NewSignerRegistry())
	require.NoError(t, err)
	return testServer
}

func TestServerRoutes(t *testing.T) {
	testServer := newTestServer(t)

	t.Run("health", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, HealthPrefix, nil)
		w := httptest.NewRecorder()
		testServer.Handler.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var response router.GetHealthCheckResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
		assert.Equal(t, router.HealthOK, response.Status)
	})

	t.Run("readiness", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, ReadinessPrefix, nil)
		w := httptest.NewRecorder()
		testServer.Handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("well-known location with nothing published", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, WellKnownDIDConfigurationPath, nil)
		w := httptest.NewRecorder()
		testServer.Handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("create linkage requires a well-formed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, V1Prefix+LinkagesPrefix, nil)
		w := httptest.NewRecorder()
		testServer.Handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("verify linkage requires a well-formed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, V1Prefix+LinkagesPrefix+VerificationPath, nil)
		w := httptest.NewRecorder()
		testServer.Handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
