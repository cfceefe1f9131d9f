//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"evidence-tracker/internal/config"
	"evidence-tracker/internal/event"
	"evidence-tracker/internal/handler"
	"evidence-tracker/internal/middleware"
	"evidence-tracker/internal/model"
	"evidence-tracker/internal/router"
	"evidence-tracker/internal/service"
	"evidence-tracker/internal/websocket"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		ServerPort:       "4000",
		RequestTimeout:   30 * time.Second,
		JWTSecret:        "test-secret",
		TokenTTL:         time.Hour,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     10000,
		AuthRateLimitRPM: 10000,
		MaxUploadSize:    5 * 1024 * 1024,
	}

	bus := event.NewBus()
	hub := websocket.NewHub(bus)
	go hub.Run()

	authService, err := service.NewAuthService(cfg.JWTSecret, cfg.TokenTTL, bus)
	require.NoError(t, err)
	require.NoError(t, authService.SeedDemoUsers())

	evidenceService := service.NewEvidenceService(bus)
	evidenceService.SeedDemoEvidence()

	authMiddleware := middleware.NewAuthMiddleware(authService)

	server := httptest.NewServer(router.New(cfg, authMiddleware, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		User:     handler.NewUserHandler(authService),
		Evidence: handler.NewEvidenceHandler(evidenceService, cfg.MaxUploadSize),
	}, hub, prometheus.NewRegistry()))
	t.Cleanup(server.Close)

	return server
}

func login(t *testing.T, server *httptest.Server, username string, password string) (string, model.UserInfo) {
	t.Helper()

	payload, err := json.Marshal(map[string]string{"username": username, "password": password})
	require.NoError(t, err)

	resp, err := http.Post(server.URL+"/api/v1/auth/login", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed struct {
		Success bool `json:"success"`
		Data    struct {
			Token string         `json:"token"`
			User  model.UserInfo `json:"user"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	require.True(t, parsed.Success)
	require.NotEmpty(t, parsed.Data.Token)

	return parsed.Data.Token, parsed.Data.User
}

func newAuthRequest(t *testing.T, method string, url string, body []byte, token string) *http.Request {
	t.Helper()

	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req
}

func doRequest(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func decodeData(t *testing.T, resp *http.Response, out any) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.True(t, envelope.Success)
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()

	var envelope struct {
		Success bool `json:"success"`
		Error   *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)

	return envelope.Error.Code
}
