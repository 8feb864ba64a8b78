//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"sistema-tareas/internal/config"
	"sistema-tareas/internal/handler"
	"sistema-tareas/internal/middleware"
	"sistema-tareas/internal/model"
	"sistema-tareas/internal/router"
	"sistema-tareas/internal/service"
	"sistema-tareas/internal/storage"
)

const (
	adminNombre   = "admin"
	adminPassword = "Admin123!"
)

func testConfig() *config.Config {
	return &config.Config{
		ServerPort:         "8080",
		ServerReadTimeout:  15 * time.Second,
		ServerWriteTimeout: 30 * time.Second,
		ServerIdleTimeout:  120 * time.Second,
		RequestTimeout:     30 * time.Second,
		JWTIssuer:          "sistema-tareas",
		JWTAudience:        "sistema-tareas-api",
		JWTAccessTTL:       30 * time.Minute,
		JWTRefreshTTL:      168 * time.Hour,
		CORSOrigins:        []string{"*"},
		RateLimitRPM:       1000,
		AuthRateLimitRPM:   1000,
		LogFormat:          "pretty",
		LogLevel:           "error",
	}
}

// newServer wires the full REST stack over temp data files and seeds the
// admin account used by the suite.
func newServer(t *testing.T, cfg *config.Config) (*httptest.Server, *service.GestorSistema) {
	t.Helper()

	dataDir := t.TempDir()
	cfg.UsuariosFile = filepath.Join(dataDir, "usuarios.json")
	cfg.TareasFile = filepath.Join(dataDir, "tareas.json")
	cfg.FinalizadasFile = filepath.Join(dataDir, "tareas_finalizadas.jsonl")

	store, err := storage.New(cfg.UsuariosFile, cfg.TareasFile, cfg.FinalizadasFile)
	require.NoError(t, err)

	keys, err := service.NewKeyManager()
	require.NoError(t, err)
	tokens := service.NewTokenService(keys, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	gestor := service.NewGestorSistema(store)

	_, err = gestor.CrearAdmin(adminNombre, adminPassword)
	require.NoError(t, err)

	authMiddleware := middleware.NewAuthMiddleware(tokens)
	authHandler := handler.NewAuthHandler(gestor, tokens)
	usuarioHandler := handler.NewUsuarioHandler(gestor)
	tareaHandler := handler.NewTareaHandler(gestor)
	statsHandler := handler.NewStatsHandler(gestor)

	server := httptest.NewServer(router.New(cfg, authMiddleware, authHandler, usuarioHandler, tareaHandler, statsHandler))
	t.Cleanup(server.Close)

	return server, gestor
}

// newAuthedServer starts a server and logs in as the seeded admin.
func newAuthedServer(t *testing.T) (*httptest.Server, *service.GestorSistema, string, string) {
	t.Helper()

	server, gestor := newServer(t, testConfig())
	accessToken, refreshToken := login(t, server, adminNombre, adminPassword)

	return server, gestor, accessToken, refreshToken
}

func login(t *testing.T, server *httptest.Server, nombre string, password string) (string, string) {
	t.Helper()

	resp, err := http.Post(server.URL+"/api/v1/auth/login", "application/json",
		bytes.NewReader(jsonBody(t, model.LoginRequest{Nombre: nombre, Password: password})))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed struct {
		Success bool            `json:"success"`
		Data    model.TokenPair `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	require.True(t, parsed.Success)
	require.NotEmpty(t, parsed.Data.AccessToken)
	require.NotEmpty(t, parsed.Data.RefreshToken)

	return parsed.Data.AccessToken, parsed.Data.RefreshToken
}

func jsonBody(t *testing.T, v any) []byte {
	t.Helper()

	body, err := json.Marshal(v)
	require.NoError(t, err)
	return body
}

// newRequest builds a request with optional JSON body and bearer token.
func newRequest(t *testing.T, method string, url string, body []byte, accessToken string) *http.Request {
	t.Helper()

	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
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

type apiResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *model.APIError `json:"error"`
	Meta    *model.Meta     `json:"meta"`
}

func decodeResponse(t *testing.T, resp *http.Response) apiResponse {
	t.Helper()

	var parsed apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))

	return parsed
}
