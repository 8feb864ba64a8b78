//go:build integration

package integration

import (
	"bytes"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"sistema-tareas/internal/model"
)

func TestSecurityHeadersOnResponses(t *testing.T) {
	server, _, accessToken, _ := newAuthedServer(t)

	resp := doRequest(t, newRequest(t, http.MethodGet, server.URL+"/api/v1/tareas", nil, accessToken))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	require.Equal(t, "no-referrer", resp.Header.Get("Referrer-Policy"))
	require.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestHealthIsPublic(t *testing.T) {
	server, _ := newServer(t, testConfig())

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "ok", string(body))
}

func TestAuthRateLimitReturns429(t *testing.T) {
	cfg := testConfig()
	cfg.AuthRateLimitRPM = 2
	server, _ := newServer(t, cfg)

	payload := jsonBody(t, model.LoginRequest{Nombre: adminNombre, Password: adminPassword})

	for attempt := 0; attempt < 2; attempt++ {
		resp, reqErr := http.Post(server.URL+"/api/v1/auth/login", "application/json", bytes.NewReader(payload))
		require.NoError(t, reqErr)
		_ = resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := http.Post(server.URL+"/api/v1/auth/login", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get("Retry-After"))
}

// Login responses must never leak the stored password hash.
func TestLoginResponseOmitsHash(t *testing.T) {
	server, _, _, _ := newAuthedServer(t)

	resp, err := http.Post(server.URL+"/api/v1/auth/login", "application/json",
		bytes.NewReader(jsonBody(t, model.LoginRequest{Nombre: adminNombre, Password: adminPassword})))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NotContains(t, string(body), "password_hash")
	require.NotContains(t, string(body), "$2a$")
}
