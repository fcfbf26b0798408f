package authsdk_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/edura/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestSDKClient(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var req authsdk.RegisterRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Username == "taken@x.com" {
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(authsdk.ErrorResponse{Error: "Username already exists."})
			return
		}
		_ = json.NewEncoder(w).Encode(authsdk.RegisterResponse{ID: "1", Username: req.Username, FullName: req.FullName})
	})
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(authsdk.LoginResponse{
			Token: "tok",
			User:  authsdk.UserView{ID: "1", Username: "a@x.com", Role: "user", Status: "active"},
		})
	})
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("nope"))
			return
		}
		_ = json.NewEncoder(w).Encode(authsdk.UserView{ID: "1", Username: "a@x.com"})
	})
	mux.HandleFunc("POST /api/auth/forgot-password", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(authsdk.MessageResponse{Message: "sent"})
	})
	mux.HandleFunc("GET /livez", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(authsdk.HealthResponse{Status: "ok"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	ctx := context.Background()
	client := authsdk.NewSDKClient(srv.URL + "/")

	t.Run("register", func(t *testing.T) {
		out, err := client.Register(ctx, authsdk.RegisterRequest{Username: "a@x.com", Password: "p", FullName: "A B"})
		require.NoError(t, err)
		require.Equal(t, "a@x.com", out.Username)
		require.Equal(t, "A B", out.FullName)
	})

	t.Run("register conflict", func(t *testing.T) {
		_, err := client.Register(ctx, authsdk.RegisterRequest{Username: "taken@x.com", Password: "p", FullName: "A"})
		require.True(t, authsdk.IsStatus(err, http.StatusConflict))

		var apiErr *authsdk.APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, "Username already exists.", apiErr.Message)
	})

	t.Run("login and me", func(t *testing.T) {
		login, err := client.Login(ctx, authsdk.LoginRequest{Username: "a@x.com", Password: "p"})
		require.NoError(t, err)
		require.Equal(t, "tok", login.Token)

		me, err := client.Me(ctx, login.Token)
		require.NoError(t, err)
		require.Equal(t, "1", me.ID)
	})

	t.Run("non json error body", func(t *testing.T) {
		_, err := client.Me(ctx, "wrong")
		var apiErr *authsdk.APIError
		require.True(t, errors.As(err, &apiErr))
		require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		require.Equal(t, "nope", apiErr.Message)
	})

	t.Run("forgot password", func(t *testing.T) {
		out, err := client.ForgotPassword(ctx, authsdk.ForgotPasswordRequest{Email: "a@x.com"})
		require.NoError(t, err)
		require.Equal(t, "sent", out.Message)
	})

	t.Run("liveness", func(t *testing.T) {
		health, err := client.GetLiveness(ctx)
		require.NoError(t, err)
		require.Equal(t, "ok", health.Status)
	})
}
