// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/playforge/playforge/internal/auth"
	"github.com/playforge/playforge/internal/config"
	"github.com/playforge/playforge/internal/models"
)

func TestRequestIDGenerated(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("request ID missing from context")
	}
	if got := rec.Header().Get("X-Request-ID"); got != seen {
		t.Fatalf("header %q != context %q", got, seen)
	}
}

func TestRequestIDHonorsUpstream(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "upstream-id")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "upstream-id" {
		t.Fatalf("request ID = %q, want upstream-id", seen)
	}
}

func TestPrometheusMetricsPassesThrough(t *testing.T) {
	handler := PrometheusMetrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics-test", nil))

	if rec.Code != http.StatusTeapot {
		t.Fatalf("status = %d, want 418", rec.Code)
	}
}

func newJWT(t *testing.T) *auth.JWTManager {
	t.Helper()
	manager, err := auth.NewJWTManager(&config.SecurityConfig{
		JWTSecret:      "0123456789abcdef0123456789abcdef",
		SessionTimeout: time.Hour,
	})
	if err != nil {
		t.Fatalf("new jwt manager: %v", err)
	}
	return manager
}

func TestAdminJWTRejectsMissingToken(t *testing.T) {
	handler := AdminJWT(newJWT(t))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler reached without token")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/users", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAdminJWTRejectsNonAdminRole(t *testing.T) {
	manager := newJWT(t)
	token, err := manager.GenerateToken("viewer", "viewer")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	handler := AdminJWT(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler reached with non-admin role")
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestAdminJWTAcceptsAdmin(t *testing.T) {
	manager := newJWT(t)
	token, err := manager.GenerateToken("root", models.RoleAdmin)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	var claims *auth.Claims
	handler := AdminJWT(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims = GetClaims(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if claims == nil || claims.Username != "root" {
		t.Fatalf("claims = %+v", claims)
	}
}
