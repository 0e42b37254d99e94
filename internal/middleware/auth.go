// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/playforge/playforge/internal/auth"
	"github.com/playforge/playforge/internal/models"
)

// ClaimsKey holds the validated admin claims in the request context.
const ClaimsKey contextKey = "claims"

// AdminJWT rejects requests without a valid Bearer token carrying the
// admin role. Validated claims are stored in the request context.
func AdminJWT(manager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				unauthorized(w, "missing bearer token")
				return
			}

			claims, err := manager.ValidateToken(token)
			if err != nil {
				unauthorized(w, "invalid token")
				return
			}
			if claims.Role != models.RoleAdmin {
				forbidden(w)
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims extracts validated claims from context, nil when absent.
func GetClaims(ctx context.Context) *auth.Claims {
	if claims, ok := ctx.Value(ClaimsKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}

func unauthorized(w http.ResponseWriter, message string) {
	writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

func forbidden(w http.ResponseWriter) {
	writeAuthError(w, http.StatusForbidden, "FORBIDDEN", "admin role required")
}

func writeAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.APIResponse{
		Success: false,
		Error:   &models.APIError{Code: code, Message: message},
	})
}
