// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/playforge/playforge/internal/config"
	"github.com/playforge/playforge/internal/models"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestManager(t *testing.T, timeout time.Duration) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(&config.SecurityConfig{
		JWTSecret:      testSecret,
		SessionTimeout: timeout,
	})
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	return m
}

func TestGenerateValidateToken(t *testing.T) {
	m := newTestManager(t, time.Hour)

	token, err := m.GenerateToken("admin", models.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Username != "admin" || claims.Role != models.RoleAdmin {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestValidateExpiredToken(t *testing.T) {
	m := newTestManager(t, -time.Minute)

	token, err := m.GenerateToken("admin", models.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.ValidateToken(token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestValidateTamperedToken(t *testing.T) {
	m := newTestManager(t, time.Hour)

	token, err := m.GenerateToken("admin", models.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}

	// Flip a character in the signature segment.
	parts := strings.Split(token, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := m.ValidateToken(tampered); err == nil {
		t.Fatal("expected tampered token to be rejected")
	}
}

func TestValidateWrongSecret(t *testing.T) {
	m := newTestManager(t, time.Hour)
	other := newTestManager(t, time.Hour)
	other.secret = []byte("ffffffffffffffffffffffffffffffff")

	token, err := m.GenerateToken("admin", models.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("expected token signed with different secret to be rejected")
	}
}

func TestCredentialChecker(t *testing.T) {
	hash, err := HashPassword("hunter2!")
	if err != nil {
		t.Fatal(err)
	}

	checker, err := NewCredentialChecker(&config.SecurityConfig{
		AdminUsername:     "admin",
		AdminPasswordHash: hash,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := checker.Verify("admin", "hunter2!"); err != nil {
		t.Fatalf("valid credentials rejected: %v", err)
	}
	if err := checker.Verify("admin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if err := checker.Verify("root", "hunter2!"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCredentialCheckerRejectsBadHash(t *testing.T) {
	_, err := NewCredentialChecker(&config.SecurityConfig{
		AdminUsername:     "admin",
		AdminPasswordHash: "plaintext-password",
	})
	if err == nil {
		t.Fatal("expected malformed hash to be rejected")
	}
}
