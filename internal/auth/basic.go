// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/playforge/playforge/internal/config"
)

// ErrInvalidCredentials is returned for any credential mismatch. The same
// error covers unknown username and wrong password so responses leak
// nothing about which part failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// CredentialChecker verifies admin login credentials against the configured
// username and bcrypt password hash.
type CredentialChecker struct {
	username     string
	passwordHash []byte
}

// NewCredentialChecker builds a checker from the security configuration.
func NewCredentialChecker(cfg *config.SecurityConfig) (*CredentialChecker, error) {
	if cfg.AdminUsername == "" || cfg.AdminPasswordHash == "" {
		return nil, errors.New("admin username and password hash must be configured")
	}

	// Fail fast on a malformed hash rather than at first login.
	if _, err := bcrypt.Cost([]byte(cfg.AdminPasswordHash)); err != nil {
		return nil, errors.New("admin password hash is not a valid bcrypt hash")
	}

	return &CredentialChecker{
		username:     cfg.AdminUsername,
		passwordHash: []byte(cfg.AdminPasswordHash),
	}, nil
}

// Verify checks a username/password pair. Username comparison is constant
// time; bcrypt comparison runs regardless of the username result so timing
// does not reveal whether the username matched.
func (c *CredentialChecker) Verify(username, password string) error {
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.username)) == 1
	passwordErr := bcrypt.CompareHashAndPassword(c.passwordHash, []byte(password))

	if !usernameOK || passwordErr != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// HashPassword produces a bcrypt hash for provisioning admin credentials.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
