// Indicium - Business Intelligence Analytics and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/indicium

// Package auth provides HTTP Basic Authentication for the API. The dashboard
// supports two modes: "none" for local development and "basic" for single
// admin deployments.
package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BasicAuthManager handles HTTP Basic Authentication with secure password
// verification. The password is bcrypt-hashed once at construction.
type BasicAuthManager struct {
	username     string
	passwordHash []byte
}

// NewBasicAuthManager creates a Basic Auth manager.
func NewBasicAuthManager(username, password string) (*BasicAuthManager, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	// Cost factor 12 balances security against per-request latency.
	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return &BasicAuthManager{
		username:     username,
		passwordHash: hash,
	}, nil
}

// ValidateCredentials validates an Authorization header value.
// Returns the username if valid.
func (m *BasicAuthManager) ValidateCredentials(authHeader string) (string, error) {
	if !strings.HasPrefix(authHeader, "Basic ") {
		return "", fmt.Errorf("invalid authorization header format")
	}

	encodedCredentials := strings.TrimPrefix(authHeader, "Basic ")
	credentials, err := base64.StdEncoding.DecodeString(encodedCredentials)
	if err != nil {
		return "", fmt.Errorf("failed to decode credentials")
	}

	parts := strings.SplitN(string(credentials), ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid credentials format")
	}

	providedUsername := parts[0]
	providedPassword := parts[1]

	if !m.validateUsernamePassword(providedUsername, providedPassword) {
		return "", fmt.Errorf("invalid username or password")
	}

	return providedUsername, nil
}

// validateUsernamePassword compares credentials in constant time.
func (m *BasicAuthManager) validateUsernamePassword(username, password string) bool {
	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(m.username)) == 1

	// bcrypt.CompareHashAndPassword is timing-safe by design.
	passwordMatch := bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password)) == nil

	return usernameMatch && passwordMatch
}

// GetWWWAuthenticateHeader returns the WWW-Authenticate value sent with
// 401 responses.
func (m *BasicAuthManager) GetWWWAuthenticateHeader() string {
	return `Basic realm="Indicium", charset="UTF-8"`
}

// Middleware enforces Basic auth on wrapped handlers. A nil manager
// disables enforcement, matching auth mode "none".
func Middleware(manager *BasicAuthManager, onUnauthorized func(w http.ResponseWriter, r *http.Request)) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		if manager == nil {
			return next
		}
		return func(w http.ResponseWriter, r *http.Request) {
			if _, err := manager.ValidateCredentials(r.Header.Get("Authorization")); err != nil {
				w.Header().Set("WWW-Authenticate", manager.GetWWWAuthenticateHeader())
				onUnauthorized(w, r)
				return
			}
			next(w, r)
		}
	}
}
