// Playforge - Gamified Community Platform
// Copyright 2026 Playforge Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/playforge/playforge

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/playforge/playforge/internal/database"
	"github.com/playforge/playforge/internal/games"
	"github.com/playforge/playforge/internal/logging"
	"github.com/playforge/playforge/internal/models"
	"github.com/playforge/playforge/internal/validation"
)

// sanitizeLogValue strips control characters so request-supplied strings
// cannot forge log entries.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends the standard envelope. Mutation responses must never be
// cached by intermediaries.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondCached sends a successful envelope for the shared read endpoints,
// with edge cache headers and a weak ETag. maxAge is capped so a browser
// never holds a response longer than the server-side cache would.
func respondCached(w http.ResponseWriter, data interface{}, maxAge time.Duration, start time.Time) {
	response := &models.APIResponse{
		Success: true,
		Data:    data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	}

	body, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	seconds := int(maxAge.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	if seconds > 60 {
		seconds = 60
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", seconds))
	w.Header().Set("Vary", "Accept-Encoding")
	w.Header().Set("ETag", generateETag(body))

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondData sends a successful envelope without cache headers.
func respondData(w http.ResponseWriter, status int, data interface{}, start time.Time) {
	respondJSON(w, status, &models.APIResponse{
		Success: true,
		Data:    data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// generateETag creates a weak validator from the body using FNV-1a.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// respondError sends an error envelope and logs the underlying error.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", sanitizeLogValue(code)).Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Success: false,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// respondDomainError maps sentinel errors from the storage and game layers to
// stable HTTP statuses and error codes. Anything unmapped is a 500.
func respondDomainError(w http.ResponseWriter, err error) {
	for _, m := range domainErrorTable {
		if errors.Is(err, m.err) {
			respondError(w, m.status, m.code, m.message, nil)
			return
		}
	}
	respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", err)
}

var domainErrorTable = []struct {
	err     error
	status  int
	code    string
	message string
}{
	{database.ErrNotFound, http.StatusNotFound, "NOT_FOUND", "Resource not found"},
	{database.ErrInsufficientPoints, http.StatusConflict, "INSUFFICIENT_POINTS", "Not enough points"},
	{database.ErrNoSpinsLeft, http.StatusConflict, "NO_SPINS_LEFT", "No spins left today"},
	{database.ErrOutOfStock, http.StatusConflict, "OUT_OF_STOCK", "Item is out of stock"},
	{database.ErrLimitReached, http.StatusConflict, "LIMIT_REACHED", "Per-user purchase limit reached"},
	{database.ErrAlreadyClaimed, http.StatusConflict, "ALREADY_CLAIMED", "Task already claimed"},
	{database.ErrPromoExhausted, http.StatusConflict, "PROMO_EXHAUSTED", "Promocode has no uses left"},
	{database.ErrPromoExpired, http.StatusConflict, "PROMO_EXPIRED", "Promocode has expired"},
	{database.ErrPromoRedeemed, http.StatusConflict, "PROMO_REDEEMED", "Promocode already redeemed"},
	{database.ErrEventNotOpen, http.StatusConflict, "EVENT_NOT_OPEN", "Ticket event is not open"},
	{database.ErrEventNotClosed, http.StatusConflict, "EVENT_NOT_CLOSED", "Ticket event must be closed before the draw"},
	{database.ErrNoTicketsSold, http.StatusConflict, "NO_TICKETS_SOLD", "No tickets were sold for this event"},
	{database.ErrRoundSettled, http.StatusConflict, "ROUND_SETTLED", "Round is already settled"},
	{games.ErrGamesDisabled, http.StatusServiceUnavailable, "GAMES_DISABLED", "Mini-games are disabled"},
	{games.ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMITED", "Too many rounds, slow down"},
	{games.ErrBetOutOfRange, http.StatusBadRequest, "BET_OUT_OF_RANGE", "Bet is outside the allowed range"},
	{games.ErrRoundNotFound, http.StatusNotFound, "ROUND_NOT_FOUND", "Round not found or already finished"},
	{games.ErrNotYourRound, http.StatusForbidden, "NOT_YOUR_ROUND", "Round belongs to another user"},
	{games.ErrCellRevealed, http.StatusBadRequest, "CELL_REVEALED", "Cell was already revealed"},
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes, or a models.APIError if it fails.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// decodeBody decodes a JSON request body into v and validates it. Responds
// with 400 and returns false on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Request body is not valid JSON", err)
		return false
	}
	if apiErr := validateRequest(v); apiErr != nil {
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Success:  false,
			Metadata: models.Metadata{Timestamp: time.Now()},
			Error:    apiErr,
		})
		return false
	}
	return true
}

// getIntParam extracts an integer query parameter with a default value.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// getInt64Param extracts an int64 query parameter with a default value.
func getInt64Param(r *http.Request, key string, defaultValue int64) int64 {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}

	return intValue
}

// pathID extracts the {id} URL parameter. Responds with 400 and returns
// false when it is missing or not numeric.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		respondError(w, http.StatusBadRequest, "INVALID_ID", "URL id must be a positive integer", nil)
		return 0, false
	}
	return id, true
}

// paging clamps limit/offset query parameters to the configured bounds.
func (h *Handler) paging(r *http.Request) (limit, offset int) {
	limit = getIntParam(r, "limit", h.cfg.API.DefaultPageSize)
	if limit < 1 {
		limit = h.cfg.API.DefaultPageSize
	}
	if limit > h.cfg.API.MaxPageSize {
		limit = h.cfg.API.MaxPageSize
	}
	offset = getIntParam(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
