package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/fantasy-matchup/internal/domain/matchup"
	"github.com/riskibarqy/fantasy-matchup/internal/usecase"
)

const (
	codeNotAuthed           = "not_authed"
	codeMeFailed            = "me_failed"
	codeMatchupFailed       = "matchup_failed"
	codeNoTeam              = "no_team"
	codeNoUpcomingMatchup   = "no_upcoming_matchup"
	codeInternalError       = "internal_error"
	textMisconfigured       = "Server misconfigured: missing Yahoo env vars"
	textMissingCode         = "Missing code"
	textCallbackException   = "Auth callback exception"
	textLoginException      = "Auth login exception"
	textTooManyRequests     = "Too many requests"
	textTokenExchangeFailed = "Token exchange failed: %d"
)

type errorBody struct {
	Error string `json:"error"`
}

type mappedError struct {
	HTTPStatus int
	Code       string
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

// writeRawJSON forwards an already encoded document untouched.
func writeRawJSON(ctx context.Context, w http.ResponseWriter, status int, raw []byte) {
	_, span := startSpan(ctx, "httpapi.writeRawJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(raw)
}

func writeErrorCode(ctx context.Context, w http.ResponseWriter, status int, code string) {
	ctx, span := startSpan(ctx, "httpapi.writeErrorCode")
	defer span.End()

	writeJSON(ctx, w, status, errorBody{Error: code})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error, fallbackCode string) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(ctx, err, fallbackCode)
	writeErrorCode(ctx, w, mapped.HTTPStatus, mapped.Code)
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeErrorCode(ctx, w, http.StatusInternalServerError, codeInternalError)
}

// writeText answers the browser-facing auth routes, which speak plain text.
func writeText(ctx context.Context, w http.ResponseWriter, status int, body string) {
	_, span := startSpan(ctx, "httpapi.writeText")
	defer span.End()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// mapError resolves the status for an API route failure. Anything that is
// not a known domain outcome becomes a 500 carrying fallbackCode.
func mapError(ctx context.Context, err error, fallbackCode string) mappedError {
	_, span := startSpan(ctx, "httpapi.mapError")
	defer span.End()

	switch {
	case errors.Is(err, matchup.ErrNoTeam):
		return mappedError{HTTPStatus: http.StatusNotFound, Code: codeNoTeam}
	case errors.Is(err, matchup.ErrNoUpcomingMatchup):
		return mappedError{HTTPStatus: http.StatusNotFound, Code: codeNoUpcomingMatchup}
	case errors.Is(err, usecase.ErrUnauthorized):
		return mappedError{HTTPStatus: http.StatusUnauthorized, Code: codeNotAuthed}
	default:
		return mappedError{HTTPStatus: http.StatusInternalServerError, Code: fallbackCode}
	}
}
