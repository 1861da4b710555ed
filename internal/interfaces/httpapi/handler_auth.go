package httpapi

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/riskibarqy/fantasy-matchup/internal/usecase"
)

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Login")
	defer span.End()

	target, err := h.authService.LoginURL(ctx)
	if err != nil {
		if errors.Is(err, usecase.ErrMisconfigured) {
			h.logger.ErrorContext(ctx, "oauth login misconfigured", "error", err)
			writeText(ctx, w, http.StatusInternalServerError, textMisconfigured)
			return
		}
		h.logger.ErrorContext(ctx, "oauth login failed", "error", err)
		writeText(ctx, w, http.StatusInternalServerError, textLoginException)
		return
	}

	http.Redirect(w, r.WithContext(ctx), target, http.StatusFound)
}

// Callback finishes the authorization-code flow. Every failure, panics
// included, is answered here so a malformed callback never escapes.
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Callback")
	defer span.End()

	defer func() {
		if rec := recover(); rec != nil {
			h.logger.ErrorContext(ctx, "oauth callback panic", "panic", fmt.Sprint(rec))
			writeText(ctx, w, http.StatusBadGateway, textCallbackException)
		}
	}()

	query := r.URL.Query()
	if providerErr := query.Get("error"); providerErr != "" {
		description := query.Get("error_description")
		h.logger.WarnContext(ctx, "oauth provider rejected authorization",
			"error", providerErr,
			"error_description", description,
		)
		message := fmt.Sprintf("Yahoo error: %s - %s", providerErr, description)
		// Markup is stripped; entities are decoded back since the body is plain text.
		writeText(ctx, w, http.StatusBadRequest, html.UnescapeString(h.sanitizer.Sanitize(message)))
		return
	}

	code := strings.TrimSpace(query.Get("code"))
	if code == "" {
		h.logger.WarnContext(ctx, "oauth callback missing code")
		writeText(ctx, w, http.StatusBadRequest, textMissingCode)
		return
	}

	created, err := h.authService.CompleteLogin(ctx, code)
	if err != nil {
		h.writeCallbackError(ctx, w, err)
		return
	}

	if err := h.cookie.Issue(w, created.ID); err != nil {
		h.logger.ErrorContext(ctx, "issue session cookie failed", "error", err)
		writeText(ctx, w, http.StatusBadGateway, textCallbackException)
		return
	}

	target := h.appOrigin
	if target == "" {
		target = "/"
	}
	http.Redirect(w, r.WithContext(ctx), target, http.StatusFound)
}

func (h *Handler) writeCallbackError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrMisconfigured):
		h.logger.ErrorContext(ctx, "oauth callback misconfigured", "error", err)
		writeText(ctx, w, http.StatusInternalServerError, textMisconfigured)
	case errors.Is(err, usecase.ErrInvalidInput):
		writeText(ctx, w, http.StatusBadRequest, textMissingCode)
	default:
		if status, ok := usecase.UpstreamStatus(err); ok {
			h.logger.WarnContext(ctx, "oauth token exchange failed", "status_code", status, "error", err)
			writeText(ctx, w, http.StatusBadGateway, fmt.Sprintf(textTokenExchangeFailed, status))
			return
		}
		h.logger.ErrorContext(ctx, "oauth callback failed", "error", err)
		writeText(ctx, w, http.StatusBadGateway, textCallbackException)
	}
}
