package httpapi

import (
	"net/http"
)

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Me")
	defer span.End()

	current, ok := sessionFromContext(ctx)
	if !ok || !current.Authenticated() {
		writeErrorCode(ctx, w, http.StatusUnauthorized, codeNotAuthed)
		return
	}

	raw, err := h.accountService.Me(ctx, current.Token)
	if err != nil {
		h.logger.ErrorContext(ctx, "fetch current user failed", "error", err)
		writeError(ctx, w, err, codeMeFailed)
		return
	}

	writeRawJSON(ctx, w, http.StatusOK, raw)
}

func (h *Handler) NextMatchup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.NextMatchup")
	defer span.End()

	current, ok := sessionFromContext(ctx)
	if !ok || !current.Authenticated() {
		writeErrorCode(ctx, w, http.StatusUnauthorized, codeNotAuthed)
		return
	}

	next, err := h.matchupService.NextMatchup(ctx, current.Token)
	if err != nil {
		mapped := mapError(ctx, err, codeMatchupFailed)
		if mapped.HTTPStatus >= http.StatusInternalServerError {
			h.logger.ErrorContext(ctx, "resolve next matchup failed", "error", err)
		} else {
			h.logger.InfoContext(ctx, "next matchup not available", "reason", mapped.Code)
		}
		writeErrorCode(ctx, w, mapped.HTTPStatus, mapped.Code)
		return
	}

	writeJSON(ctx, w, http.StatusOK, next)
}
