package httpapi

import (
	"net/http"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/riskibarqy/fantasy-matchup/internal/platform/logging"
	"github.com/riskibarqy/fantasy-matchup/internal/usecase"
)

type Handler struct {
	authService    *usecase.AuthService
	accountService *usecase.AccountService
	matchupService *usecase.MatchupService
	cookie         *SessionCookie
	sanitizer      *bluemonday.Policy
	appOrigin      string
	logger         *logging.Logger
}

func NewHandler(
	authService *usecase.AuthService,
	accountService *usecase.AccountService,
	matchupService *usecase.MatchupService,
	cookie *SessionCookie,
	appOrigin string,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		authService:    authService,
		accountService: accountService,
		matchupService: matchupService,
		cookie:         cookie,
		sanitizer:      bluemonday.StrictPolicy(),
		appOrigin:      strings.TrimSpace(appOrigin),
		logger:         logger,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Health")
	defer span.End()

	writeJSON(ctx, w, http.StatusOK, map[string]bool{"ok": true})
}
