package yahoo

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/fantasy-matchup/internal/usecase"
)

// ProviderError is a non-2xx answer from the Fantasy API. The response body
// is logged where it is received and deliberately kept out of the error.
type ProviderError struct {
	StatusCode int
	Path       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("yahoo api %s: status %d", e.Path, e.StatusCode)
}

func (e *ProviderError) UpstreamStatus() int {
	return e.StatusCode
}

// Temporary reports whether the failure is worth counting against the
// circuit breaker. Auth and request errors are the caller's problem.
func (e *ProviderError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

const reasonMissingAccessToken = "missing access_token"

// TokenExchangeError is a rejected or unusable token endpoint response.
type TokenExchangeError struct {
	StatusCode int
	Reason     string
}

// Unwrap exposes usecase.ErrNoAccessToken for a 2xx answer without a token.
func (e *TokenExchangeError) Unwrap() error {
	if e.Reason == reasonMissingAccessToken {
		return usecase.ErrNoAccessToken
	}
	return nil
}

func (e *TokenExchangeError) Error() string {
	return fmt.Sprintf("token exchange failed: status %d: %s", e.StatusCode, e.Reason)
}

func (e *TokenExchangeError) UpstreamStatus() int {
	return e.StatusCode
}
