package usecase

import (
	"context"

	"github.com/riskibarqy/fantasy-matchup/internal/platform/jsonnode"
	"golang.org/x/oauth2"
)

// ProviderFetcher reads resources from the Yahoo Fantasy API on behalf of a
// user access token.
type ProviderFetcher interface {
	Fetch(ctx context.Context, accessToken, path string) (jsonnode.Node, error)
	FetchRaw(ctx context.Context, accessToken, path string) ([]byte, error)
}

// AuthorizationProvider drives the OAuth2 authorization-code flow.
type AuthorizationProvider interface {
	AuthCodeURL(ctx context.Context) (string, error)
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
}

// ResultRecorder counts business outcomes; a nil recorder is allowed.
type ResultRecorder interface {
	ObserveTokenExchange(outcome string)
	ObserveMatchupLookup(result string)
}
