package usecase

import (
	"context"
	"fmt"
)

const currentUserPath = "/users;use_login=1"

type AccountService struct {
	provider ProviderFetcher
}

func NewAccountService(provider ProviderFetcher) *AccountService {
	return &AccountService{provider: provider}
}

// Me returns the provider's profile document for the caller unchanged.
func (s *AccountService) Me(ctx context.Context, accessToken string) ([]byte, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AccountService.Me")
	defer span.End()

	raw, err := s.provider.FetchRaw(ctx, accessToken, currentUserPath)
	if err != nil {
		return nil, fmt.Errorf("fetch current user: %w", err)
	}
	return raw, nil
}
