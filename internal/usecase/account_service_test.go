package usecase

import (
	"context"
	"errors"
	"testing"

	usecasemock "github.com/riskibarqy/fantasy-matchup/internal/mocks/usecase"
	"github.com/stretchr/testify/mock"
)

func TestAccountService_Me_ReturnsRawDocument(t *testing.T) {
	t.Parallel()

	provider := usecasemock.NewProviderFetcher(t)
	raw := []byte(`{"fantasy_content":{"users":{"count":1}}}`)
	provider.On("FetchRaw", mock.Anything, "T", "/users;use_login=1").Return(raw, nil).Once()

	got, err := NewAccountService(provider).Me(context.Background(), "T")
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if string(got) != string(raw) {
		t.Fatalf("document must pass through unchanged: %s", got)
	}
}

func TestAccountService_Me_PropagatesFailure(t *testing.T) {
	t.Parallel()

	provider := usecasemock.NewProviderFetcher(t)
	upstream := errors.New("status 401")
	provider.On("FetchRaw", mock.Anything, "T", "/users;use_login=1").Return(nil, upstream).Once()

	_, err := NewAccountService(provider).Me(context.Background(), "T")
	if !errors.Is(err, upstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
}
