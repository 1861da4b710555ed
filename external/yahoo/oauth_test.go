package yahoo

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/fantasy-matchup/internal/usecase"
)

func newTestOAuth(tokenURL string, client *http.Client) *OAuth {
	return NewOAuth(OAuthConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "https://api.example.com/auth/callback",
		TokenURL:     tokenURL,
		HTTPClient:   client,
		Timeout:      2 * time.Second,
	})
}

func TestOAuthAuthCodeURL_CarriesRequiredParams(t *testing.T) {
	t.Parallel()

	o := newTestOAuth("", nil)
	raw, err := o.AuthCodeURL(context.Background())
	if err != nil {
		t.Fatalf("auth code url: %v", err)
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if got := parsed.Scheme + "://" + parsed.Host + parsed.Path; got != DefaultAuthURL {
		t.Fatalf("unexpected authorize endpoint: %s", got)
	}

	query := parsed.Query()
	want := map[string]string{
		"client_id":     "client-id",
		"redirect_uri":  "https://api.example.com/auth/callback",
		"response_type": "code",
		"language":      "en-us",
		"scope":         DefaultScope,
	}
	for key, value := range want {
		if got := query.Get(key); got != value {
			t.Fatalf("query %s=%q want=%q", key, got, value)
		}
	}
}

func TestOAuth_MissingCredentialsIsMisconfiguration(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	o := NewOAuth(OAuthConfig{ClientID: "client-id", TokenURL: srv.URL, HTTPClient: srv.Client()})

	_, err := o.AuthCodeURL(context.Background())
	if !errors.Is(err, usecase.ErrMisconfigured) {
		t.Fatalf("expected ErrMisconfigured, got %v", err)
	}
	if got := err.Error(); got != "service misconfigured: missing YAHOO_CLIENT_SECRET, YAHOO_REDIRECT_URI" {
		t.Fatalf("unexpected error message: %q", got)
	}

	if _, err := o.Exchange(context.Background(), "ABC123"); !errors.Is(err, usecase.ErrMisconfigured) {
		t.Fatalf("expected ErrMisconfigured on exchange, got %v", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("provider must not be contacted when misconfigured")
	}
}

func TestOAuthExchange_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/x-www-form-urlencoded" {
			t.Errorf("unexpected content type: %s", got)
		}
		wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("client-id:client-secret"))
		if got := r.Header.Get("Authorization"); got != wantAuth {
			t.Errorf("unexpected authorization: %s", got)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "authorization_code" {
			t.Errorf("unexpected grant_type: %s", got)
		}
		if got := r.PostForm.Get("code"); got != "ABC123" {
			t.Errorf("unexpected code: %s", got)
		}
		if got := r.PostForm.Get("redirect_uri"); got != "https://api.example.com/auth/callback" {
			t.Errorf("unexpected redirect_uri: %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"T","refresh_token":"R","expires_in":1000,"token_type":"bearer"}`))
	}))
	defer srv.Close()

	o := newTestOAuth(srv.URL, srv.Client())
	now := time.Date(2025, 9, 7, 12, 0, 0, 0, time.UTC)
	o.now = func() time.Time { return now }

	token, err := o.Exchange(context.Background(), "ABC123")
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if token.AccessToken != "T" || token.RefreshToken != "R" {
		t.Fatalf("unexpected token: %+v", token)
	}
	if !token.Expiry.Equal(now.Add(1000 * time.Second)) {
		t.Fatalf("unexpected expiry: %s", token.Expiry)
	}
}

func TestOAuthExchange_MissingExpiresInLeavesExpiryZero(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"access_token":"T"}`))
	}))
	defer srv.Close()

	token, err := newTestOAuth(srv.URL, srv.Client()).Exchange(context.Background(), "ABC123")
	if err != nil {
		t.Fatalf("exchange: %v", err)
	}
	if !token.Expiry.IsZero() {
		t.Fatalf("expected zero expiry, got %s", token.Expiry)
	}
}

func TestOAuthExchange_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantReason string
	}{
		{name: "bad request", status: http.StatusBadRequest, body: `{"error":"invalid_grant"}`, wantStatus: 400, wantReason: "non-success status"},
		{name: "non json error", status: http.StatusInternalServerError, body: "upstream exploded", wantStatus: 500, wantReason: "non-success status"},
		{name: "missing access token", status: http.StatusOK, body: `{"refresh_token":"R"}`, wantStatus: 200, wantReason: "missing access_token"},
		{name: "non json success", status: http.StatusOK, body: "access_token=T", wantStatus: 200, wantReason: "missing access_token"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := newTestOAuth(srv.URL, srv.Client()).Exchange(context.Background(), "ABC123")
			var exchangeErr *TokenExchangeError
			if !errors.As(err, &exchangeErr) {
				t.Fatalf("expected TokenExchangeError, got %v", err)
			}
			if exchangeErr.StatusCode != tt.wantStatus || exchangeErr.Reason != tt.wantReason {
				t.Fatalf("unexpected error: %+v", exchangeErr)
			}
			if got, want := errors.Is(err, usecase.ErrNoAccessToken), tt.wantReason == "missing access_token"; got != want {
				t.Fatalf("errors.Is(ErrNoAccessToken)=%v want=%v", got, want)
			}
		})
	}
}

func TestOAuthExchange_RequiresCode(t *testing.T) {
	t.Parallel()

	_, err := newTestOAuth("http://127.0.0.1:0", nil).Exchange(context.Background(), " ")
	if !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
