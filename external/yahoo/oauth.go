package yahoo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/fantasy-matchup/internal/platform/jsonnode"
	"github.com/riskibarqy/fantasy-matchup/internal/platform/logging"
	"github.com/riskibarqy/fantasy-matchup/internal/usecase"
	"golang.org/x/oauth2"
)

const (
	DefaultAuthURL  = "https://api.login.yahoo.com/oauth2/request_auth"
	DefaultTokenURL = "https://api.login.yahoo.com/oauth2/get_token"
	DefaultScope    = "fspt-r"
)

type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	AuthURL      string
	TokenURL     string
	Scope        string
	HTTPClient   *http.Client
	Timeout      time.Duration
	Logger       *logging.Logger
}

// OAuth builds Yahoo authorize redirects and exchanges authorization codes.
// Missing credentials are reported when a flow starts, never at startup.
type OAuth struct {
	config     oauth2.Config
	httpClient *http.Client
	timeout    time.Duration
	logger     *logging.Logger
	validator  *validator.Validate
	now        func() time.Time
}

type credentials struct {
	ClientID     string `env:"YAHOO_CLIENT_ID" validate:"required"`
	ClientSecret string `env:"YAHOO_CLIENT_SECRET" validate:"required"`
	RedirectURL  string `env:"YAHOO_REDIRECT_URI" validate:"required"`
}

func NewOAuth(cfg OAuthConfig) *OAuth {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	scope := strings.TrimSpace(cfg.Scope)
	if scope == "" {
		scope = DefaultScope
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return field.Tag.Get("env")
	})

	return &OAuth{
		config: oauth2.Config{
			ClientID:     strings.TrimSpace(cfg.ClientID),
			ClientSecret: strings.TrimSpace(cfg.ClientSecret),
			RedirectURL:  strings.TrimSpace(cfg.RedirectURL),
			Scopes:       []string{scope},
			Endpoint: oauth2.Endpoint{
				AuthURL:   firstNonEmpty(cfg.AuthURL, DefaultAuthURL),
				TokenURL:  firstNonEmpty(cfg.TokenURL, DefaultTokenURL),
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		httpClient: httpClient,
		timeout:    timeout,
		logger:     logger,
		validator:  v,
		now:        time.Now,
	}
}

// AuthCodeURL returns the provider authorize URL carrying client_id,
// redirect_uri, response_type=code, scope and language=en-us.
func (o *OAuth) AuthCodeURL(ctx context.Context) (string, error) {
	if err := o.checkCredentials(ctx); err != nil {
		return "", err
	}
	return o.config.AuthCodeURL("", oauth2.SetAuthURLParam("language", "en-us")), nil
}

// Exchange trades an authorization code for tokens. Expiry stays zero when
// the provider does not report expires_in.
func (o *OAuth) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	if err := o.checkCredentials(ctx); err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: missing code", usecase.ErrInvalidInput)
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("redirect_uri", o.config.RedirectURL)
	form.Set("code", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.config.Endpoint.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, crerr.Wrap(err, "build token request")
	}
	req.SetBasicAuth(o.config.ClientID, o.config.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, crerr.Wrap(err, "send token request")
	}
	defer resp.Body.Close()

	raw, err := readBody(resp.Body)
	if err != nil {
		return nil, crerr.Wrap(err, "read token response")
	}
	body := parseTokenBody(raw)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		o.logger.WarnContext(ctx, "yahoo token exchange rejected",
			"status_code", resp.StatusCode,
			"body", abbreviateBody(raw),
			"json", body.parsed,
		)
		return nil, &TokenExchangeError{StatusCode: resp.StatusCode, Reason: "non-success status"}
	}

	accessToken := body.text("access_token")
	if accessToken == "" {
		args := []any{"status_code", resp.StatusCode, "json", body.parsed}
		if !body.parsed {
			args = append(args, "body", abbreviateBody(raw))
		}
		o.logger.WarnContext(ctx, "yahoo token response missing access_token", args...)
		return nil, &TokenExchangeError{StatusCode: resp.StatusCode, Reason: reasonMissingAccessToken}
	}

	token := &oauth2.Token{
		AccessToken:  accessToken,
		TokenType:    body.text("token_type"),
		RefreshToken: body.text("refresh_token"),
	}
	if expiresIn, ok := body.node.Field("expires_in").Int(); ok && expiresIn > 0 {
		token.Expiry = o.now().Add(time.Duration(expiresIn) * time.Second)
	}

	return token, nil
}

func (o *OAuth) checkCredentials(ctx context.Context) error {
	err := o.validator.StructCtx(ctx, credentials{
		ClientID:     o.config.ClientID,
		ClientSecret: o.config.ClientSecret,
		RedirectURL:  o.config.RedirectURL,
	})
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: validate oauth settings: %v", usecase.ErrMisconfigured, err)
	}
	missing := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		missing = append(missing, fieldErr.Field())
	}
	return fmt.Errorf("%w: missing %s", usecase.ErrMisconfigured, strings.Join(missing, ", "))
}

// tokenBody is the token endpoint response. Bodies that are not JSON still
// produce a value so callers can log them.
type tokenBody struct {
	node   jsonnode.Node
	parsed bool
}

func parseTokenBody(raw []byte) tokenBody {
	node, err := jsonnode.Parse(raw)
	if err != nil {
		return tokenBody{}
	}
	return tokenBody{node: node, parsed: true}
}

func (b tokenBody) text(key string) string {
	return strings.TrimSpace(b.node.Field(key).String())
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if v := strings.TrimSpace(value); v != "" {
			return v
		}
	}
	return ""
}
