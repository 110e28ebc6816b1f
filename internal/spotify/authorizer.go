package spotify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/teemow/spotauth/internal/instrumentation"
	"github.com/teemow/spotauth/internal/logging"
	"github.com/teemow/spotauth/internal/tokencache"
)

// Endpoint holds the authorization and token endpoint URLs. Overridable so
// tests can point the authorizer at an httptest server.
type Endpoint struct {
	AuthURL  string
	TokenURL string
}

// AccountsEndpoint is the Spotify Accounts service.
var AccountsEndpoint = Endpoint{
	AuthURL:  "https://accounts.spotify.com/authorize",
	TokenURL: "https://accounts.spotify.com/api/token",
}

// expiryMargin is subtracted from the remaining token lifetime when checking
// staleness so a token cannot expire mid-use right after the check passes.
const expiryMargin = 30 * time.Second

// defaultHTTPTimeout bounds token endpoint requests when no custom HTTP
// client is provided.
const defaultHTTPTimeout = 30 * time.Second

// Config holds the immutable configuration for an Authorizer.
type Config struct {
	// ClientID and ClientSecret are the Spotify application credentials.
	ClientID     string
	ClientSecret string

	// RedirectURI is the registered callback URL of the application.
	RedirectURI string

	// Scope is the space-separated list of requested scopes.
	Scope string

	// CacheFile is the path of the JSON token cache.
	CacheFile string

	// Endpoint overrides the Spotify Accounts endpoints. Zero value means
	// AccountsEndpoint.
	Endpoint Endpoint

	// HTTPClient is a custom HTTP client for token endpoint requests.
	// If nil, a client with a 30 second timeout is used.
	HTTPClient *http.Client

	// Logger for structured logging (optional, uses slog.Default if nil).
	Logger *slog.Logger

	// Metrics is the instrumentation recorder (optional, nil disables
	// metric recording).
	Metrics *instrumentation.Metrics
}

// Authorizer drives the OAuth2 authorization code flow and keeps the token
// cache current. All operations are synchronous: each issues at most one HTTP
// request and one cache write. There are no retries; a failed token endpoint
// call surfaces as *AuthError.
type Authorizer struct {
	cfg     Config
	cache   *tokencache.Store
	client  *http.Client
	logger  *slog.Logger
	metrics *instrumentation.Metrics

	// now is swappable for staleness tests.
	now func() time.Time
}

// NewAuthorizer creates an Authorizer from the given configuration.
func NewAuthorizer(cfg Config) *Authorizer {
	if cfg.Endpoint.AuthURL == "" {
		cfg.Endpoint.AuthURL = AccountsEndpoint.AuthURL
	}
	if cfg.Endpoint.TokenURL == "" {
		cfg.Endpoint.TokenURL = AccountsEndpoint.TokenURL
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Authorizer{
		cfg:     cfg,
		cache:   tokencache.New(cfg.CacheFile),
		client:  client,
		logger:  logger,
		metrics: cfg.Metrics,
		now:     time.Now,
	}
}

// AuthCodeURL returns the URL the user must visit to authorize the
// application. Pure string construction, no side effects.
func (a *Authorizer) AuthCodeURL() string {
	params := url.Values{
		"client_id":     {a.cfg.ClientID},
		"response_type": {"code"},
		"redirect_uri":  {a.cfg.RedirectURI},
		"scope":         {a.cfg.Scope},
	}
	return a.cfg.Endpoint.AuthURL + "?" + params.Encode()
}

// Exchange trades an authorization code for a token pair, persists the
// result to the cache and returns it.
func (a *Authorizer) Exchange(ctx context.Context, code string) (*Token, error) {
	form := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {a.cfg.RedirectURI},
	}
	return a.tokenRequest(ctx, "authorization_code", form, "")
}

// Refresh obtains a new access token using the given refresh token and
// persists the result, replacing the previous cache entry wholesale.
//
// Spotify may omit refresh_token from a refresh response; in that case the
// refresh token that was just used stays in the saved record, so a single
// grant keeps working across any number of refreshes.
func (a *Authorizer) Refresh(ctx context.Context, refreshToken string) (*Token, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}
	return a.tokenRequest(ctx, "refresh_token", form, refreshToken)
}

// Credentials returns the cached token, refreshing it first when it is about
// to expire. A missing or unreadable cache is not an error: it returns
// (nil, false, nil) and the caller is expected to start the authorization
// flow. Only a failed refresh surfaces as an error.
func (a *Authorizer) Credentials(ctx context.Context) (*Token, bool, error) {
	var token Token
	status := a.cache.Read(&token)
	a.recordCacheRead(ctx, status)

	switch status {
	case tokencache.NoCache:
		a.logger.Debug("no cached token", "cache", a.cache.Path())
		return nil, false, nil
	case tokencache.Corrupt:
		// Not first-run absence: somebody wrote garbage to the cache.
		// Still soft-fail, but make it visible.
		a.logger.Warn("token cache is corrupt, re-authorization required",
			"cache", a.cache.Path())
		return nil, false, nil
	}

	if !a.expired(token.ExpiresAt) {
		return &token, true, nil
	}

	a.logger.Info("access token is expired, refreshing",
		slog.String(logging.KeyGrantType, "refresh_token"))
	refreshed, err := a.Refresh(ctx, token.RefreshToken)
	if err != nil {
		return nil, false, err
	}
	return refreshed, true, nil
}

// Cached returns the raw cache entry without touching the network, along
// with the read status. Used for status reporting.
func (a *Authorizer) Cached() (*Token, tokencache.Status) {
	var token Token
	status := a.cache.Read(&token)
	if status != tokencache.Valid {
		return nil, status
	}
	return &token, status
}

// CacheFile returns the path of the token cache.
func (a *Authorizer) CacheFile() string {
	return a.cache.Path()
}

// expired reports whether a token with the given expiry timestamp should be
// considered stale. The margin guards against the token expiring mid-use
// right after this check passes.
func (a *Authorizer) expired(expiresAt int64) bool {
	return a.now().Add(expiryMargin).Unix() > expiresAt
}

// tokenRequest posts a form to the token endpoint with HTTP basic client
// authentication, stamps the expiry on the response and saves it to the
// cache. prevRefreshToken, when non-empty, is kept if the response omits a
// new refresh token.
func (a *Authorizer) tokenRequest(ctx context.Context, grantType string, form url.Values, prevRefreshToken string) (*Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.Endpoint.TokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &AuthError{Op: grantType, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Basic "+a.basicAuth())

	start := a.now()
	resp, err := a.client.Do(req)
	if err != nil {
		a.recordTokenRequest(ctx, grantType, instrumentation.ResultError, a.now().Sub(start))
		return nil, &AuthError{Op: grantType, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		a.recordTokenRequest(ctx, grantType, instrumentation.ResultError, a.now().Sub(start))
		return nil, &AuthError{
			Op:         grantType,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("token endpoint returned %s", resp.Status),
		}
	}

	var token Token
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		a.recordTokenRequest(ctx, grantType, instrumentation.ResultError, a.now().Sub(start))
		return nil, &AuthError{Op: grantType, StatusCode: resp.StatusCode,
			Err: fmt.Errorf("failed to decode token response: %w", err)}
	}
	if token.AccessToken == "" {
		a.recordTokenRequest(ctx, grantType, instrumentation.ResultError, a.now().Sub(start))
		return nil, &AuthError{Op: grantType, StatusCode: resp.StatusCode,
			Err: fmt.Errorf("token response contains no access_token")}
	}
	a.recordTokenRequest(ctx, grantType, instrumentation.ResultSuccess, a.now().Sub(start))

	if token.RefreshToken == "" {
		token.RefreshToken = prevRefreshToken
	}
	token.ExpiresAt = a.now().Unix() + token.ExpiresIn

	if err := a.cache.Write(&token); err != nil {
		return nil, fmt.Errorf("failed to save token: %w", err)
	}

	a.logger.Debug("saved token",
		slog.String(logging.KeyGrantType, grantType),
		slog.String("token", logging.SanitizeToken(token.AccessToken)),
		slog.Time("expires_at", time.Unix(token.ExpiresAt, 0)))

	return &token, nil
}

func (a *Authorizer) basicAuth() string {
	return base64.StdEncoding.EncodeToString([]byte(a.cfg.ClientID + ":" + a.cfg.ClientSecret))
}

func (a *Authorizer) recordTokenRequest(ctx context.Context, grantType, result string, d time.Duration) {
	if a.metrics != nil {
		a.metrics.RecordTokenRequest(ctx, grantType, result, d)
	}
}

func (a *Authorizer) recordCacheRead(ctx context.Context, status tokencache.Status) {
	if a.metrics != nil {
		a.metrics.RecordCacheRead(ctx, status.String())
	}
}

// TokenSource returns an oauth2.TokenSource backed by the cache. The source
// refreshes through this Authorizer, not through the oauth2 package, so the
// cache file stays authoritative.
func (a *Authorizer) TokenSource(ctx context.Context) oauth2.TokenSource {
	return &cacheTokenSource{ctx: ctx, authorizer: a}
}

// HTTPClient returns an *http.Client that authenticates requests with the
// cached access token. Returns an error when no credentials are cached yet.
func (a *Authorizer) HTTPClient(ctx context.Context) (*http.Client, error) {
	if _, ok, err := a.Credentials(ctx); err != nil {
		return nil, err
	} else if !ok {
		return nil, fmt.Errorf("no cached credentials, run the authorization flow first")
	}
	return oauth2.NewClient(ctx, a.TokenSource(ctx)), nil
}

// cacheTokenSource adapts Authorizer.Credentials to oauth2.TokenSource.
type cacheTokenSource struct {
	ctx        context.Context
	authorizer *Authorizer
}

func (s *cacheTokenSource) Token() (*oauth2.Token, error) {
	token, ok, err := s.authorizer.Credentials(s.ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no cached credentials")
	}
	return token.OAuth2(), nil
}
