package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	pkgerrs "github.com/ttraw/go-tiktok-api-wrapper/pkg/errors"
)

const (
	defaultTokenEndpointPath = "oauth/token/"

	// tokenRefreshMargin is the minimum remaining lifetime a token must have
	// to be handed out without a refresh.
	tokenRefreshMargin = 60 * time.Second

	// maxAcquireAttempts bounds how often a failed token acquisition is
	// retried before the AuthError is surfaced.
	maxAcquireAttempts = 5
)

// Authenticator owns the client-credentials token lifecycle: acquisition,
// disk-backed caching via a TokenStore, expiry-aware refresh and
// retry-on-failure. It is the only component that mutates the credential
// record; everyone else reads it through Token.
type Authenticator struct {
	client   *http.Client
	tokenURL *url.URL
	formData url.Values
	store    TokenStore
	logger   *log.Logger

	// mu makes read-decide-refresh-write atomic: concurrent callers that
	// arrive during a refresh block on the lock and then observe the
	// refreshed token instead of issuing parallel exchanges.
	mu    sync.Mutex
	token *oauth2.Token
}

// NewAuthenticator creates an authenticator for the client-credentials
// grant. The tokenPath parameter can be empty to use the default token
// endpoint. A nil store disables token persistence; a nil logger silences
// diagnostics.
func NewAuthenticator(httpClient *http.Client, clientKey, clientSecret, authURL, tokenPath string, store TokenStore, logger *log.Logger) (*Authenticator, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	parsedURL, err := url.Parse(authURL)
	if err != nil {
		return nil, &pkgerrs.AuthError{Err: fmt.Errorf("failed to parse auth URL: %w", err)}
	}
	if !strings.HasSuffix(parsedURL.Path, "/") {
		parsedURL.Path += "/"
	}

	if tokenPath == "" {
		tokenPath = defaultTokenEndpointPath
	}

	resolvedTokenURL, err := parsedURL.Parse(tokenPath)
	if err != nil {
		return nil, &pkgerrs.AuthError{Err: fmt.Errorf("failed to parse token endpoint path: %w", err)}
	}

	// Prepare form data upfront
	form := url.Values{}
	form.Set("client_key", clientKey)
	form.Set("client_secret", clientSecret)
	form.Set("grant_type", "client_credentials")

	return &Authenticator{
		client:   httpClient,
		tokenURL: resolvedTokenURL,
		formData: form,
		store:    store,
		logger:   logger,
	}, nil
}

// tokenResponse is the body of a successful token exchange. The token
// endpoint reports failures through the error field, sometimes on a 200
// status.
type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	ExpiresIn        int64  `json:"expires_in"`
	TokenType        string `json:"token_type"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Authenticate acquires the initial token. It adopts a stored token whose
// remaining lifetime exceeds the refresh margin, otherwise performs a
// network exchange and persists the result.
func (a *Authenticator) Authenticate(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.acquire(ctx)
}

// Token returns a currently-valid bearer token string, refreshing
// synchronously when the cached token's time-to-expiry drops below the
// safety margin.
func (a *Authenticator) Token(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.valid() {
		return a.token.AccessToken, nil
	}

	if err := a.acquire(ctx); err != nil {
		return "", err
	}
	return a.token.AccessToken, nil
}

// valid reports whether the in-memory token can still be handed out.
// Callers must hold mu.
func (a *Authenticator) valid() bool {
	return a.token != nil && time.Until(a.token.Expiry) > tokenRefreshMargin
}

// acquire runs the full acquisition flow with retries. Only AuthError is
// retried; anything else (context cancellation, programming errors) is
// returned immediately. The store is re-checked on every attempt, matching
// the retry wrapping of the original flow. Callers must hold mu.
func (a *Authenticator) acquire(ctx context.Context) error {
	var lastErr error

	for attempt := 1; attempt <= maxAcquireAttempts; attempt++ {
		if a.token == nil && a.store != nil {
			if tok, err := a.store.Load(); err != nil {
				// Corrupt or missing cache falls through to the exchange.
				a.logger.Debug("no usable stored token", "err", err)
			} else if time.Until(tok.Expiry) > tokenRefreshMargin {
				a.logger.Info("access token loaded from store")
				a.token = tok
				return nil
			}
		}

		tok, err := a.exchange(ctx)
		if err != nil {
			var authErr *pkgerrs.AuthError
			if !errors.As(err, &authErr) {
				return err
			}
			lastErr = err
			a.logger.Warn("token exchange failed", "attempt", attempt, "err", err)
			continue
		}

		a.token = tok
		a.persist(tok)
		return nil
	}

	return lastErr
}

// persist writes the token to the store. Failure leaves the in-memory token
// valid; the next process start simply re-authenticates over the network.
func (a *Authenticator) persist(tok *oauth2.Token) {
	if a.store == nil {
		return
	}
	if err := a.store.Save(tok); err != nil {
		a.logger.Error("failed to save token to store", "err", err)
		return
	}
	a.logger.Info("access token saved to store")
}

// exchange performs the network token exchange against the provider's token
// endpoint using the client-credentials grant.
func (a *Authenticator) exchange(ctx context.Context) (*oauth2.Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL.String(), strings.NewReader(a.formData.Encode()))
	if err != nil {
		return nil, &pkgerrs.AuthError{Err: fmt.Errorf("failed to create token request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := a.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &pkgerrs.AuthError{Err: fmt.Errorf("failed to execute token request: %w", err)}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &pkgerrs.AuthError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to read token response body: %w", err),
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &pkgerrs.AuthError{
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
		}
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(bodyBytes, &tokenResp); err != nil {
		return nil, &pkgerrs.AuthError{
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
			Err:        fmt.Errorf("failed to unmarshal token response: %w", err),
		}
	}

	// The endpoint reports failures in the body on an otherwise 200 status.
	if tokenResp.Error != "" {
		return nil, &pkgerrs.AuthError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("failed to obtain access token: %s", tokenResp.Error),
			Body:       tokenResp.ErrorDescription,
		}
	}

	if tokenResp.AccessToken == "" {
		return nil, &pkgerrs.AuthError{
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
			Message:    "access token was empty in response",
		}
	}

	a.logger.Info("access token obtained", "expires_in", tokenResp.ExpiresIn)

	return &oauth2.Token{
		AccessToken: tokenResp.AccessToken,
		TokenType:   tokenResp.TokenType,
		Expiry:      time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second),
	}, nil
}
