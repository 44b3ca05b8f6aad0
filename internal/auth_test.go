package internal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/oauth2"

	pkgerrs "github.com/ttraw/go-tiktok-api-wrapper/pkg/errors"
)

// memoryStore is a TokenStore backed by a field, with injectable failures.
type memoryStore struct {
	mu      sync.Mutex
	token   *oauth2.Token
	loadErr error
	saveErr error
	saves   int
}

func (s *memoryStore) Load() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.token == nil {
		return nil, errors.New("no token stored")
	}
	return s.token, nil
}

func (s *memoryStore) Save(tok *oauth2.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.token = tok
	return nil
}

// newTokenServer returns a token endpoint that counts exchanges and replies
// with the given handler.
func newTokenServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int64) {
	t.Helper()

	var exchanges atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		exchanges.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &exchanges
}

func tokenOK(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"access_token":"clt.fresh","expires_in":3600,"token_type":"Bearer"}`)
}

func newTestAuthenticator(t *testing.T, serverURL string, store TokenStore) *Authenticator {
	t.Helper()

	auth, err := NewAuthenticator(http.DefaultClient, "test-key", "test-secret", serverURL, "oauth/token/", store, nil)
	if err != nil {
		t.Fatalf("NewAuthenticator failed: %v", err)
	}
	return auth
}

func TestAuthenticateObtainsToken(t *testing.T) {
	t.Parallel()

	var gotForm map[string]string
	srv, exchanges := newTokenServer(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm failed: %v", err)
		}
		gotForm = map[string]string{
			"client_key":    r.PostFormValue("client_key"),
			"client_secret": r.PostFormValue("client_secret"),
			"grant_type":    r.PostFormValue("grant_type"),
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Content-Type = %q", ct)
		}
		if cc := r.Header.Get("Cache-Control"); cc != "no-cache" {
			t.Errorf("Cache-Control = %q", cc)
		}
		tokenOK(w, r)
	})

	auth := newTestAuthenticator(t, srv.URL, nil)

	before := time.Now()
	if err := auth.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	if got := exchanges.Load(); got != 1 {
		t.Errorf("exchanges = %d, want 1", got)
	}
	if gotForm["client_key"] != "test-key" || gotForm["client_secret"] != "test-secret" || gotForm["grant_type"] != "client_credentials" {
		t.Errorf("unexpected form data: %v", gotForm)
	}

	tok, err := auth.Token(context.Background())
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if tok != "clt.fresh" {
		t.Errorf("Token = %q, want clt.fresh", tok)
	}

	// Expiry should land close to now+3600s.
	if auth.token == nil {
		t.Fatal("no in-memory token after Authenticate")
	}
	wantExpiry := before.Add(3600 * time.Second)
	if diff := auth.token.Expiry.Sub(wantExpiry); diff < 0 || diff > 5*time.Second {
		t.Errorf("Expiry = %v, want about %v", auth.token.Expiry, wantExpiry)
	}
}

func TestTokenReusesValidToken(t *testing.T) {
	t.Parallel()

	srv, exchanges := newTokenServer(t, tokenOK)
	auth := newTestAuthenticator(t, srv.URL, nil)

	if err := auth.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := auth.Token(context.Background()); err != nil {
			t.Fatalf("Token failed: %v", err)
		}
	}

	if got := exchanges.Load(); got != 1 {
		t.Errorf("exchanges = %d, want 1 (valid token must be reused)", got)
	}
}

func TestTokenRefreshesNearExpiry(t *testing.T) {
	t.Parallel()

	srv, exchanges := newTokenServer(t, tokenOK)
	auth := newTestAuthenticator(t, srv.URL, nil)

	// A token inside the refresh margin must not be handed out.
	auth.token = &oauth2.Token{
		AccessToken: "clt.stale",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(30 * time.Second),
	}

	tok, err := auth.Token(context.Background())
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if tok != "clt.fresh" {
		t.Errorf("Token = %q, want refreshed clt.fresh", tok)
	}
	if got := exchanges.Load(); got != 1 {
		t.Errorf("exchanges = %d, want exactly 1 refresh", got)
	}
}

func TestAcquireRetriesAuthErrors(t *testing.T) {
	t.Parallel()

	srv, exchanges := newTokenServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":"invalid_client","error_description":"bad secret"}`)
	})
	auth := newTestAuthenticator(t, srv.URL, nil)

	err := auth.Authenticate(context.Background())
	if err == nil {
		t.Fatal("Authenticate succeeded against a failing endpoint")
	}

	var authErr *pkgerrs.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("error is %T, want *AuthError", err)
	}
	if authErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", authErr.StatusCode)
	}
	if got := exchanges.Load(); got != maxAcquireAttempts {
		t.Errorf("exchanges = %d, want %d attempts", got, maxAcquireAttempts)
	}
}

func TestAcquireSucceedsAfterTransientFailure(t *testing.T) {
	t.Parallel()

	var exchanges atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if exchanges.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		tokenOK(w, r)
	}))
	t.Cleanup(srv.Close)
	auth := newTestAuthenticator(t, srv.URL, nil)

	if err := auth.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if got := exchanges.Load(); got != 3 {
		t.Errorf("exchanges = %d, want 3", got)
	}
}

func TestExchangeErrorInSuccessBody(t *testing.T) {
	t.Parallel()

	srv, _ := newTokenServer(t, func(w http.ResponseWriter, _ *http.Request) {
		// 200 status, failure reported in the body.
		fmt.Fprint(w, `{"error":"invalid_request","error_description":"missing client_key"}`)
	})
	auth := newTestAuthenticator(t, srv.URL, nil)

	err := auth.Authenticate(context.Background())
	var authErr *pkgerrs.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("error is %T, want *AuthError", err)
	}
	if authErr.Message == "" {
		t.Error("AuthError.Message empty, want the body's error code")
	}
}

func TestExchangeEmptyAccessToken(t *testing.T) {
	t.Parallel()

	srv, _ := newTokenServer(t, func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"expires_in":3600,"token_type":"Bearer"}`)
	})
	auth := newTestAuthenticator(t, srv.URL, nil)

	err := auth.Authenticate(context.Background())
	var authErr *pkgerrs.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("error is %T, want *AuthError", err)
	}
}

func TestAcquireAdoptsStoredToken(t *testing.T) {
	t.Parallel()

	srv, exchanges := newTokenServer(t, tokenOK)
	store := &memoryStore{token: &oauth2.Token{
		AccessToken: "clt.stored",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}}
	auth := newTestAuthenticator(t, srv.URL, store)

	tok, err := auth.Token(context.Background())
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if tok != "clt.stored" {
		t.Errorf("Token = %q, want stored token", tok)
	}
	if got := exchanges.Load(); got != 0 {
		t.Errorf("exchanges = %d, want 0 (stored token must be adopted)", got)
	}
}

func TestAcquireSkipsExpiringStoredToken(t *testing.T) {
	t.Parallel()

	srv, exchanges := newTokenServer(t, tokenOK)
	store := &memoryStore{token: &oauth2.Token{
		AccessToken: "clt.stored",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(10 * time.Second),
	}}
	auth := newTestAuthenticator(t, srv.URL, store)

	tok, err := auth.Token(context.Background())
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if tok != "clt.fresh" {
		t.Errorf("Token = %q, want fresh token", tok)
	}
	if got := exchanges.Load(); got != 1 {
		t.Errorf("exchanges = %d, want 1", got)
	}
}

func TestAcquireFallsThroughCorruptStore(t *testing.T) {
	t.Parallel()

	srv, exchanges := newTokenServer(t, tokenOK)
	store := &memoryStore{loadErr: errors.New("invalid character 'n'")}
	auth := newTestAuthenticator(t, srv.URL, store)

	tok, err := auth.Token(context.Background())
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if tok != "clt.fresh" {
		t.Errorf("Token = %q, want fresh token", tok)
	}
	if got := exchanges.Load(); got != 1 {
		t.Errorf("exchanges = %d, want 1", got)
	}
	if store.token == nil || store.token.AccessToken != "clt.fresh" {
		t.Error("fresh token not persisted to store")
	}
}

func TestSaveFailureIsNonFatal(t *testing.T) {
	t.Parallel()

	srv, _ := newTokenServer(t, tokenOK)
	store := &memoryStore{loadErr: errors.New("no token stored"), saveErr: errors.New("disk full")}
	auth := newTestAuthenticator(t, srv.URL, store)

	tok, err := auth.Token(context.Background())
	if err != nil {
		t.Fatalf("Token failed despite save-only failure: %v", err)
	}
	if tok != "clt.fresh" {
		t.Errorf("Token = %q, want clt.fresh", tok)
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1 attempted", store.saves)
	}
}

func TestConcurrentTokenCoalesces(t *testing.T) {
	t.Parallel()

	srv, exchanges := newTokenServer(t, tokenOK)
	auth := newTestAuthenticator(t, srv.URL, nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := auth.Token(context.Background()); err != nil {
				t.Errorf("Token failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := exchanges.Load(); got != 1 {
		t.Errorf("exchanges = %d, want 1 (concurrent callers must share one exchange)", got)
	}
}

func TestAcquireStopsOnContextCancellation(t *testing.T) {
	t.Parallel()

	srv, exchanges := newTokenServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	auth := newTestAuthenticator(t, srv.URL, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := auth.Authenticate(ctx)
	if err == nil {
		t.Fatal("Authenticate succeeded with cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if got := exchanges.Load(); got > 1 {
		t.Errorf("exchanges = %d, want no retries after cancellation", got)
	}
}
