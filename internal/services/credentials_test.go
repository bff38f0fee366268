package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/sptx/internal/shared"
	"golang.org/x/oauth2"
)

func newTokenServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
		}
		if got := r.Form.Get("grant_type"); got != "refresh_token" {
			t.Errorf("expected refresh_token grant, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func testOAuthConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		Endpoint:     oauth2.Endpoint{TokenURL: tokenURL, AuthStyle: oauth2.AuthStyleInParams},
	}
}

func TestCredentialManager(t *testing.T) {
	t.Run("Token Without Credential", func(t *testing.T) {
		m := NewCredentialManager(testOAuthConfig("http://unused"), nil)
		if _, err := m.Token(); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Fatalf("expected ErrNotAuthenticated, got %v", err)
		}
		if m.NeedsRefresh(time.Now()) {
			t.Fatal("expected no refresh without a credential")
		}
	})

	t.Run("Expiry Margin", func(t *testing.T) {
		expiry := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		m := NewCredentialManager(testOAuthConfig("http://unused"), &oauth2.Token{
			AccessToken: "a", RefreshToken: "r", Expiry: expiry,
		})

		want := expiry.Add(-10 * time.Second)
		if got := m.Current().Expiry; !got.Equal(want) {
			t.Fatalf("expected expiry %v, got %v", want, got)
		}
		if m.NeedsRefresh(want.Add(-time.Second)) {
			t.Fatal("expected no refresh before the margin")
		}
		if !m.NeedsRefresh(want) {
			t.Fatal("expected refresh at the margin")
		}
	})

	t.Run("Refresh Success", func(t *testing.T) {
		srv, calls := newTokenServer(t, http.StatusOK,
			`{"access_token":"fresh","token_type":"Bearer","expires_in":3600}`)

		m := NewCredentialManager(testOAuthConfig(srv.URL), &oauth2.Token{
			AccessToken: "stale", RefreshToken: "r1", Expiry: time.Now().Add(-time.Minute),
		})

		var persisted *oauth2.Token
		m.SetRefreshCallback(func(tok *oauth2.Token) { persisted = tok })

		before := time.Now()
		cred, err := m.Refresh(context.Background())
		after := time.Now()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if calls.Load() != 1 {
			t.Fatalf("expected 1 token request, got %d", calls.Load())
		}
		if cred.Token.AccessToken != "fresh" {
			t.Fatalf("expected fresh token, got %q", cred.Token.AccessToken)
		}
		if cred.Token.RefreshToken != "r1" {
			t.Fatalf("expected refresh token to carry over, got %q", cred.Token.RefreshToken)
		}

		low := before.Add(time.Hour - 10*time.Second - time.Second)
		high := after.Add(time.Hour - 10*time.Second + time.Second)
		if cred.Expiry.Before(low) || cred.Expiry.After(high) {
			t.Fatalf("expected expiry near an hour minus margin, got %v", cred.Expiry)
		}

		tok, err := m.Token()
		if err != nil || tok.AccessToken != "fresh" {
			t.Fatalf("expected manager to serve the fresh token, got %v (%v)", tok, err)
		}
		if persisted == nil || persisted.AccessToken != "fresh" {
			t.Fatal("expected refresh callback to receive the fresh token")
		}
	})

	t.Run("Refresh Failure Keeps Credential", func(t *testing.T) {
		srv, _ := newTokenServer(t, http.StatusBadRequest, `{"error":"invalid_grant"}`)

		m := NewCredentialManager(testOAuthConfig(srv.URL), &oauth2.Token{
			AccessToken: "stale", RefreshToken: "r1", Expiry: time.Now().Add(-time.Minute),
		})
		m.SetRefreshCallback(func(*oauth2.Token) { t.Error("callback should not run on failure") })

		_, err := m.Refresh(context.Background())
		if !errors.Is(err, shared.ErrRefreshFailed) {
			t.Fatalf("expected ErrRefreshFailed, got %v", err)
		}
		if tok, _ := m.Token(); tok.AccessToken != "stale" {
			t.Fatalf("expected stale token to remain, got %q", tok.AccessToken)
		}
	})

	t.Run("Refresh Without Refresh Token", func(t *testing.T) {
		m := NewCredentialManager(testOAuthConfig("http://unused"), &oauth2.Token{AccessToken: "a"})
		if _, err := m.Refresh(context.Background()); !errors.Is(err, shared.ErrNoRefreshToken) {
			t.Fatalf("expected ErrNoRefreshToken, got %v", err)
		}
	})
}
