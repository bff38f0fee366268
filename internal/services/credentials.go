package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/sptx/internal/shared"
	"golang.org/x/oauth2"
)

// expiryMargin is subtracted from the token lifetime so requests never race the real expiry.
const expiryMargin = 10 * time.Second

// Credential is the access token in use and the instant it should be treated as expired.
type Credential struct {
	Token  *oauth2.Token
	Expiry time.Time
}

// Valid reports whether the credential carries an access token that has not reached its expiry at now.
func (c Credential) Valid(now time.Time) bool {
	return c.Token != nil && c.Token.AccessToken != "" && now.Before(c.Expiry)
}

// CredentialManager holds the single credential shared by every request.
//
// It implements [oauth2.TokenSource] without refreshing on its own: refresh happens only through
// [CredentialManager.Refresh], which the dispatcher runs for a RefreshAuthentication command.
type CredentialManager struct {
	mu        sync.RWMutex
	config    *oauth2.Config
	current   Credential
	now       func() time.Time
	onRefresh func(*oauth2.Token)
}

// NewCredentialManager seeds the manager with token, which may be nil before the first login.
func NewCredentialManager(config *oauth2.Config, token *oauth2.Token) *CredentialManager {
	m := &CredentialManager{config: config, now: time.Now}
	if token != nil {
		m.current = Credential{Token: token, Expiry: expiryOf(token, time.Time{})}
	}
	return m
}

func expiryOf(token *oauth2.Token, issued time.Time) time.Time {
	if token.ExpiresIn > 0 && !issued.IsZero() {
		return issued.Add(time.Duration(token.ExpiresIn)*time.Second - expiryMargin)
	}
	if token.Expiry.IsZero() {
		return time.Time{}
	}
	return token.Expiry.Add(-expiryMargin)
}

// SetRefreshCallback registers fn to run with every newly refreshed token (used to persist it).
func (m *CredentialManager) SetRefreshCallback(fn func(*oauth2.Token)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onRefresh = fn
}

// SetClock replaces the time source.
func (m *CredentialManager) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Token returns the current access token.
func (m *CredentialManager) Token() (*oauth2.Token, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current.Token == nil {
		return nil, shared.ErrNotAuthenticated
	}
	return m.current.Token, nil
}

// Current returns a copy of the credential in use.
func (m *CredentialManager) Current() Credential {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// NeedsRefresh reports whether the credential has reached its expiry at now.
func (m *CredentialManager) NeedsRefresh(now time.Time) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.current.Token == nil {
		return false
	}
	return !m.current.Expiry.IsZero() && !now.Before(m.current.Expiry)
}

// Refresh exchanges the refresh token for a new access token and swaps it in.
//
// On failure the previous credential stays in place.
func (m *CredentialManager) Refresh(ctx context.Context) (Credential, error) {
	m.mu.RLock()
	current := m.current
	now := m.now
	m.mu.RUnlock()

	if current.Token == nil || current.Token.RefreshToken == "" {
		return current, shared.ErrNoRefreshToken
	}

	issued := now()
	src := m.config.TokenSource(ctx, &oauth2.Token{RefreshToken: current.Token.RefreshToken})
	token, err := src.Token()
	if err != nil {
		return current, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	// Spotify omits the refresh token when it is unchanged
	if token.RefreshToken == "" {
		token.RefreshToken = current.Token.RefreshToken
	}

	next := Credential{Token: token, Expiry: expiryOf(token, issued)}

	m.mu.Lock()
	m.current = next
	callback := m.onRefresh
	m.mu.Unlock()

	if callback != nil {
		callback(token)
	}

	return next, nil
}
