package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/sptx/internal/server"
	"github.com/desertthunder/sptx/internal/shared"
	"github.com/urfave/cli/v3"
)

const authTimeout = 2 * time.Minute

// Auth performs the OAuth2 authorization code flow for Spotify.
//
// Starts a local callback server, opens the browser for user consent and caches the exchanged token.
func (r *Runner) Auth(ctx context.Context, cmd *cli.Command) error {
	spotify, err := r.newSpotify()
	if err != nil {
		return err
	}
	if err := r.openTokens(ctx); err != nil {
		return err
	}

	state, err := shared.GenerateState()
	if err != nil {
		return fmt.Errorf("failed to generate state token: %w", err)
	}

	handler := server.NewOAuthHandler(spotify.OAuthConfig(), state)
	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	srv := server.NewCallbackServer(addr, handler, r.logger)
	if err := srv.Start(); err != nil {
		return err
	}
	r.logger.Infof("listening for the OAuth callback on %v", srv.Addr())

	authURL := spotify.GetAuthURL(state)
	r.writePlain("→ Opening browser for Spotify authorization...\n")
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("failed to open browser automatically %v", err)
		r.writePlainln("⚠ Could not open browser automatically.")
		r.writePlain("Please open this URL in your browser:\n%s\n\n", authURL)
	}
	r.writePlain("→ Waiting for authorization (2 minute timeout)...\n")

	waitCtx, cancel := context.WithTimeout(ctx, authTimeout)
	defer cancel()

	token, err := srv.Wait(waitCtx)
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: authorization timed out after 2 minutes", shared.ErrTimeout)
	} else if err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	id, err := r.tokens.Save(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to cache token: %w", err)
	}
	if _, err := r.tokens.Prune(ctx, tokenHistory); err != nil {
		r.logger.Warn("failed to prune token cache", "error", err)
	}
	r.logger.Debug("token cached", "id", id)

	r.writePlainln("✓ Authorization successful")
	r.writePlain("You can now run: sptx\n")
	return nil
}

// AuthStatus reports the cached token without contacting Spotify.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.openTokens(ctx); err != nil {
		return err
	}

	stored, err := r.tokens.Latest(ctx)
	if errors.Is(err, shared.ErrNotFound) {
		return r.writePlain("✗ Not authenticated. Run 'sptx auth'.\n")
	} else if err != nil {
		return fmt.Errorf("failed to load token: %w", err)
	}

	count, err := r.tokens.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count tokens: %w", err)
	}

	r.writePlain("✓ Authenticated\n")
	r.writePlain("Token: #%d (%d cached)\n", stored.Sequence, count)
	r.writePlain("Obtained: %s\n", shared.RelativeTime(stored.CreatedAt))
	if expiry := stored.Token.Expiry; !expiry.IsZero() {
		if expiry.After(time.Now()) {
			r.writePlain("Expires: %s\n", shared.RelativeTime(expiry))
		} else {
			r.writePlain("Expired: %s (refreshed on next use)\n", shared.RelativeTime(expiry))
		}
	}
	if stored.Scope != "" {
		r.writePlain("Scope: %s\n", stored.Scope)
	}
	return nil
}
