package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// CachePrune removes all but the newest --keep tokens.
func (r *Runner) CachePrune(ctx context.Context, cmd *cli.Command) error {
	keep := cmd.Int("keep")
	if err := r.openTokens(ctx); err != nil {
		return err
	}

	removed, err := r.tokens.Prune(ctx, keep)
	if err != nil {
		return fmt.Errorf("failed to prune token cache: %w", err)
	}

	r.logger.Infof("pruned %d cached tokens", removed)
	return r.writePlain("✓ Removed %d tokens, kept %d\n", removed, max(keep, 0))
}

// CacheClear removes every cached token.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	if err := r.openTokens(ctx); err != nil {
		return err
	}

	removed, err := r.tokens.Clear(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear token cache: %w", err)
	}

	r.writePlain("✓ Removed %d tokens\n", removed)
	return r.writePlain("Run 'sptx auth' to authorize again.\n")
}
