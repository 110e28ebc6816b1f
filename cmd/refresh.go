package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/spotauth/internal/spotify"
	"github.com/teemow/spotauth/internal/tokencache"
)

func newRefreshCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Force a token refresh using the cached refresh token",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := authorizerConfig(true)
			if err != nil {
				return err
			}

			provider, err := newMetricsRecorder(cmd)
			if err != nil {
				return fmt.Errorf("failed to set up instrumentation: %w", err)
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = provider.Shutdown(shutdownCtx)
			}()
			cfg.Metrics = provider.Metrics()

			authorizer := spotify.NewAuthorizer(cfg)

			token, status := authorizer.Cached()
			if status != tokencache.Valid {
				return fmt.Errorf("cannot refresh: token cache is %s, run 'spotauth login' first", status)
			}
			if token.RefreshToken == "" {
				return fmt.Errorf("cannot refresh: cached token has no refresh token, run 'spotauth login' again")
			}

			refreshed, err := authorizer.Refresh(cmd.Context(), token.RefreshToken)
			if err != nil {
				return fmt.Errorf("refresh failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Token refreshed, now expires %s\n",
				time.Unix(refreshed.ExpiresAt, 0).Format(time.RFC3339))
			return nil
		},
	}
	return cmd
}
