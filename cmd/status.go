package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/spotauth/internal/spotify"
	"github.com/teemow/spotauth/internal/tokencache"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report the state of the cached token without touching the network",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := authorizerConfig(false)
			if err != nil {
				return err
			}
			authorizer := spotify.NewAuthorizer(cfg)

			token, status := authorizer.Cached()
			switch status {
			case tokencache.NoCache:
				fmt.Fprintf(cmd.OutOrStdout(), "No token cached at %s. Run 'spotauth login'.\n", authorizer.CacheFile())
				return nil
			case tokencache.Corrupt:
				fmt.Fprintf(cmd.OutOrStdout(), "Token cache at %s is corrupt. Run 'spotauth login' to replace it.\n", authorizer.CacheFile())
				return nil
			}

			expiry := time.Unix(token.ExpiresAt, 0)
			fmt.Fprintf(cmd.OutOrStdout(), "Token cached at %s\n", authorizer.CacheFile())
			fmt.Fprintf(cmd.OutOrStdout(), "  scope:      %s\n", token.Scope)
			fmt.Fprintf(cmd.OutOrStdout(), "  expires at: %s\n", expiry.Format(time.RFC3339))
			if remaining := time.Until(expiry); remaining > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "  valid for:  %s\n", remaining.Truncate(time.Second))
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "  expired; it will be refreshed on next use")
			}
			return nil
		},
	}
	return cmd
}
