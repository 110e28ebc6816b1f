package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teemow/spotauth/internal/spotify"
)

func newURLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "url",
		Short: "Print the authorization URL without starting the flow",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := authorizerConfig(false)
			if err != nil {
				return err
			}
			if cfg.ClientID == "" {
				return fmt.Errorf("client ID missing: set --client-id or SPOTIFY_ID")
			}

			fmt.Fprintln(cmd.OutOrStdout(), spotify.NewAuthorizer(cfg).AuthCodeURL())
			return nil
		},
	}
	return cmd
}
