package cmd

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/teemow/spotauth/internal/server"
	"github.com/teemow/spotauth/internal/spotify"
)

func newLoginCmd() *cobra.Command {
	var (
		manual  bool
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Run the OAuth2 authorization code flow and cache the token",
		Long: `Print the Spotify authorization URL, capture the authorization code from
the redirect, exchange it for an access/refresh token pair and save the
result to the token cache.

By default a local HTTP server is started on the redirect URI to capture the
code automatically. With --manual, paste the full redirect URL from the
browser address bar instead.`,
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

			fmt.Fprintln(cmd.OutOrStdout(), "Open this URL in your browser and authorize the application:")
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), "  "+authorizer.AuthCodeURL())
			fmt.Fprintln(cmd.OutOrStdout())

			var code string
			if manual {
				code, err = readCodeFromStdin(cmd)
			} else {
				code, err = captureCode(cmd.Context(), cfg.RedirectURI, provider.Enabled(), timeout)
			}
			if err != nil {
				return err
			}

			token, err := authorizer.Exchange(cmd.Context(), code)
			if err != nil {
				return fmt.Errorf("failed to exchange authorization code: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Token saved to %s (expires %s)\n",
				authorizer.CacheFile(), time.Unix(token.ExpiresAt, 0).Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().BoolVar(&manual, "manual", false, "paste the redirect URL instead of capturing it locally")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "how long to wait for the authorization redirect")
	return cmd
}

// captureCode runs the local callback server until the browser delivers an
// authorization code or the timeout elapses.
func captureCode(ctx context.Context, redirectURI string, serveMetrics bool, timeout time.Duration) (string, error) {
	cb, err := server.NewCallbackServer(server.CallbackConfig{
		RedirectURI:  redirectURI,
		ServeMetrics: serveMetrics,
	})
	if err != nil {
		return "", err
	}

	go func() {
		if err := cb.Start(); err != nil {
			slog.Error("callback server failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = cb.Shutdown(shutdownCtx)
	}()

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	code, err := cb.WaitForCode(waitCtx)
	if err != nil {
		return "", fmt.Errorf("no authorization redirect received: %w", err)
	}
	return code, nil
}

// readCodeFromStdin prompts for the redirect URL and extracts the code from
// it. Asks again when the pasted URL has no code, since a missing code is an
// expected outcome rather than an error.
func readCodeFromStdin(cmd *cobra.Command) (string, error) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(cmd.OutOrStdout(), "Paste the URL you were redirected to: ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", fmt.Errorf("no redirect URL provided")
		}

		code, ok := spotify.CodeFromRedirect(strings.TrimSpace(scanner.Text()))
		if ok {
			return code, nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No authorization code found in that URL, try again.")
	}
}
