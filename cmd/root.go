package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/teemow/spotauth/internal/instrumentation"
	"github.com/teemow/spotauth/internal/logging"
	"github.com/teemow/spotauth/internal/spotify"
)

// rootCmd represents the base command for the spotauth application
var rootCmd = &cobra.Command{
	Use:   "spotauth",
	Short: "Manage Spotify OAuth2 credentials for the Web API",
	Long: `spotauth runs the OAuth2 authorization code flow against the Spotify
Accounts service and keeps the resulting tokens in a local cache file.

Expired access tokens are refreshed transparently whenever credentials are
read, so a single login keeps working across runs.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Setup(logLevel, logJSON)
	},
}

var (
	clientID     string
	clientSecret string
	redirectURI  string
	scope        string
	cacheFile    string
	logLevel     string
	logJSON      bool
)

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "spotauth version %s\n" .Version}}`)

	// If no subcommand is provided, report what is in the cache
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "status")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&clientID, "client-id", "", "Spotify application client ID (or SPOTIFY_ID)")
	flags.StringVar(&clientSecret, "client-secret", "", "Spotify application client secret (or SPOTIFY_SECRET)")
	flags.StringVar(&redirectURI, "redirect-uri", "http://127.0.0.1:8888/callback", "registered OAuth redirect URI")
	flags.StringVar(&scope, "scope", "user-read-email playlist-read", "space-separated OAuth scopes to request")
	flags.StringVar(&cacheFile, "cache", "", "token cache file (default: user cache dir)")
	flags.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.BoolVar(&logJSON, "log-json", false, "log in JSON format")

	rootCmd.AddCommand(newURLCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newRefreshCmd())
	rootCmd.AddCommand(newVersionCmd())
}

// authorizerConfig assembles the spotify.Config from flags and environment.
// Commands that talk to the token endpoint require client credentials;
// read-only commands pass requireSecret=false.
func authorizerConfig(requireSecret bool) (spotify.Config, error) {
	cfg := spotify.Config{
		ClientID:     stringOrEnv(clientID, "SPOTIFY_ID"),
		ClientSecret: stringOrEnv(clientSecret, "SPOTIFY_SECRET"),
		RedirectURI:  redirectURI,
		Scope:        scope,
		CacheFile:    cacheFile,
	}

	if cfg.CacheFile == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return spotify.Config{}, fmt.Errorf("failed to determine cache directory: %w", err)
		}
		cfg.CacheFile = filepath.Join(dir, "spotauth", "spotify.token")
	}

	if requireSecret && (cfg.ClientID == "" || cfg.ClientSecret == "") {
		return spotify.Config{}, fmt.Errorf("client credentials missing: set --client-id/--client-secret or SPOTIFY_ID/SPOTIFY_SECRET")
	}

	return cfg, nil
}

func stringOrEnv(value, envKey string) string {
	if value != "" {
		return value
	}
	return os.Getenv(envKey)
}

// newMetricsRecorder builds a metrics recorder from the environment. The
// provider is a no-op unless INSTRUMENTATION_ENABLED is set.
func newMetricsRecorder(cmd *cobra.Command) (*instrumentation.Provider, error) {
	config := instrumentation.DefaultConfig()
	config.ServiceVersion = version
	return instrumentation.NewProvider(cmd.Context(), config)
}
