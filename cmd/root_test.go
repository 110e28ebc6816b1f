package cmd

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestAuthorizerConfigEnvFallback(t *testing.T) {
	t.Setenv("SPOTIFY_ID", "env-client")
	t.Setenv("SPOTIFY_SECRET", "env-secret")

	cfg, err := authorizerConfig(true)
	if err != nil {
		t.Fatalf("authorizerConfig() error = %v", err)
	}

	if cfg.ClientID != "env-client" {
		t.Errorf("ClientID = %q, want env-client", cfg.ClientID)
	}
	if cfg.ClientSecret != "env-secret" {
		t.Errorf("ClientSecret = %q, want env-secret", cfg.ClientSecret)
	}
	if filepath.Base(cfg.CacheFile) != "spotify.token" {
		t.Errorf("CacheFile = %q, want default spotify.token", cfg.CacheFile)
	}
}

func TestAuthorizerConfigMissingCredentials(t *testing.T) {
	t.Setenv("SPOTIFY_ID", "")
	t.Setenv("SPOTIFY_SECRET", "")

	_, err := authorizerConfig(true)
	if err == nil {
		t.Fatal("authorizerConfig() should fail without client credentials")
	}
	if !strings.Contains(err.Error(), "SPOTIFY_ID") {
		t.Errorf("error %q should mention the SPOTIFY_ID fallback", err)
	}
}

func TestAuthorizerConfigReadOnly(t *testing.T) {
	t.Setenv("SPOTIFY_ID", "")
	t.Setenv("SPOTIFY_SECRET", "")

	// status and url don't need a secret
	if _, err := authorizerConfig(false); err != nil {
		t.Errorf("authorizerConfig(false) error = %v", err)
	}
}

func TestStringOrEnv(t *testing.T) {
	t.Setenv("SPOTAUTH_TEST_KEY", "from-env")

	if got := stringOrEnv("explicit", "SPOTAUTH_TEST_KEY"); got != "explicit" {
		t.Errorf("stringOrEnv() = %q, flag value should win", got)
	}
	if got := stringOrEnv("", "SPOTAUTH_TEST_KEY"); got != "from-env" {
		t.Errorf("stringOrEnv() = %q, want from-env", got)
	}
}
