package spotify

import (
	"time"

	"golang.org/x/oauth2"
)

// Token is the record returned by the Spotify token endpoint and persisted to
// the cache file. ExpiresAt is not part of the wire response; it is stamped
// locally at save time as now + ExpiresIn so that staleness checks never trust
// server-relative values.
type Token struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type,omitempty"`
	Scope        string `json:"scope,omitempty"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
}

// OAuth2 converts the token to the golang.org/x/oauth2 representation so it
// can be used with oauth2.NewClient and friends.
func (t *Token) OAuth2() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  t.AccessToken,
		TokenType:    t.TokenType,
		RefreshToken: t.RefreshToken,
		Expiry:       time.Unix(t.ExpiresAt, 0),
	}
}
