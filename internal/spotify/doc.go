// Package spotify implements the OAuth2 authorization code flow against the
// Spotify Accounts service and manages the resulting tokens.
//
// The package handles file-based token caching via internal/tokencache and
// transparently refreshes expired access tokens when credentials are read.
// Callers that want to talk to the Web API can obtain an authenticated
// *http.Client through Authorizer.HTTPClient.
package spotify
