package spotify

import "strings"

// CodeFromRedirect extracts the authorization code from the URL the browser
// was redirected to after the user approved access. It looks for the literal
// "?code=" marker and takes everything up to the next "&". The second return
// value is false when the marker is not present; a missing code is an
// expected outcome (user denied, or the redirect was malformed), not an
// error.
//
// Known limitation: because the match is on "?code=" the code is only found
// when it is the first query parameter. Spotify places it first, so
// "?state=x&code=y" shapes are not handled.
func CodeFromRedirect(rawURL string) (string, bool) {
	_, rest, found := strings.Cut(rawURL, "?code=")
	if !found {
		return "", false
	}
	code, _, _ := strings.Cut(rest, "&")
	return code, true
}
