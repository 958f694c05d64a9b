package graphapi

import "bytes"

// expiryMarkers are the substrings of a Graph API error body that mean the
// access token can no longer be used:
//
//   - "Session has expired": message of an expired long-lived token.
//   - `code":190`: OAuthException code for an invalid or expired token.
//
// Any change in how Instagram reports token expiry belongs here.
var expiryMarkers = [][]byte{
	[]byte("Session has expired"),
	[]byte(`code":190`),
}

// IsTokenExpired reports whether an upstream error body signals an expired
// or invalidated access token.
func IsTokenExpired(body []byte) bool {
	for _, marker := range expiryMarkers {
		if bytes.Contains(body, marker) {
			return true
		}
	}
	return false
}
