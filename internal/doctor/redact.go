// Package doctor diagnoses a slsah installation: the slsah config, the
// SLSsteam config, the Steam library layout and file permissions. It also
// owns the masking rules every other package uses before printing a secret.
package doctor

import (
	"net/url"
	"regexp"
)

var (
	// secretKey matches attribute and config key names that hold credentials.
	secretKey = regexp.MustCompile(`(?i)token|key|secret|password|auth|credential`)

	// steamAPIKey is the shape of a Steam Web API key.
	steamAPIKey = regexp.MustCompile(`^[0-9A-F]{32}$`)
)

// Query parameters the Steam Web API accepts credentials in.
var secretQueryParams = [...]string{"key", "access_token"}

// MaskValue hides all but the last four characters of value. Values of four
// characters or fewer are hidden entirely.
func MaskValue(value string) string {
	const keep = 4
	if len(value) <= keep {
		return "********"
	}
	return "****" + value[len(value)-keep:]
}

// MaskURL masks the userinfo password and any Steam credential query
// parameters in rawURL. Unparseable input comes back unchanged.
func MaskURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if rawURL == "" || err != nil {
		return rawURL
	}
	if pw, ok := u.User.Password(); ok && pw != "" {
		u.User = url.UserPassword(u.User.Username(), MaskValue(pw))
	}
	if u.RawQuery == "" {
		return u.String()
	}
	q := u.Query()
	masked := false
	for _, name := range secretQueryParams {
		if v := q.Get(name); v != "" {
			q.Set(name, MaskValue(v))
			masked = true
		}
	}
	if masked {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

// ShouldMask reports whether a key name such as "api_key" or "Token" names
// a credential.
func ShouldMask(key string) bool { return secretKey.MatchString(key) }

// LooksLikeSecret reports whether value is shaped like a Steam Web API key,
// whatever it is logged under.
func LooksLikeSecret(value string) bool { return steamAPIKey.MatchString(value) }
