// Package validate checks user-supplied input before it reaches storage or
// the network.
package validate

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
)

// snowflakeRe matches chat-platform snowflake identifiers (guild, user,
// role, and channel ids): 17-20 decimal digits.
var snowflakeRe = regexp.MustCompile(`^[0-9]{17,20}$`)

// emailRe is deliberately loose: one @, a non-empty local part, and a
// domain containing a dot. The panel performs its own strict validation;
// this only rejects obvious garbage before a network call is spent.
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// usernameRe matches panel usernames: alphanumeric start, then
// alphanumerics, dots, hyphens, or underscores.
var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// MaxUsernameLen is the longest accepted panel username.
const MaxUsernameLen = 64

// Snowflake reports whether s is a well-formed chat-platform identifier.
func Snowflake(s string) bool {
	return snowflakeRe.MatchString(s)
}

// Email reports whether s looks like an email address.
func Email(s string) bool {
	return emailRe.MatchString(s)
}

// Username reports whether s is an acceptable panel username.
func Username(s string) bool {
	return len(s) > 0 && len(s) <= MaxUsernameLen && usernameRe.MatchString(s)
}

// PowerSignal reports whether s is one of the four panel power signals.
func PowerSignal(s string) bool {
	switch s {
	case "start", "stop", "restart", "kill":
		return true
	}
	return false
}

// HTTPURL ensures the URL uses http or https scheme and has a non-empty
// host, rejecting file://, ftp://, and other dangerous schemes before the
// value is ever dialled.
func HTTPURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	switch u.Scheme {
	case "http", "https":
		// OK
	case "":
		return fmt.Errorf("URL missing scheme: %s", rawURL)
	default:
		return fmt.Errorf("URL scheme %q not allowed (only http/https)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL missing host: %s", rawURL)
	}
	return nil
}

// RejectPrivateURL checks whether the URL's host is a private or internal
// IP address (loopback, link-local, RFC-1918, or "localhost"). A linked
// panel URL pointing at internal infrastructure is the classic SSRF vector
// for a service that proxies requests on behalf of its users.
//
// Only literal IPs and the "localhost" hostname are inspected; DNS-resolved
// addresses need transport-level protection.
func RejectPrivateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	host := u.Hostname()
	if host == "" {
		return nil // Let HTTPURL handle empty host
	}
	if strings.EqualFold(host, "localhost") {
		return fmt.Errorf("URL host %q is a private/internal address", host)
	}
	ip := net.ParseIP(host)
	if ip == nil {
		return nil // Not an IP literal; DNS rebinding is a separate concern
	}
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
		return fmt.Errorf("URL host %q is a private/internal address", host)
	}
	return nil
}
