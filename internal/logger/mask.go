package logger

import (
	"regexp"
	"strings"
)

var (
	reHexDigest = regexp.MustCompile(`\b[0-9a-f]{64}\b`)
	rePassword  = regexp.MustCompile(`(?i)("password"\s*:\s*")([^"]*)(")`)
)

const masked = "***"

// Mask redacts access keys, contract identifiers and JSON password fields.
// Digests keep their first 8 characters so log lines stay correlatable.
func Mask(s string) string {
	out := reHexDigest.ReplaceAllStringFunc(s, func(d string) string {
		return d[:8] + "…"
	})
	return rePassword.ReplaceAllString(out, "$1"+masked+"$3")
}

// MaskPath redacts the credential segments of a ChainDB request path.
func MaskPath(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		// /get_user_account/{user}/{password}/{key}
		if seg == "get_user_account" && i+2 < len(segments) {
			segments[i+2] = masked
		}
	}
	return Mask(strings.Join(segments, "/"))
}
