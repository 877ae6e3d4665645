package app

import (
	"strings"

	lerrors "github.com/vango-dev/lumen/internal/errors"
)

// ErrInvalidPath is returned for route paths that cannot be canonicalized.
var ErrInvalidPath = lerrors.New("L073")

// CleanPath canonicalizes a route path: a leading slash is added, repeated
// slashes collapse, "." segments are dropped, ".." pops a segment and the
// trailing slash is removed. A query string is discarded. Backslashes,
// NUL bytes, malformed percent escapes and ".." above the root are
// rejected.
func CleanPath(input string) (string, error) {
	path, _, _ := strings.Cut(input, "?")
	if path == "" {
		return "/", nil
	}
	if strings.Contains(path, "\\") {
		return "", invalidPath(input, "backslash")
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return "", invalidPath(input, "null byte")
	}
	if !validEscapes(path) {
		return "", invalidPath(input, "bad percent escape")
	}

	var out []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
		case "..":
			if len(out) == 0 {
				return "", invalidPath(input, "escapes root")
			}
			out = out[:len(out)-1]
		default:
			out = append(out, seg)
		}
	}
	return "/" + strings.Join(out, "/"), nil
}

func invalidPath(path, reason string) error {
	return lerrors.New("L073").WithDetailf("%q: %s", path, reason)
}

func validEscapes(path string) bool {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHex(path[i+1]) || !isHex(path[i+2]) {
			return false
		}
		i += 2
	}
	return true
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
