// Package config contains helpers for locating configuration files and
// mapping environment variables onto config keys.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// EnvPrefix is the prefix for environment variables read by authkit.
const EnvPrefix = "AUTHKIT__"

// SearchForConfig searches for a config file starting from startDir and
// walking up the directory tree until found or reaching the root. Returns
// the empty string when no file is found.
func SearchForConfig(filename string, startDir string) string {
	d, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}
	for {
		p := filepath.Join(d, filename)
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(d)
		if parent == d {
			return ""
		}
		d = parent
	}
}

// TransformEnv converts AUTHKIT__PROVIDER__CLIENT_ID to provider.clientId.
// Environment variable transformation rules:
//   - Remove the AUTHKIT__ prefix
//   - Convert to lowercase
//   - Double underscores (__) become dots (.)
//   - Single underscores (_) within segments become camelCase
func TransformEnv(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	segments := strings.Split(s, "__")
	for i, segment := range segments {
		parts := strings.Split(segment, "_")
		for j := 1; j < len(parts); j++ {
			parts[j] = capitalize(parts[j])
		}
		segments[i] = strings.Join(parts, "")
	}
	return strings.Join(segments, ".")
}

func capitalize(s string) string {
	if s == "" {
		return ""
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
