package tools

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	slugStrip    = regexp.MustCompile(`[^a-z0-9\-]`)
	slugCollapse = regexp.MustCompile(`-+`)
)

// Slugify converts names like "Human Resources" to "human-resources" for use
// in group CNs and email local parts.
func Slugify(input string) string {
	input = strings.ToLower(strings.TrimSpace(input))
	input = strings.ReplaceAll(input, " ", "-")
	input = strings.ReplaceAll(input, "_", "-")
	input = slugStrip.ReplaceAllString(input, "")
	input = slugCollapse.ReplaceAllString(input, "-")
	return strings.Trim(input, "-")
}

// FormatGUID converts a raw objectGUID []byte into the standard Microsoft
// mixed-endian GUID string.
func FormatGUID(b []byte) string {
	if len(b) != 16 {
		return ""
	}
	return fmt.Sprintf("%02x%02x%02x%02x-%02x%02x-%02x%02x-%02x%02x-%02x%02x%02x%02x%02x%02x",
		b[3], b[2], b[1], b[0],
		b[5], b[4],
		b[7], b[6],
		b[8], b[9],
		b[10], b[11], b[12], b[13], b[14], b[15],
	)
}

// MapKeys returns the keys of a string-keyed map in unspecified order.
func MapKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
