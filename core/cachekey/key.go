// Package cachekey derives stable, key-safe cache keys from subject names.
package cachekey

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Prefix namespaces every search record key
const Prefix = "search_"

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// DeriveKey turns a subject name into a cache key made of letters, digits,
// '_' and '-' only. Names that needed character replacement get a short hash
// of the raw name appended, so "A B" and "A_B" map to different keys.
func DeriveKey(subjectName string) string {
	trimmed := strings.TrimSpace(subjectName)
	token := unsafeChars.ReplaceAllString(trimmed, "_")

	if token == trimmed {
		return Prefix + token
	}
	return fmt.Sprintf("%s%s_%08x", Prefix, token, uint32(xxhash.Sum64String(trimmed)))
}
