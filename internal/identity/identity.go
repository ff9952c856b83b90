// Package identity computes the deterministic recipe identifier used for
// dedup across every ingestion path (local parser, model-assisted parser,
// CSV staging, feed poller).
package identity

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Namespace is the fixed UUIDv5 namespace carried over from the original
// Python implementation so identifiers are stable across a migration.
var Namespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

var whitespaceRun = regexp.MustCompile(`\s+`)

// Normalize lower-cases, trims, and collapses internal whitespace runs to a
// single space, per spec §4.1.
func Normalize(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	return whitespaceRun.ReplaceAllString(s, " ")
}

// For computes the deterministic identifier for a recipe from its title and
// a source hint (post ID, source URL, or any other disambiguating string).
// Two recipes normalize to the same identifier iff their normalized title
// and normalized source hint are both equal.
func For(title, sourceHint string) uuid.UUID {
	content := Normalize(title) + ":" + Normalize(sourceHint)
	return uuid.NewSHA1(Namespace, []byte(content))
}
