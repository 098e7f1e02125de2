// Package identity computes the canonical identity hash used to deduplicate
// articles across feeds and fetch cycles.
//
// The hash is a SHA-256 digest over "title|url|feedSlug", hex-encoded. The
// feed slug is included so that two sources republishing the same wire-service
// item under the same title and canonical link are still stored once per
// source. The function is pure: the same inputs always produce the same hash
// regardless of which process computed it.
package identity

import (
	"crypto/sha256"
	"encoding/hex"
)

// separator keeps "ab"+"c" and "a"+"bc" from colliding.
const separator = "|"

// Compute returns the identity hash for an article.
// Empty strings are valid input and still produce a deterministic hash.
func Compute(title, url, feedSlug string) string {
	sum := sha256.Sum256([]byte(title + separator + url + separator + feedSlug))
	return hex.EncodeToString(sum[:])
}
