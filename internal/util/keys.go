package util

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Redact returns a short stable digest of a storage key, for logs and
// metrics where raw identifiers must not leak.
func Redact(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}

// Namespace returns the template with everything from the first verb on
// removed: "user:%d:en" -> "user". Used as a low-cardinality label.
func Namespace(template string) string {
	i := strings.IndexByte(template, '%')
	if i < 0 {
		return template
	}
	return strings.TrimRight(template[:i], ":")
}
