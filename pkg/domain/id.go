package domain

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// GenerateID returns a short random identifier with the given prefix, e.g.
// "play_1f0c2a3b". Used where identity only has to be unique within a run.
func GenerateID(prefix string) string {
	return prefix + uuid.NewString()[:8]
}

// HashID returns a short deterministic identifier derived from value. The IDs
// are not user-visible, so collisions on 8 hex chars are an accepted risk.
func HashID(prefix, value string) string {
	sum := md5.Sum([]byte(value))
	return prefix + hex.EncodeToString(sum[:])[:8]
}

// CleanName normalizes a display name for use in node and edge labels. Every
// label we emit ends up double-quoted, so double quotes become their HTML
// entity (see the graphviz language reference).
func CleanName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), `"`, "&#34;")
}
