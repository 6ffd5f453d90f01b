package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// GenerateKey returns a deterministic key for an answer set. Map iteration
// order does not matter; identical sets always produce identical keys.
func GenerateKey(answers map[string]string) string {
	ids := make([]string, 0, len(answers))
	for id := range answers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	for _, id := range ids {
		b.WriteString(id)
		b.WriteByte(0)
		b.WriteString(answers[id])
		b.WriteByte('\n')
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
