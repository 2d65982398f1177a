package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// EngineKey builds the cache key for running doc through an engine.
// The engine identity includes anything that changes its output, such as
// the binary and output format ("exec:dot:-Tdot").
func EngineKey(engine string, doc []byte) string {
	h := sha256.New()
	h.Write([]byte(engine))
	h.Write([]byte{0})
	h.Write(doc)
	return "engine:" + sanitize(engine) + ":" + hex.EncodeToString(h.Sum(nil))
}

// sanitize keeps keys readable in redis-cli while bounding their length.
func sanitize(s string) string {
	const max = 48
	var b strings.Builder
	for _, r := range s {
		if b.Len() >= max {
			break
		}
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.', r == '_', r == ':':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
