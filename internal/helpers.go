package internal

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// ResultKey hashes the whole document together with the policy key and the
// flags that change serialization.
func ResultKey(content, policyKey string, flags byte) string {
	h := sha256.New()
	h.Write([]byte{flags})
	h.Write([]byte(policyKey))
	h.Write([]byte{0})
	h.Write([]byte(content))
	var buf [sha256.Size]byte
	return hex.EncodeToString(h.Sum(buf[:0]))
}

// LastPathSegment returns what follows the last '/' in u, and false when u
// has no '/' at all.
func LastPathSegment(u string) (string, bool) {
	i := strings.LastIndexByte(u, '/')
	if i < 0 {
		return "", false
	}
	return u[i+1:], true
}
