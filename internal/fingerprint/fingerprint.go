// Package fingerprint computes change-detection digests over ordered batches
// of text such as feed headlines.
package fingerprint

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Digest identifies the content of a batch. The zero value means "none".
type Digest string

// Empty is the digest of an empty batch. It is not valid hex and therefore
// never equals the digest of real content.
const Empty Digest = "empty"

// size is the number of hash bytes kept (128 bits).
const size = 16

// Of returns the digest of items. Each item is length-prefixed before hashing
// so that both order and item boundaries affect the result.
func Of(items []string) Digest {
	if len(items) == 0 {
		return Empty
	}

	h := sha256.New()
	var prefix [8]byte
	for _, item := range items {
		binary.BigEndian.PutUint64(prefix[:], uint64(len(item)))
		h.Write(prefix[:])
		h.Write([]byte(item))
	}
	sum := h.Sum(nil)
	return Digest(hex.EncodeToString(sum[:size]))
}

// Short returns an abbreviated digest for logs.
func (d Digest) Short() string {
	if len(d) <= 8 {
		return string(d)
	}
	return string(d[:8])
}

// IsZero reports whether no digest has been recorded.
func (d Digest) IsZero() bool {
	return d == ""
}
