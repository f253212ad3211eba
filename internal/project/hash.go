package project

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Digest - фиксированный 256 битный хеш содержимого модуля
type Digest [32]byte

// HashContent digests raw module source.
func HashContent(content []byte) Digest {
	return sha256.Sum256(content)
}

// Combine строит модульный хеш: H( content || dep1 || dep2 ... ).
// Порядок deps должен быть детерминированным (у нас Edges уже отсортированы).
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (d Digest) IsZero() bool {
	return d == Digest{}
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Short is the first 12 hex digits, enough to tell cache entries apart in
// listings.
func (d Digest) Short() string {
	return d.String()[:12]
}

// ParseDigest reads the hex form produced by String.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	raw, err := hex.DecodeString(s)
	if err != nil {
		return d, fmt.Errorf("digest %q: %w", s, err)
	}
	if len(raw) != len(d) {
		return d, fmt.Errorf("digest %q: want %d bytes, got %d", s, len(d), len(raw))
	}
	copy(d[:], raw)
	return d, nil
}
