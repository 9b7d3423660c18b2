package position

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash"
)

// keySeed namespaces position keys against other derived record kinds.
const keySeed = "ps"

// Key uniquely addresses one position: the token pair and fee tier
// select the pool, the owner and tick boundaries select the position
// within it.
type Key struct {
	Token0    string `json:"token0"`
	Token1    string `json:"token1"`
	Fee       uint32 `json:"fee"`
	Owner     string `json:"owner"`
	TickLower int32  `json:"tick_lower"`
	TickUpper int32  `json:"tick_upper"`
}

// ID derives the deterministic record identifier for the key. Fields are
// hashed under a fixed length-prefixed encoding so distinct keys can
// never collide by concatenation.
func (k Key) ID() string {
	h := sha256.New()
	h.Write([]byte(keySeed))
	writeString(h, k.Token0)
	writeString(h, k.Token1)

	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], k.Fee)
	h.Write(buf[:])

	writeString(h, k.Owner)

	binary.BigEndian.PutUint32(buf[:], uint32(k.TickLower))
	h.Write(buf[:])
	binary.BigEndian.PutUint32(buf[:], uint32(k.TickUpper))
	h.Write(buf[:])

	return hex.EncodeToString(h.Sum(nil))
}

func writeString(h hash.Hash, s string) {
	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(s)))
	h.Write(size[:])
	h.Write([]byte(s))
}
