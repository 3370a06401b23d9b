package fedreg

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"

	"github.com/cespare/xxhash/v2"
)

// ContentHash computes a change-detection digest over the canonical JSON
// serialization of a merged document record. encoding/json sorts map keys at
// every nesting level, so two records with the same logical content produce
// the same digest regardless of key order in the source payload.
//
// The digest is a change-detection token only, never a security primitive.
func ContentHash(doc RawDocument) string {
	canonical, err := json.Marshal(doc)
	if err != nil {
		// Records decoded from JSON always re-marshal; an unmarshalable
		// value hashes as empty so the record is treated as changed.
		canonical = nil
	}
	sum := xxhash.Sum64(canonical)
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], sum)
	return hex.EncodeToString(b[:])
}
