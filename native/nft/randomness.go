package nft

import (
	"encoding/binary"

	"lukechampine.com/blake3"
)

// Randomness derives fresh token identifiers. The ledger feeds it the current
// total-supply counter, so an implementation only has to guarantee it never
// repeats an output for distinct counter values under the same seed.
type Randomness interface {
	Random(counter uint64) [32]byte
}

// Blake3Randomness derives identifiers by hashing a fixed seed together with
// the counter. The same (seed, counter) pair always yields the same
// identifier, which keeps minting verifiable after the fact.
type Blake3Randomness struct {
	Seed []byte
}

// Random implements the Randomness interface.
func (r Blake3Randomness) Random(counter uint64) [32]byte {
	var nonce [8]byte
	binary.BigEndian.PutUint64(nonce[:], counter)
	h := blake3.New(32, nil)
	h.Write(r.Seed)
	h.Write(nonce[:])
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}
