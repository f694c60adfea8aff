package weavetest

import (
	"encoding/binary"

	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/crypto"
)

// NewKey returns a freshly generated ed25519 private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the signature condition of a freshly generated key.
func NewCondition() crowdvest.Condition {
	return NewKey().PublicKey().Condition()
}

// SequenceID returns the 8 byte big endian representation of n, the same
// format an orm sequence produces.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
