package crypto

import (
	"github.com/iov-one/crowdvest/errors"
	"github.com/stellar/go/exp/crypto/derivation"
)

// DefaultDerivationPath is the SLIP-0010 path used for ledger keys when no
// other path is requested.
const DefaultDerivationPath = "m/44'/234'/0'"

// DeriveEd25519 derives a private key from the given master seed using the
// SLIP-0010 hardened derivation path.
func DeriveEd25519(seed []byte, path string) (*PrivateKey, error) {
	if len(path) == 0 {
		path = DefaultDerivationPath
	}
	k, err := derivation.DeriveForPath(path, seed)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "derive path %q: %s", path, err)
	}
	return PrivKeyEd25519FromSeed(k.Key), nil
}
