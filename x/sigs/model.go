package sigs

import (
	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/crypto"
	"github.com/iov-one/crowdvest/errors"
	"github.com/iov-one/crowdvest/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// maxSequenceValue is limited by the client. The greatest supported nonce
// value at client side is Number.MAX_SAFE_INTEGER = 2^53 - 1.
const maxSequenceValue = (1 << 53) - 1

var _ orm.Model = (*UserData)(nil)

func (u *UserData) Validate() error {
	if err := u.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if u.Sequence < 0 {
		return errors.Wrap(errors.ErrModel, "negative sequence")
	}
	if u.Sequence > 0 && u.Pubkey == nil {
		return errors.Wrap(errors.ErrModel, "sequence needs pubkey")
	}
	if u.Pubkey != nil {
		if err := u.Pubkey.Validate(); err != nil {
			return errors.Wrap(err, "pubkey")
		}
	}
	return nil
}

// CheckAndIncrementSequence implements check and increment operation.
// If current sequence value is the same as given expected value then it is
// incremented. Otherwise an error is returned.
func (u *UserData) CheckAndIncrementSequence(expected int64) error {
	if u.Sequence != expected {
		return errors.Wrapf(errors.ErrUnauthorized, "sequence mismatch: expected %d, got %d", u.Sequence, expected)
	}
	next := u.Sequence + 1
	if next <= 0 || next > maxSequenceValue {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence = next
	return nil
}

// NewUser returns the state of a signer that has not used its key yet.
func NewUser(pubkey *crypto.PublicKey) *UserData {
	return &UserData{
		Metadata: &crowdvest.Metadata{Schema: 1},
		Pubkey:   pubkey,
	}
}

// Bucket stores UserData under the signer address.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket creates the proper bucket for this extension
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &UserData{}),
	}
}

// GetOrCreate loads the state of the given signer. A new UserData is
// returned for a key that was never seen.
func (b Bucket) GetOrCreate(db crowdvest.ReadOnlyKVStore, pubkey *crypto.PublicKey) (*UserData, error) {
	var user UserData
	switch err := b.One(db, pubkey.Address(), &user); {
	case err == nil:
		return &user, nil
	case errors.ErrNotFound.Is(err):
		return NewUser(pubkey), nil
	default:
		return nil, err
	}
}

// Save stores given user under its public key address.
func (b Bucket) Save(db crowdvest.KVStore, u *UserData) error {
	_, err := b.Put(db, u.Pubkey.Address(), u)
	return err
}

// NextNonce returns the next numeric nonce value that should be used during a
// transaction signing. Nonce counting starts with zero.
func NextNonce(db crowdvest.ReadOnlyKVStore, signer crowdvest.Address) (int64, error) {
	var user UserData
	switch err := NewBucket().One(db, signer, &user); {
	case err == nil:
		return user.Sequence, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, errors.Wrap(err, "bucket get")
	}
}
