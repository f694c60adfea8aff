package sigs

import (
	"crypto/sha512"
	"encoding/binary"

	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/crypto"
	"github.com/iov-one/crowdvest/errors"
)

// SignCodeV1 opens every signed payload so that a signature can never be
// replayed as some other kind of message.
var SignCodeV1 = []byte{0, 0xCA, 0xFE, 0}

// VerifyTxSignatures checks every signature of the transaction and bumps
// the signer sequences. The first signer is the main signer. An unsigned
// transaction yields an empty list.
func VerifyTxSignatures(db crowdvest.KVStore, tx SignedTx, chainID string) ([]crowdvest.Condition, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, errors.Wrap(err, "sign bytes")
	}
	var signers []crowdvest.Condition
	for i, sig := range tx.GetSignatures() {
		signer, err := VerifySignature(db, sig, payload, chainID)
		if err != nil {
			return nil, errors.Wrapf(err, "signature %d", i)
		}
		signers = append(signers, signer)
	}
	return signers, nil
}

// VerifySignature checks a single signature over payload. The signature
// must carry the next sequence of its key, which is then stored.
func VerifySignature(db crowdvest.KVStore, sig *StdSignature, payload []byte, chainID string) (crowdvest.Condition, error) {
	if err := sig.Validate(); err != nil {
		return nil, err
	}
	users := NewBucket()
	user, err := users.GetOrCreate(db, sig.Pubkey)
	if err != nil {
		return nil, err
	}
	digest, err := BuildSignBytes(payload, chainID, sig.Sequence)
	if err != nil {
		return nil, err
	}
	if !user.Pubkey.Verify(digest, sig.Signature) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "invalid signature")
	}
	if err := user.CheckAndIncrementSequence(sig.Sequence); err != nil {
		return nil, err
	}
	if err := users.Save(db, user); err != nil {
		return nil, err
	}
	return user.Pubkey.Condition(), nil
}

// BuildSignBytes returns the sha512 digest that is actually signed:
//
//	SignCodeV1 | len(chainID) as uint8 | chainID | sequence as big endian int64 | payload
//
// Binding the chain id and the sequence prevents a signature from being
// replayed on another chain or twice on the same one.
func BuildSignBytes(payload []byte, chainID string, seq int64) ([]byte, error) {
	if seq < 0 {
		return nil, errors.Wrap(errors.ErrInput, "negative sequence")
	}
	if !crowdvest.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInput, "chain id: %v", chainID)
	}
	h := sha512.New()
	h.Write(SignCodeV1)
	h.Write([]byte{byte(len(chainID))})
	h.Write([]byte(chainID))
	var seqBytes [8]byte
	binary.BigEndian.PutUint64(seqBytes[:], uint64(seq))
	h.Write(seqBytes[:])
	h.Write(payload)
	return h.Sum(nil), nil
}

// SignTx signs the transaction with the given key and sequence. The
// sequence must be the one currently stored for the key.
func SignTx(key *crypto.PrivateKey, tx SignedTx, chainID string, seq int64) (*StdSignature, error) {
	payload, err := tx.GetSignBytes()
	if err != nil {
		return nil, err
	}
	digest, err := BuildSignBytes(payload, chainID, seq)
	if err != nil {
		return nil, err
	}
	sig, err := key.Sign(digest)
	if err != nil {
		return nil, err
	}
	return &StdSignature{Pubkey: key.PublicKey(), Signature: sig, Sequence: seq}, nil
}
