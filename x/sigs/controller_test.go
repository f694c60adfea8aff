package sigs

import (
	"crypto/sha512"
	"testing"

	"github.com/iov-one/crowdvest/crypto"
	"github.com/iov-one/crowdvest/errors"
	"github.com/iov-one/crowdvest/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSignBytes(t *testing.T) {
	a, err := BuildSignBytes([]byte("foo"), "test-chain", 7)
	require.NoError(t, err)
	assert.Len(t, a, 64)

	b, err := BuildSignBytes([]byte("foo"), "test-chain", 8)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	c, err := BuildSignBytes([]byte("foo"), "other-chain", 7)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)

	_, err = BuildSignBytes([]byte("foo"), "test-chain", -1)
	assert.True(t, errors.ErrInput.Is(err))

	_, err = BuildSignBytes([]byte("foo"), "bad chain id!", 1)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestBuildSignBytesLayout(t *testing.T) {
	got, err := BuildSignBytes([]byte("payload"), "crowd-1", 258)
	require.NoError(t, err)

	raw := []byte{0, 0xCA, 0xFE, 0, 7}
	raw = append(raw, "crowd-1"...)
	raw = append(raw, 0, 0, 0, 0, 0, 0, 1, 2)
	raw = append(raw, "payload"...)
	want := sha512.Sum512(raw)
	assert.Equal(t, want[:], got)
}

func TestVerifySignature(t *testing.T) {
	kv := store.MemStore()
	priv := crypto.GenPrivKeyEd25519()
	addr := priv.PublicKey().Address()
	bz := []byte("my special valentine")
	chainID := "emo-music-2345"

	sig0, err := SignTx(priv, NewStdTx(bz), chainID, 0)
	require.NoError(t, err)
	sig1, err := SignTx(priv, NewStdTx(bz), chainID, 1)
	require.NoError(t, err)

	// The sequence of a new signer is zero.
	seq, err := NextNonce(kv, addr)
	require.NoError(t, err)
	assert.EqualValues(t, 0, seq)

	// A signature for a future sequence is rejected.
	_, err = VerifySignature(kv, sig1, bz, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	cond, err := VerifySignature(kv, sig0, bz, chainID)
	require.NoError(t, err)
	assert.Equal(t, priv.PublicKey().Condition(), cond)

	seq, err = NextNonce(kv, addr)
	require.NoError(t, err)
	assert.EqualValues(t, 1, seq)

	// Replaying the same signature fails.
	_, err = VerifySignature(kv, sig0, bz, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// Signature for another chain does not verify.
	_, err = VerifySignature(kv, sig1, bz, "other-chain-id")
	assert.True(t, errors.ErrUnauthorized.Is(err))

	// Signature over other bytes does not verify.
	_, err = VerifySignature(kv, sig1, []byte("tampered"), chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))

	_, err = VerifySignature(kv, sig1, bz, chainID)
	require.NoError(t, err)

	// Missing parts of a signature are not accepted.
	_, err = VerifySignature(kv, &StdSignature{Pubkey: priv.PublicKey(), Sequence: 2}, bz, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	_, err = VerifySignature(kv, &StdSignature{Signature: sig1.Signature, Sequence: 2}, bz, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))
}

func TestVerifyTxSignatures(t *testing.T) {
	kv := store.MemStore()
	chainID := "test-chain-1"
	a := crypto.GenPrivKeyEd25519()
	b := crypto.GenPrivKeyEd25519()

	tx := NewStdTx([]byte("payload"))
	sigA, err := SignTx(a, tx, chainID, 0)
	require.NoError(t, err)
	sigB, err := SignTx(b, tx, chainID, 0)
	require.NoError(t, err)

	// No signatures is not an error at this level.
	signers, err := VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	assert.Empty(t, signers)

	tx.Signatures = []*StdSignature{sigA, sigB}
	signers, err = VerifyTxSignatures(kv, tx, chainID)
	require.NoError(t, err)
	require.Len(t, signers, 2)
	assert.Equal(t, a.PublicKey().Condition(), signers[0])
	assert.Equal(t, b.PublicKey().Condition(), signers[1])

	// Second attempt replays both sequences.
	_, err = VerifyTxSignatures(kv, tx, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err))
}

func TestUserDataValidate(t *testing.T) {
	pub := crypto.GenPrivKeyEd25519().PublicKey()

	u := NewUser(pub)
	assert.NoError(t, u.Validate())

	u.Sequence = 5
	assert.NoError(t, u.Validate())

	assert.True(t, errors.ErrModel.Is((&UserData{Metadata: u.Metadata, Sequence: 1}).Validate()))
	assert.True(t, errors.ErrModel.Is((&UserData{Metadata: u.Metadata, Pubkey: pub, Sequence: -1}).Validate()))
	assert.True(t, errors.ErrMetadata.Is((&UserData{Pubkey: pub}).Validate()))

	u.Sequence = maxSequenceValue
	assert.True(t, errors.ErrOverflow.Is(u.CheckAndIncrementSequence(maxSequenceValue)))
}
