package sigs

import (
	"context"
	"testing"

	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/crypto"
	"github.com/iov-one/crowdvest/errors"
	"github.com/iov-one/crowdvest/store"
	"github.com/iov-one/crowdvest/weavetest"
	"github.com/iov-one/crowdvest/weavetest/assert"
)

// signerHandler records the signers visible to the wrapped handler.
type signerHandler struct {
	signers []crowdvest.Condition
}

func (h *signerHandler) Check(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx) (*crowdvest.CheckResult, error) {
	h.signers = Authenticate{}.GetConditions(ctx)
	return &crowdvest.CheckResult{}, nil
}

func (h *signerHandler) Deliver(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx) (*crowdvest.DeliverResult, error) {
	h.signers = Authenticate{}.GetConditions(ctx)
	return &crowdvest.DeliverResult{}, nil
}

func TestDecorator(t *testing.T) {
	chainID := "deco-rate"
	ctx := crowdvest.WithChainID(context.Background(), chainID)
	kv := store.MemStore()

	priv := crypto.GenPrivKeyEd25519()
	perm := priv.PublicKey().Condition()

	unsigned := NewStdTx([]byte("foo"))
	signed := NewStdTx([]byte("foo"))
	sig, err := SignTx(priv, signed, chainID, 0)
	assert.Nil(t, err)
	signed.Signatures = []*StdSignature{sig}

	signedAgain := NewStdTx([]byte("foo"))
	sig1, err := SignTx(priv, signedAgain, chainID, 1)
	assert.Nil(t, err)
	signedAgain.Signatures = []*StdSignature{sig1}

	h := &signerHandler{}
	d := NewDecorator()

	_, err = d.Check(ctx, kv, unsigned, h)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = d.Check(ctx, kv, signed, h)
	assert.Nil(t, err)
	assert.Equal(t, []crowdvest.Condition{perm}, h.signers)

	// Replay of sequence zero is rejected.
	_, err = d.Deliver(ctx, kv, signed, h)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	_, err = d.Deliver(ctx, kv, signedAgain, h)
	assert.Nil(t, err)
	assert.Equal(t, []crowdvest.Condition{perm}, h.signers)

	// A transaction that does not carry signatures at all.
	_, err = d.Deliver(ctx, kv, &weavetest.Tx{}, h)
	assert.IsErr(t, errors.ErrUnauthorized, err)

	// Allowing missing signatures passes the transaction down with no
	// signers.
	h = &signerHandler{}
	_, err = d.AllowMissingSigs().Deliver(ctx, kv, unsigned, h)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(h.signers))

	_, err = d.AllowMissingSigs().Check(ctx, kv, &weavetest.Tx{}, h)
	assert.Nil(t, err)
	assert.Equal(t, 0, len(h.signers))
}

func TestAuthenticate(t *testing.T) {
	a := weavetest.NewCondition()
	b := weavetest.NewCondition()

	ctx := withSigners(context.Background(), []crowdvest.Condition{a})
	auth := Authenticate{}

	if !auth.HasAddress(ctx, a.Address()) {
		t.Fatal("signer a not found")
	}
	if auth.HasAddress(ctx, b.Address()) {
		t.Fatal("signer b found")
	}
	if got := auth.GetConditions(context.Background()); got != nil {
		t.Fatalf("unexpected conditions: %v", got)
	}
}
