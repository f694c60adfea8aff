// Package sigs verifies the ed25519 signatures of a transaction and keeps a
// per key sequence so that a signed transaction is accepted only once.
package sigs

import (
	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/errors"
)

// RegisterQuery exposes the signer sequences under "/auth".
func RegisterQuery(qr crowdvest.QueryRouter) {
	NewBucket().Register("auth", qr)
}

// Decorator puts the verified signers of a transaction into the context.
// Investors and the authority both authorize their messages this way.
type Decorator struct {
	optional bool
}

var _ crowdvest.Decorator = Decorator{}

// NewDecorator rejects transactions without a signature.
func NewDecorator() Decorator {
	return Decorator{}
}

// AllowMissingSigs lets unsigned transactions through with no signers in
// the context. The handler is then responsible for rejecting them.
func (d Decorator) AllowMissingSigs() Decorator {
	return Decorator{optional: true}
}

func (d Decorator) Check(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx, next crowdvest.Checker) (*crowdvest.CheckResult, error) {
	ctx, err := d.withVerifiedSigners(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Check(ctx, db, tx)
}

func (d Decorator) Deliver(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx, next crowdvest.Deliverer) (*crowdvest.DeliverResult, error) {
	ctx, err := d.withVerifiedSigners(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}

// withVerifiedSigners bumps the signer sequences in db. A check run works on
// the mempool view, so its bumps never reach the committed state.
func (d Decorator) withVerifiedSigners(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx) (crowdvest.Context, error) {
	stx, ok := tx.(SignedTx)
	if !ok {
		if d.optional {
			return withSigners(ctx, nil), nil
		}
		return nil, errors.Wrap(errors.ErrUnauthorized, "transaction cannot be signed")
	}
	signers, err := VerifyTxSignatures(db, stx, crowdvest.GetChainID(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "cannot verify signatures")
	}
	if len(signers) == 0 && !d.optional {
		return nil, errors.Wrap(errors.ErrUnauthorized, "missing signature")
	}
	return withSigners(ctx, signers), nil
}
