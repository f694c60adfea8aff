package cash

import (
	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/errors"
	"github.com/iov-one/crowdvest/x"
)

// RegisterRoutes routes token transfers between wallets.
func RegisterRoutes(r crowdvest.Registry, auth x.Authenticator, control Controller) {
	r.Handle(pathSendMsg, sendHandler{auth: auth, control: control})
}

// RegisterQuery exposes balances under "/wallets".
func RegisterQuery(qr crowdvest.QueryRouter) {
	NewBucket().Register("wallets", qr)
}

// sendHandler moves tokens out of a wallet on behalf of its owner. Funding
// and investment flows go through the escrow ledger instead.
type sendHandler struct {
	auth    x.Authenticator
	control Controller
}

// Check does not look at balances. Funds are only known at delivery.
func (h sendHandler) Check(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx) (*crowdvest.CheckResult, error) {
	if _, err := h.authorized(ctx, tx); err != nil {
		return nil, err
	}
	return &crowdvest.CheckResult{GasAllocated: sendTxCost}, nil
}

func (h sendHandler) Deliver(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx) (*crowdvest.DeliverResult, error) {
	msg, err := h.authorized(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(db, msg.Source, msg.Destination, msg.Amount); err != nil {
		return nil, errors.Wrapf(err, "send from %s", msg.Source)
	}
	return &crowdvest.DeliverResult{}, nil
}

// authorized returns the message once it is valid and signed by the owner
// of the source wallet.
func (h sendHandler) authorized(ctx crowdvest.Context, tx crowdvest.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := crowdvest.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "%s did not sign", msg.Source)
	}
	return &msg, nil
}
