package client

import (
	"context"

	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/app"
	"github.com/iov-one/crowdvest/crypto"
	"github.com/iov-one/crowdvest/errors"
	"github.com/iov-one/crowdvest/x/cash"
	"github.com/iov-one/crowdvest/x/invest"
	"github.com/iov-one/crowdvest/x/sigs"
)

// Balance returns the amount of coins held by given address.
func (c *Client) Balance(addr crowdvest.Address) (uint64, error) {
	return cash.NewController(cash.NewBucket()).Balance(c.Store(), addr)
}

// Proposal returns the proposal stored under given ID.
func (c *Client) Proposal(id []byte) (*invest.Proposal, error) {
	var p invest.Proposal
	if err := invest.NewProposalBucket().One(c.Store(), id, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Investments returns all investments made into the proposal with given ID,
// in the order they were made.
func (c *Client) Investments(proposalID []byte) ([]*invest.Investment, error) {
	res := c.Query(RequestQuery{Path: "/investments/proposal", Data: proposalID})
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	var keys, values app.ResultSet
	if err := keys.Unmarshal(res.Key); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal keys")
	}
	if err := values.Unmarshal(res.Value); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal values")
	}
	models, err := app.JoinResults(&keys, &values)
	if err != nil {
		return nil, err
	}
	out := make([]*invest.Investment, len(models))
	for i, m := range models {
		var inv invest.Investment
		if err := inv.Unmarshal(m.Value); err != nil {
			return nil, errors.Wrapf(errors.ErrModel, "investment %X: %s", m.Key, err)
		}
		out[i] = &inv
	}
	return out, nil
}

// NextNonce returns the sequence the signer must use for its next
// signature.
func (c *Client) NextNonce(signer crowdvest.Address) (int64, error) {
	return sigs.NextNonce(c.Store(), signer)
}

// SignAndCommit signs the transaction with every key, using the current
// sequence of each signer, and waits until it is included in a block.
func (c *Client) SignAndCommit(ctx context.Context, tx SignableTx, chainID string, keys ...*crypto.PrivateKey) (*CommitResult, error) {
	for _, key := range keys {
		seq, err := c.NextNonce(key.PublicKey().Address())
		if err != nil {
			return nil, errors.Wrap(err, "nonce")
		}
		sig, err := sigs.SignTx(key, tx, chainID, seq)
		if err != nil {
			return nil, errors.Wrap(err, "sign")
		}
		tx.AddSignature(sig)
	}
	return c.CommitTx(ctx, tx)
}
