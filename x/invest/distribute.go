package invest

import (
	"bytes"
	"math/bits"

	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/errors"
	"github.com/iov-one/crowdvest/orm"
)

// Share returns the part of the revenue that an investment of given amount
// earns when total was invested into the proposal:
//
//	floor(amount * revenue / total)
//
// The product is computed with 128 bits so it never overflows. The result
// does not fit 64 bits only if amount is greater than total.
func Share(amount, revenue, total uint64) (uint64, error) {
	if total == 0 {
		return 0, errors.Wrap(errors.ErrState, "nothing invested")
	}
	hi, lo := bits.Mul64(amount, revenue)
	if hi >= total {
		return 0, errors.Wrapf(errors.ErrOverflow, "share of %d in %d", amount, total)
	}
	quo, _ := bits.Div64(hi, lo, total)
	return quo, nil
}

// payout is a single transfer from the vault to an investor.
type payout struct {
	investmentID []byte
	investor     crowdvest.Address
	share        uint64
}

// distributionPlan is the outcome of resolving all investor pairs. It is
// computed before any funds are moved.
type distributionPlan struct {
	payouts []payout
	// stake is the sum of all processed investment amounts, including
	// those that earned a zero share.
	stake uint64
}

// total returns the sum of all shares. It never exceeds the revenue.
func (p *distributionPlan) total() uint64 {
	var sum uint64
	for _, po := range p.payouts {
		sum += po.share
	}
	return sum
}

// planDistribution resolves the investments that take part in the
// distribution of revenue for the given proposal. When no pairs are given all
// investments of the proposal are used, in creation order.
func planDistribution(
	db crowdvest.ReadOnlyKVStore,
	investments orm.ModelBucket,
	proposalID []byte,
	proposal *Proposal,
	revenue uint64,
	pairs []*InvestorPair,
) (*distributionPlan, error) {
	var (
		ids  [][]byte
		invs []Investment
		err  error
	)
	if len(pairs) == 0 {
		ids, invs, err = proposalInvestments(db, investments, proposalID)
	} else {
		ids, invs, err = pairedInvestments(db, investments, proposalID, pairs)
	}
	if err != nil {
		return nil, err
	}

	plan := &distributionPlan{}
	for i, inv := range invs {
		share, err := Share(inv.Amount, revenue, proposal.TotalInvested)
		if err != nil {
			return nil, errors.Wrapf(err, "investment %X", ids[i])
		}
		plan.stake += inv.Amount
		if share == 0 {
			continue
		}
		plan.payouts = append(plan.payouts, payout{
			investmentID: ids[i],
			investor:     inv.Investor,
			share:        share,
		})
	}
	return plan, nil
}

func proposalInvestments(db crowdvest.ReadOnlyKVStore, investments orm.ModelBucket, proposalID []byte) ([][]byte, []Investment, error) {
	var invs []Investment
	ids, err := investments.ByIndex(db, "proposal", proposalID, &invs)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot list investments")
	}
	return ids, invs, nil
}

// pairedInvestments loads the investments referenced by the pairs. A
// reference that does not resolve to an investment aborts the distribution.
// Investments of other proposals are ignored.
func pairedInvestments(db crowdvest.ReadOnlyKVStore, investments orm.ModelBucket, proposalID []byte, pairs []*InvestorPair) ([][]byte, []Investment, error) {
	var (
		ids  [][]byte
		invs []Investment
		seen = make(map[string]struct{}, len(pairs))
	)
	for i, pair := range pairs {
		var inv Investment
		switch err := investments.One(db, pair.InvestmentID, &inv); {
		case err == nil:
		case errors.ErrNotFound.Is(err), errors.ErrModel.Is(err):
			return nil, nil, errors.Wrapf(errors.ErrReference, "pair %d: %X is not an investment", i, pair.InvestmentID)
		default:
			return nil, nil, errors.Wrapf(err, "pair %d", i)
		}
		if err := inv.Validate(); err != nil {
			return nil, nil, errors.Wrapf(errors.ErrReference, "pair %d: %X is not an investment", i, pair.InvestmentID)
		}

		if !bytes.Equal(inv.ProposalID, proposalID) {
			continue
		}
		if !inv.Investor.Equals(pair.Investor) {
			return nil, nil, errors.Wrapf(errors.ErrReference, "pair %d: investor does not match", i)
		}
		key := string(pair.InvestmentID)
		if _, ok := seen[key]; ok {
			return nil, nil, errors.Wrapf(errors.ErrReference, "pair %d: investment %X referenced twice", i, pair.InvestmentID)
		}
		seen[key] = struct{}{}

		ids = append(ids, pair.InvestmentID)
		invs = append(invs, inv)
	}
	return ids, invs, nil
}

// pay moves every share from the vault to its investor. It stops at the
// first failure and leaves cleaning up to the caller.
func (p *distributionPlan) pay(db crowdvest.KVStore, ctrl CashController, vault crowdvest.Address) error {
	for _, po := range p.payouts {
		if err := ctrl.MoveCoins(db, vault, po.investor, po.share); err != nil {
			return errors.Wrapf(err, "pay investment %X", po.investmentID)
		}
	}
	return nil
}
