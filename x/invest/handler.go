package invest

import (
	"fmt"

	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/errors"
	"github.com/iov-one/crowdvest/orm"
	"github.com/iov-one/crowdvest/x"
)

const (
	initializeCost        int64 = 100
	createProposalCost    int64 = 200
	investCost            int64 = 100
	resolveProposalCost   int64 = 50
	distributeRewardsCost int64 = 500
)

// CashController is the functionality of the cash extension that is needed
// to escrow investments and pay rewards.
type CashController interface {
	Balance(crowdvest.ReadOnlyKVStore, crowdvest.Address) (uint64, error)
	MoveCoins(crowdvest.KVStore, crowdvest.Address, crowdvest.Address, uint64) error
}

// RegisterRoutes registers handlers for all messages of this extension.
// Metrics are optional.
func RegisterRoutes(r crowdvest.Registry, auth x.Authenticator, ctrl CashController, metrics *Metrics) {
	r.Handle(pathInitializeMsg, &InitializeHandler{
		auth:   auth,
		bucket: NewConfigBucket(),
	})
	r.Handle(pathCreateProposalMsg, &CreateProposalHandler{
		auth:    auth,
		bucket:  NewProposalBucket(),
		metrics: metrics,
	})
	r.Handle(pathInvestMsg, &InvestHandler{
		auth:        auth,
		ctrl:        ctrl,
		proposals:   NewProposalBucket(),
		investments: NewInvestmentBucket(),
		metrics:     metrics,
	})
	r.Handle(pathAcceptProposalMsg, &ResolveProposalHandler{
		auth:   auth,
		bucket: NewProposalBucket(),
		status: ProposalStatusAccepted,
	})
	r.Handle(pathRejectProposalMsg, &ResolveProposalHandler{
		auth:   auth,
		bucket: NewProposalBucket(),
		status: ProposalStatusRejected,
	})
	r.Handle(pathDistributeRewardsMsg, &DistributeRewardsHandler{
		auth:        auth,
		ctrl:        ctrl,
		proposals:   NewProposalBucket(),
		investments: NewInvestmentBucket(),
		metrics:     metrics,
	})
}

// RegisterQuery registers proposals, investments and the authority
// declaration for querying.
func RegisterQuery(qr crowdvest.QueryRouter) {
	NewProposalBucket().Register("proposals", qr)
	NewInvestmentBucket().Register("investments", qr)
	NewConfigBucket().Register("investconf", qr)
}

// InitializeHandler declares the authority. Any signer may do it, but only
// once.
type InitializeHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
}

var _ crowdvest.Handler = (*InitializeHandler)(nil)

func (h *InitializeHandler) Check(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx) (*crowdvest.CheckResult, error) {
	if _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &crowdvest.CheckResult{GasAllocated: initializeCost}, nil
}

func (h *InitializeHandler) Deliver(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx) (*crowdvest.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	conf := &Config{
		Metadata: &crowdvest.Metadata{Schema: 1},
		Owner:    msg.Owner,
	}
	if _, err := h.bucket.Put(db, []byte(configKey), conf); err != nil {
		return nil, errors.Wrap(err, "cannot store authority")
	}
	return &crowdvest.DeliverResult{}, nil
}

func (h *InitializeHandler) validate(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx) (*InitializeMsg, error) {
	var msg InitializeMsg
	if err := crowdvest.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if _, err := x.MainSignerAddress(ctx, h.auth); err != nil {
		return nil, err
	}
	switch err := h.bucket.Has(db, []byte(configKey)); {
	case err == nil:
		return nil, errors.Wrap(errors.ErrState, "authority already initialized")
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}
	return &msg, nil
}

// CreateProposalHandler creates pending proposals owned by the main signer.
type CreateProposalHandler struct {
	auth    x.Authenticator
	bucket  orm.ModelBucket
	metrics *Metrics
}

var _ crowdvest.Handler = (*CreateProposalHandler)(nil)

func (h *CreateProposalHandler) Check(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx) (*crowdvest.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &crowdvest.CheckResult{GasAllocated: createProposalCost}, nil
}

// Deliver stores a new proposal and returns its ID as the result data.
func (h *CreateProposalHandler) Deliver(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx) (*crowdvest.DeliverResult, error) {
	msg, creator, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	proposal := &Proposal{
		Metadata:    &crowdvest.Metadata{Schema: 1},
		Creator:     creator,
		Description: msg.Description,
		Status:      ProposalStatusPending,
	}
	id, err := h.bucket.Put(db, nil, proposal)
	if err != nil {
		return nil, errors.Wrap(err, "cannot store proposal")
	}
	h.metrics.proposalCreated()
	return &crowdvest.DeliverResult{Data: id}, nil
}

func (h *CreateProposalHandler) validate(ctx crowdvest.Context, tx crowdvest.Tx) (*CreateProposalMsg, crowdvest.Address, error) {
	var msg CreateProposalMsg
	if err := crowdvest.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	creator, err := x.MainSignerAddress(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, creator, nil
}

// InvestHandler escrows funds into a proposal.
type InvestHandler struct {
	auth        x.Authenticator
	ctrl        CashController
	proposals   orm.ModelBucket
	investments orm.ModelBucket
	metrics     *Metrics
}

var _ crowdvest.Handler = (*InvestHandler)(nil)

func (h *InvestHandler) Check(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx) (*crowdvest.CheckResult, error) {
	msg, investor, _, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	balance, err := h.ctrl.Balance(db, investor)
	if err != nil {
		return nil, errors.Wrap(err, "investor balance")
	}
	if balance < msg.Amount {
		return nil, errors.Wrapf(errors.ErrInsufficientFunds, "has %d, needs %d", balance, msg.Amount)
	}
	return &crowdvest.CheckResult{GasAllocated: investCost}, nil
}

// Deliver records the investment, increases the proposal total and moves
// the funds into the proposal escrow. The investment ID is returned as the
// result data.
func (h *InvestHandler) Deliver(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx) (*crowdvest.DeliverResult, error) {
	msg, investor, proposal, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	investment := &Investment{
		Metadata:   &crowdvest.Metadata{Schema: 1},
		ProposalID: msg.ProposalID,
		Investor:   investor,
		Amount:     msg.Amount,
	}
	id, err := h.investments.Put(db, nil, investment)
	if err != nil {
		return nil, errors.Wrap(err, "cannot store investment")
	}

	proposal.TotalInvested += msg.Amount
	if _, err := h.proposals.Put(db, msg.ProposalID, proposal); err != nil {
		return nil, errors.Wrap(err, "cannot store proposal")
	}

	if err := h.ctrl.MoveCoins(db, investor, EscrowAddress(msg.ProposalID), msg.Amount); err != nil {
		return nil, errors.Wrap(err, "cannot escrow funds")
	}
	h.metrics.invested(msg.Amount)
	return &crowdvest.DeliverResult{Data: id}, nil
}

func (h *InvestHandler) validate(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx) (*InvestMsg, crowdvest.Address, *Proposal, error) {
	var msg InvestMsg
	if err := crowdvest.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}

	investor := msg.Investor
	if investor == nil {
		signer, err := x.MainSignerAddress(ctx, h.auth)
		if err != nil {
			return nil, nil, nil, err
		}
		investor = signer
	} else if !h.auth.HasAddress(ctx, investor) {
		return nil, nil, nil, errors.Wrap(errors.ErrUnauthorized, "investor signature missing")
	}

	var proposal Proposal
	if err := h.proposals.One(db, msg.ProposalID, &proposal); err != nil {
		return nil, nil, nil, errors.Wrap(err, "cannot load proposal")
	}
	if sum := proposal.TotalInvested + msg.Amount; sum < proposal.TotalInvested {
		return nil, nil, nil, errors.Wrapf(errors.ErrOverflow, "total invested %d", proposal.TotalInvested)
	}
	return &msg, investor, &proposal, nil
}

// ResolveProposalHandler moves a pending proposal into its final state. The
// same handler serves both accepting and rejecting.
type ResolveProposalHandler struct {
	auth   x.Authenticator
	bucket orm.ModelBucket
	status ProposalStatus
}

var _ crowdvest.Handler = (*ResolveProposalHandler)(nil)

func (h *ResolveProposalHandler) Check(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx) (*crowdvest.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &crowdvest.CheckResult{GasAllocated: resolveProposalCost}, nil
}

func (h *ResolveProposalHandler) Deliver(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx) (*crowdvest.DeliverResult, error) {
	id, proposal, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	proposal.Status = h.status
	if _, err := h.bucket.Put(db, id, proposal); err != nil {
		return nil, errors.Wrap(err, "cannot store proposal")
	}
	return &crowdvest.DeliverResult{}, nil
}

func (h *ResolveProposalHandler) validate(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx) ([]byte, *Proposal, error) {
	var id []byte
	switch h.status {
	case ProposalStatusAccepted:
		var msg AcceptProposalMsg
		if err := crowdvest.LoadMsg(tx, &msg); err != nil {
			return nil, nil, errors.Wrap(err, "load msg")
		}
		id = msg.ProposalID
	case ProposalStatusRejected:
		var msg RejectProposalMsg
		if err := crowdvest.LoadMsg(tx, &msg); err != nil {
			return nil, nil, errors.Wrap(err, "load msg")
		}
		id = msg.ProposalID
	default:
		return nil, nil, errors.Wrapf(errors.ErrHuman, "cannot resolve to %s", h.status)
	}

	authority, err := LoadAuthority(db)
	if err != nil {
		return nil, nil, err
	}
	if err := authority.Authorize(ctx, h.auth); err != nil {
		return nil, nil, err
	}

	var proposal Proposal
	if err := h.bucket.One(db, id, &proposal); err != nil {
		return nil, nil, errors.Wrap(err, "cannot load proposal")
	}
	if proposal.Status != ProposalStatusPending {
		return nil, nil, errors.Wrapf(errors.ErrState, "proposal is %s", proposal.Status)
	}
	return id, &proposal, nil
}

// DistributeRewardsHandler pays the revenue of an accepted proposal to its
// investors.
type DistributeRewardsHandler struct {
	auth        x.Authenticator
	ctrl        CashController
	proposals   orm.ModelBucket
	investments orm.ModelBucket
	metrics     *Metrics
}

var _ crowdvest.Handler = (*DistributeRewardsHandler)(nil)

// Check resolves all investor pairs without moving any funds.
func (h *DistributeRewardsHandler) Check(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx) (*crowdvest.CheckResult, error) {
	msg, proposal, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if _, err := planDistribution(db, h.investments, msg.ProposalID, proposal, msg.RevenueAmount, msg.Pairs); err != nil {
		return nil, err
	}
	return &crowdvest.CheckResult{GasAllocated: distributeRewardsCost}, nil
}

// Deliver pays every share and marks the proposal as distributed. Any
// failure leaves the partially paid state to be discarded by the caller.
func (h *DistributeRewardsHandler) Deliver(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx) (*crowdvest.DeliverResult, error) {
	msg, proposal, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	plan, err := planDistribution(db, h.investments, msg.ProposalID, proposal, msg.RevenueAmount, msg.Pairs)
	if err != nil {
		return nil, err
	}
	if err := plan.pay(db, h.ctrl, msg.Vault); err != nil {
		return nil, err
	}

	proposal.RewardsDistributed = true
	if _, err := h.proposals.Put(db, msg.ProposalID, proposal); err != nil {
		return nil, errors.Wrap(err, "cannot store proposal")
	}

	paid := plan.total()
	if plan.stake < proposal.TotalInvested {
		crowdvest.GetLogger(ctx).Info("rewards distributed to a part of the investors only",
			"proposal", fmt.Sprintf("%X", msg.ProposalID),
			"stake", plan.stake,
			"total", proposal.TotalInvested)
	}
	h.metrics.distributed(paid)

	return &crowdvest.DeliverResult{
		Log: fmt.Sprintf("paid %d investments, %d total", len(plan.payouts), paid),
	}, nil
}

func (h *DistributeRewardsHandler) validate(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx) (*DistributeRewardsMsg, *Proposal, error) {
	var msg DistributeRewardsMsg
	if err := crowdvest.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}

	authority, err := LoadAuthority(db)
	if err != nil {
		return nil, nil, err
	}
	if err := authority.Authorize(ctx, h.auth); err != nil {
		return nil, nil, err
	}
	if !h.auth.HasAddress(ctx, msg.Vault) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "vault signature missing")
	}

	var proposal Proposal
	if err := h.proposals.One(db, msg.ProposalID, &proposal); err != nil {
		return nil, nil, errors.Wrap(err, "cannot load proposal")
	}
	if proposal.Status != ProposalStatusAccepted {
		return nil, nil, errors.Wrapf(errors.ErrState, "not accepted, proposal is %s", proposal.Status)
	}
	if proposal.RewardsDistributed {
		return nil, nil, errors.Wrap(errors.ErrState, "already distributed")
	}

	balance, err := h.ctrl.Balance(db, msg.Vault)
	if err != nil {
		return nil, nil, errors.Wrap(err, "vault balance")
	}
	if balance < msg.RevenueAmount {
		return nil, nil, errors.Wrapf(errors.ErrInsufficientFunds, "vault has %d, needs %d", balance, msg.RevenueAmount)
	}
	if proposal.TotalInvested == 0 {
		return nil, nil, errors.Wrap(errors.ErrState, "nothing invested")
	}
	return &msg, &proposal, nil
}
