package invest

import (
	"context"
	"testing"

	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/store"
	"github.com/iov-one/crowdvest/weavetest"
	"github.com/iov-one/crowdvest/weavetest/assert"
	"github.com/iov-one/crowdvest/x/cash"
	"github.com/iov-one/crowdvest/x/utils"
)

// ledger is a test environment with all invest handlers registered. Every
// delivered message runs inside of a savepoint the same way the application
// executes transactions.
type ledger struct {
	t        testing.TB
	db       crowdvest.CacheableKVStore
	ctrl     cash.BaseController
	auth     *weavetest.CtxAuth
	handlers map[string]crowdvest.Handler
}

func newLedger(t testing.TB, metrics *Metrics) *ledger {
	l := &ledger{
		t:    t,
		db:   store.MemStore(),
		ctrl: cash.NewController(cash.NewBucket()),
		auth: &weavetest.CtxAuth{Key: "auth"},
	}
	r := &registry{}
	RegisterRoutes(r, l.auth, l.ctrl, metrics)
	l.handlers = r.handlers
	return l
}

// exec checks and delivers given message signed by given conditions.
func (l *ledger) exec(msg crowdvest.Msg, signers ...crowdvest.Condition) (*crowdvest.DeliverResult, error) {
	l.t.Helper()
	h, ok := l.handlers[msg.Path()]
	if !ok {
		l.t.Fatalf("no handler for %q", msg.Path())
	}
	h = weavetest.Decorate(h, utils.NewSavepoint().OnDeliver())

	ctx := l.auth.SetConditions(context.Background(), signers...)
	tx := &weavetest.Tx{Msg: msg}
	if _, err := h.Check(ctx, l.db, tx); err != nil {
		return nil, err
	}
	return h.Deliver(ctx, l.db, tx)
}

func (l *ledger) mustExec(msg crowdvest.Msg, signers ...crowdvest.Condition) []byte {
	l.t.Helper()
	res, err := l.exec(msg, signers...)
	if err != nil {
		l.t.Fatalf("cannot execute %q: %+v", msg.Path(), err)
	}
	return res.Data
}

func (l *ledger) issue(c crowdvest.Condition, amount uint64) {
	l.t.Helper()
	assert.Nil(l.t, l.ctrl.IssueCoins(l.db, c.Address(), amount))
}

func (l *ledger) balance(addr crowdvest.Address) uint64 {
	l.t.Helper()
	b, err := l.ctrl.Balance(l.db, addr)
	assert.Nil(l.t, err)
	return b
}

func (l *ledger) proposal(id []byte) *Proposal {
	l.t.Helper()
	var p Proposal
	assert.Nil(l.t, NewProposalBucket().One(l.db, id, &p))
	return &p
}

func (l *ledger) initialize(owner crowdvest.Condition) {
	l.t.Helper()
	l.mustExec(&InitializeMsg{Metadata: meta(), Owner: owner.Address()}, owner)
}

func (l *ledger) createProposal(creator crowdvest.Condition) []byte {
	l.t.Helper()
	return l.mustExec(&CreateProposalMsg{Metadata: meta(), Description: "test"}, creator)
}

func (l *ledger) invest(proposalID []byte, investor crowdvest.Condition, amount uint64) []byte {
	l.t.Helper()
	return l.mustExec(&InvestMsg{Metadata: meta(), ProposalID: proposalID, Amount: amount}, investor)
}

func (l *ledger) accept(proposalID []byte, owner crowdvest.Condition) {
	l.t.Helper()
	l.mustExec(&AcceptProposalMsg{Metadata: meta(), ProposalID: proposalID}, owner)
}

func (l *ledger) reject(proposalID []byte, owner crowdvest.Condition) {
	l.t.Helper()
	l.mustExec(&RejectProposalMsg{Metadata: meta(), ProposalID: proposalID}, owner)
}

func meta() *crowdvest.Metadata {
	return &crowdvest.Metadata{Schema: 1}
}

type registry struct {
	handlers map[string]crowdvest.Handler
}

func (r *registry) Handle(path string, h crowdvest.Handler) {
	if r.handlers == nil {
		r.handlers = make(map[string]crowdvest.Handler)
	}
	r.handlers[path] = h
}
