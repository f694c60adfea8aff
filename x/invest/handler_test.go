package invest

import (
	"math"
	"strings"
	"testing"

	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/errors"
	"github.com/iov-one/crowdvest/weavetest"
	"github.com/iov-one/crowdvest/weavetest/assert"
)

func TestInitialize(t *testing.T) {
	owner := weavetest.NewCondition()
	alice := weavetest.NewCondition()

	cases := map[string]struct {
		before  func(*ledger)
		signers []crowdvest.Condition
		msg     *InitializeMsg
		wantErr *errors.Error
	}{
		"any signer can declare the authority": {
			signers: []crowdvest.Condition{alice},
			msg:     &InitializeMsg{Metadata: meta(), Owner: owner.Address()},
		},
		"signature is required": {
			msg:     &InitializeMsg{Metadata: meta(), Owner: owner.Address()},
			wantErr: errors.ErrUnauthorized,
		},
		"owner must be a valid address": {
			signers: []crowdvest.Condition{alice},
			msg:     &InitializeMsg{Metadata: meta(), Owner: crowdvest.Address("owner")},
			wantErr: errors.ErrInput,
		},
		"metadata is required": {
			signers: []crowdvest.Condition{alice},
			msg:     &InitializeMsg{Owner: owner.Address()},
			wantErr: errors.ErrMetadata,
		},
		"authority can be declared only once": {
			before:  func(l *ledger) { l.initialize(alice) },
			signers: []crowdvest.Condition{alice},
			msg:     &InitializeMsg{Metadata: meta(), Owner: owner.Address()},
			wantErr: errors.ErrState,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			l := newLedger(t, nil)
			if tc.before != nil {
				tc.before(l)
			}
			_, err := l.exec(tc.msg, tc.signers...)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			a, err := LoadAuthority(l.db)
			assert.Nil(t, err)
			assert.Equal(t, owner.Address(), a.Owner)
		})
	}
}

func TestCreateProposal(t *testing.T) {
	alice := weavetest.NewCondition()

	cases := map[string]struct {
		signers []crowdvest.Condition
		msg     *CreateProposalMsg
		wantErr *errors.Error
	}{
		"created by the main signer": {
			signers: []crowdvest.Condition{alice, weavetest.NewCondition()},
			msg:     &CreateProposalMsg{Metadata: meta(), Description: "a bakery"},
		},
		"empty description": {
			signers: []crowdvest.Condition{alice},
			msg:     &CreateProposalMsg{Metadata: meta()},
		},
		"longest description": {
			signers: []crowdvest.Condition{alice},
			msg:     &CreateProposalMsg{Metadata: meta(), Description: strings.Repeat("a", 200)},
		},
		"description too long": {
			signers: []crowdvest.Condition{alice},
			msg:     &CreateProposalMsg{Metadata: meta(), Description: strings.Repeat("a", 201)},
			wantErr: errors.ErrInput,
		},
		"description is not UTF-8": {
			signers: []crowdvest.Condition{alice},
			msg:     &CreateProposalMsg{Metadata: meta(), Description: "\xc3\x28"},
			wantErr: errors.ErrInput,
		},
		"signature is required": {
			msg:     &CreateProposalMsg{Metadata: meta(), Description: "a bakery"},
			wantErr: errors.ErrUnauthorized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			l := newLedger(t, nil)
			res, err := l.exec(tc.msg, tc.signers...)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			assert.Equal(t, weavetest.SequenceID(1), res.Data)
			p := l.proposal(res.Data)
			assert.Equal(t, &Proposal{
				Metadata:    meta(),
				Creator:     alice.Address(),
				Description: tc.msg.Description,
				Status:      ProposalStatusPending,
			}, p)
		})
	}
}

func TestProposalIDsAreSequential(t *testing.T) {
	l := newLedger(t, nil)
	alice := weavetest.NewCondition()
	assert.Equal(t, weavetest.SequenceID(1), l.createProposal(alice))
	assert.Equal(t, weavetest.SequenceID(2), l.createProposal(alice))
	assert.Equal(t, weavetest.SequenceID(3), l.createProposal(alice))
}

func TestInvest(t *testing.T) {
	owner := weavetest.NewCondition()
	alice := weavetest.NewCondition()
	bob := weavetest.NewCondition()
	pid := weavetest.SequenceID(1)

	cases := map[string]struct {
		before       func(*ledger)
		signers      []crowdvest.Condition
		msg          *InvestMsg
		wantErr      *errors.Error
		wantInvestor crowdvest.Address
		wantAlice    uint64
		wantEscrow   uint64
		wantTotal    uint64
	}{
		"main signer invests": {
			signers:      []crowdvest.Condition{alice},
			msg:          &InvestMsg{Metadata: meta(), ProposalID: pid, Amount: 30},
			wantInvestor: alice.Address(),
			wantAlice:    70,
			wantEscrow:   30,
			wantTotal:    30,
		},
		"explicit investor that signed": {
			signers:      []crowdvest.Condition{bob, alice},
			msg:          &InvestMsg{Metadata: meta(), ProposalID: pid, Investor: alice.Address(), Amount: 100},
			wantInvestor: alice.Address(),
			wantAlice:    0,
			wantEscrow:   100,
			wantTotal:    100,
		},
		"explicit investor that did not sign": {
			signers:   []crowdvest.Condition{bob},
			msg:       &InvestMsg{Metadata: meta(), ProposalID: pid, Investor: alice.Address(), Amount: 10},
			wantErr:   errors.ErrUnauthorized,
			wantAlice: 100,
		},
		"signature is required": {
			msg:       &InvestMsg{Metadata: meta(), ProposalID: pid, Amount: 10},
			wantErr:   errors.ErrUnauthorized,
			wantAlice: 100,
		},
		"zero amount": {
			signers:   []crowdvest.Condition{alice},
			msg:       &InvestMsg{Metadata: meta(), ProposalID: pid},
			wantErr:   errors.ErrInput,
			wantAlice: 100,
		},
		"unknown proposal": {
			signers:   []crowdvest.Condition{alice},
			msg:       &InvestMsg{Metadata: meta(), ProposalID: weavetest.SequenceID(99), Amount: 10},
			wantErr:   errors.ErrNotFound,
			wantAlice: 100,
		},
		"malformed proposal id": {
			signers:   []crowdvest.Condition{alice},
			msg:       &InvestMsg{Metadata: meta(), ProposalID: []byte("pid"), Amount: 10},
			wantErr:   errors.ErrInput,
			wantAlice: 100,
		},
		"insufficient funds": {
			signers:   []crowdvest.Condition{alice},
			msg:       &InvestMsg{Metadata: meta(), ProposalID: pid, Amount: 101},
			wantErr:   errors.ErrInsufficientFunds,
			wantAlice: 100,
		},
		"investor without a wallet": {
			signers:   []crowdvest.Condition{bob},
			msg:       &InvestMsg{Metadata: meta(), ProposalID: pid, Amount: 1},
			wantErr:   errors.ErrInsufficientFunds,
			wantAlice: 100,
		},
		"rejected proposal still accepts funds": {
			before: func(l *ledger) {
				l.initialize(owner)
				l.reject(pid, owner)
			},
			signers:      []crowdvest.Condition{alice},
			msg:          &InvestMsg{Metadata: meta(), ProposalID: pid, Amount: 1},
			wantInvestor: alice.Address(),
			wantAlice:    99,
			wantEscrow:   1,
			wantTotal:    1,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			l := newLedger(t, nil)
			l.issue(alice, 100)
			l.createProposal(bob)
			if tc.before != nil {
				tc.before(l)
			}

			res, err := l.exec(tc.msg, tc.signers...)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}

			assert.Equal(t, tc.wantAlice, l.balance(alice.Address()))
			assert.Equal(t, tc.wantEscrow, l.balance(EscrowAddress(pid)))
			assert.Equal(t, tc.wantTotal, l.proposal(pid).TotalInvested)

			investments := NewInvestmentBucket()
			if tc.wantErr != nil {
				err := investments.Has(l.db, weavetest.SequenceID(1))
				assert.IsErr(t, errors.ErrNotFound, err)
				return
			}
			var inv Investment
			assert.Nil(t, investments.One(l.db, res.Data, &inv))
			assert.Equal(t, &Investment{
				Metadata:   meta(),
				ProposalID: pid,
				Investor:   tc.wantInvestor,
				Amount:     tc.msg.Amount,
			}, &inv)
		})
	}
}

func TestInvestTotalIsExactSum(t *testing.T) {
	l := newLedger(t, nil)
	alice := weavetest.NewCondition()
	bob := weavetest.NewCondition()
	l.issue(alice, 1000)
	l.issue(bob, 1000)
	pid := l.createProposal(alice)
	other := l.createProposal(alice)

	amounts := []uint64{1, 17, 250, 3, 99}
	var sum uint64
	for i, a := range amounts {
		investor := alice
		if i%2 == 1 {
			investor = bob
		}
		l.invest(pid, investor, a)
		sum += a
	}
	l.invest(other, bob, 7)

	assert.Equal(t, sum, l.proposal(pid).TotalInvested)
	assert.Equal(t, sum, l.balance(EscrowAddress(pid)))
	assert.Equal(t, uint64(7), l.balance(EscrowAddress(other)))

	var invs []Investment
	ids, err := NewInvestmentBucket().ByIndex(l.db, "proposal", pid, &invs)
	assert.Nil(t, err)
	assert.Equal(t, len(amounts), len(invs))
	for i, inv := range invs {
		assert.Equal(t, weavetest.SequenceID(uint64(i+1)), ids[i])
		assert.Equal(t, amounts[i], inv.Amount)
	}
}

func TestInvestOverflow(t *testing.T) {
	l := newLedger(t, nil)
	alice := weavetest.NewCondition()
	bob := weavetest.NewCondition()
	l.issue(alice, math.MaxUint64)
	l.issue(bob, 10)
	pid := l.createProposal(alice)

	l.invest(pid, alice, math.MaxUint64-5)
	l.invest(pid, bob, 5)
	assert.Equal(t, uint64(math.MaxUint64), l.proposal(pid).TotalInvested)

	_, err := l.exec(&InvestMsg{Metadata: meta(), ProposalID: pid, Amount: 1}, bob)
	assert.IsErr(t, errors.ErrOverflow, err)
	assert.Equal(t, uint64(math.MaxUint64), l.proposal(pid).TotalInvested)
	assert.Equal(t, uint64(5), l.balance(bob.Address()))
}

func TestResolveProposal(t *testing.T) {
	owner := weavetest.NewCondition()
	alice := weavetest.NewCondition()
	pid := weavetest.SequenceID(1)

	accept := &AcceptProposalMsg{Metadata: meta(), ProposalID: pid}
	reject := &RejectProposalMsg{Metadata: meta(), ProposalID: pid}

	cases := map[string]struct {
		before     func(*ledger)
		signers    []crowdvest.Condition
		msg        crowdvest.Msg
		wantErr    *errors.Error
		wantStatus ProposalStatus
	}{
		"authority accepts": {
			signers:    []crowdvest.Condition{owner},
			msg:        accept,
			wantStatus: ProposalStatusAccepted,
		},
		"authority rejects": {
			signers:    []crowdvest.Condition{owner},
			msg:        reject,
			wantStatus: ProposalStatusRejected,
		},
		"authority among many signers": {
			signers:    []crowdvest.Condition{alice, owner},
			msg:        accept,
			wantStatus: ProposalStatusAccepted,
		},
		"creator cannot accept": {
			signers:    []crowdvest.Condition{alice},
			msg:        accept,
			wantErr:    errors.ErrUnauthorized,
			wantStatus: ProposalStatusPending,
		},
		"creator cannot reject": {
			signers:    []crowdvest.Condition{alice},
			msg:        reject,
			wantErr:    errors.ErrUnauthorized,
			wantStatus: ProposalStatusPending,
		},
		"accepted proposal cannot be accepted again": {
			before:     func(l *ledger) { l.accept(pid, owner) },
			signers:    []crowdvest.Condition{owner},
			msg:        accept,
			wantErr:    errors.ErrState,
			wantStatus: ProposalStatusAccepted,
		},
		"accepted proposal cannot be rejected": {
			before:     func(l *ledger) { l.accept(pid, owner) },
			signers:    []crowdvest.Condition{owner},
			msg:        reject,
			wantErr:    errors.ErrState,
			wantStatus: ProposalStatusAccepted,
		},
		"rejected proposal cannot be accepted": {
			before:     func(l *ledger) { l.reject(pid, owner) },
			signers:    []crowdvest.Condition{owner},
			msg:        accept,
			wantErr:    errors.ErrState,
			wantStatus: ProposalStatusRejected,
		},
		"unknown proposal": {
			signers:    []crowdvest.Condition{owner},
			msg:        &AcceptProposalMsg{Metadata: meta(), ProposalID: weavetest.SequenceID(2)},
			wantErr:    errors.ErrNotFound,
			wantStatus: ProposalStatusPending,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			l := newLedger(t, nil)
			l.initialize(owner)
			l.createProposal(alice)
			if tc.before != nil {
				tc.before(l)
			}
			_, err := l.exec(tc.msg, tc.signers...)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			assert.Equal(t, tc.wantStatus, l.proposal(pid).Status)
		})
	}
}

func TestResolveProposalWithoutAuthority(t *testing.T) {
	l := newLedger(t, nil)
	alice := weavetest.NewCondition()
	pid := l.createProposal(alice)

	_, err := l.exec(&AcceptProposalMsg{Metadata: meta(), ProposalID: pid}, alice)
	assert.IsErr(t, errors.ErrState, err)
	assert.Equal(t, ProposalStatusPending, l.proposal(pid).Status)
}

func TestQueries(t *testing.T) {
	l := newLedger(t, nil)
	owner := weavetest.NewCondition()
	alice := weavetest.NewCondition()
	l.issue(alice, 100)
	l.initialize(owner)
	pid := l.createProposal(alice)
	l.invest(pid, alice, 10)
	l.invest(pid, alice, 20)

	qr := crowdvest.NewQueryRouter()
	RegisterQuery(qr)

	cases := map[string]struct {
		path  string
		mod   string
		data  []byte
		count int
	}{
		"proposal by id": {
			path:  "/proposals",
			data:  pid,
			count: 1,
		},
		"all proposals": {
			path:  "/proposals",
			mod:   crowdvest.PrefixQueryMod,
			count: 1,
		},
		"investments of a proposal": {
			path:  "/investments/proposal",
			data:  pid,
			count: 2,
		},
		"investments of unknown proposal": {
			path:  "/investments/proposal",
			data:  weavetest.SequenceID(5),
			count: 0,
		},
		"authority": {
			path:  "/investconf",
			data:  []byte("authority"),
			count: 1,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			h := qr.Handler(tc.path)
			if h == nil {
				t.Fatalf("no query handler for %q", tc.path)
			}
			models, err := h.Query(l.db, tc.mod, tc.data)
			assert.Nil(t, err)
			assert.Equal(t, tc.count, len(models))
		})
	}
}
