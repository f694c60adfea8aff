package app

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/crowdvest"
	crowdvestApp "github.com/iov-one/crowdvest/app"
	"github.com/iov-one/crowdvest/commands/server"
	"github.com/iov-one/crowdvest/crypto"
	"github.com/iov-one/crowdvest/errors"
	"github.com/iov-one/crowdvest/weavetest"
	"github.com/iov-one/crowdvest/x/cash"
	"github.com/iov-one/crowdvest/x/invest"
	"github.com/iov-one/crowdvest/x/sigs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
)

const chainID = "test-chain-1"

// testChain drives the application block by block and keeps track of the
// signature sequence of every key.
type testChain struct {
	t      *testing.T
	app    abci.Application
	height int64
	seq    map[string]int64
}

func newTestChain(t *testing.T, appState interface{}) *testChain {
	t.Helper()
	application, err := GenerateApp(&server.Options{Registry: prometheus.NewRegistry()})
	require.NoError(t, err)

	raw, err := json.Marshal(appState)
	require.NoError(t, err)
	application.InitChain(abci.RequestInitChain{ChainId: chainID, AppStateBytes: raw})

	return &testChain{
		t:   t,
		app: application,
		seq: make(map[string]int64),
	}
}

// signedTx wraps the message and signs it with all given keys.
func (c *testChain) signedTx(msg crowdvest.Msg, keys ...*crypto.PrivateKey) []byte {
	c.t.Helper()
	tx, err := BuildTx(msg)
	require.NoError(c.t, err)
	for _, key := range keys {
		addr := key.PublicKey().Address().String()
		sig, err := sigs.SignTx(key, tx, chainID, c.seq[addr])
		require.NoError(c.t, err)
		c.seq[addr]++
		tx.Signatures = append(tx.Signatures, sig)
	}
	raw, err := tx.Marshal()
	require.NoError(c.t, err)
	return raw
}

// block delivers all transactions in a single block and commits it.
func (c *testChain) block(txs ...[]byte) []abci.ResponseDeliverTx {
	c.t.Helper()
	c.height++
	c.app.BeginBlock(abci.RequestBeginBlock{
		Header: abci.Header{ChainID: chainID, Height: c.height},
	})
	res := make([]abci.ResponseDeliverTx, len(txs))
	for i, tx := range txs {
		res[i] = c.app.DeliverTx(tx)
	}
	c.app.EndBlock(abci.RequestEndBlock{Height: c.height})
	c.app.Commit()
	return res
}

// exec delivers a single transaction in its own block and requires the
// outcome to match the expected error.
func (c *testChain) exec(wantErr *errors.Error, msg crowdvest.Msg, keys ...*crypto.PrivateKey) abci.ResponseDeliverTx {
	c.t.Helper()
	res := c.block(c.signedTx(msg, keys...))[0]
	if wantErr == nil {
		require.Equal(c.t, uint32(0), res.Code, res.Log)
	} else {
		require.Equal(c.t, wantErr.ABCICode(), res.Code, res.Log)
	}
	return res
}

func (c *testChain) balance(addr crowdvest.Address) uint64 {
	c.t.Helper()
	ctrl := cash.NewController(cash.NewBucket())
	amount, err := ctrl.Balance(crowdvestApp.NewABCIStore(c.app), addr)
	require.NoError(c.t, err)
	return amount
}

func (c *testChain) proposal(id []byte) *invest.Proposal {
	c.t.Helper()
	var p invest.Proposal
	err := invest.NewProposalBucket().One(crowdvestApp.NewABCIStore(c.app), id, &p)
	require.NoError(c.t, err)
	return &p
}

func TestCrowdInvestment(t *testing.T) {
	owner := crypto.GenPrivKeyEd25519()
	alice := crypto.GenPrivKeyEd25519()
	bob := crypto.GenPrivKeyEd25519()
	vault := crypto.GenPrivKeyEd25519()

	chain := newTestChain(t, map[string]interface{}{
		"cash": []cash.GenesisAccount{
			{Address: alice.PublicKey().Address(), Balance: 1000},
			{Address: bob.PublicKey().Address(), Balance: 1000},
			{Address: vault.PublicKey().Address(), Balance: 5000},
		},
		"invest": invest.Genesis{Owner: owner.PublicKey().Address()},
	})
	meta := &crowdvest.Metadata{Schema: 1}

	// the authority was declared by the genesis file
	chain.exec(errors.ErrState, &invest.InitializeMsg{Metadata: meta, Owner: alice.PublicKey().Address()}, alice)

	res := chain.exec(nil, &invest.CreateProposalMsg{Metadata: meta, Description: "wind farm"}, alice)
	proposalID := res.Data
	assert.Equal(t, weavetest.SequenceID(1), proposalID)

	chain.exec(nil, &invest.InvestMsg{Metadata: meta, ProposalID: proposalID, Amount: 600}, alice)
	chain.exec(nil, &invest.InvestMsg{Metadata: meta, ProposalID: proposalID, Amount: 400}, bob)
	chain.exec(errors.ErrInsufficientFunds, &invest.InvestMsg{Metadata: meta, ProposalID: proposalID, Amount: 601}, bob)

	escrow := invest.EscrowAddress(proposalID)
	assert.Equal(t, uint64(1000), chain.balance(escrow))
	assert.Equal(t, uint64(1000), chain.proposal(proposalID).TotalInvested)

	// only the authority can resolve a proposal
	chain.exec(errors.ErrUnauthorized, &invest.AcceptProposalMsg{Metadata: meta, ProposalID: proposalID}, alice)
	chain.exec(nil, &invest.AcceptProposalMsg{Metadata: meta, ProposalID: proposalID}, owner)
	chain.exec(errors.ErrState, &invest.RejectProposalMsg{Metadata: meta, ProposalID: proposalID}, owner)

	distribute := &invest.DistributeRewardsMsg{
		Metadata:      meta,
		ProposalID:    proposalID,
		RevenueAmount: 2500,
		Vault:         vault.PublicKey().Address(),
	}
	// the vault must agree to pay
	chain.exec(errors.ErrUnauthorized, distribute, owner)
	res = chain.exec(nil, distribute, owner, vault)
	assert.Contains(t, res.Log, "paid 2 investments")

	assert.Equal(t, uint64(400+1500), chain.balance(alice.PublicKey().Address()))
	assert.Equal(t, uint64(600+1000), chain.balance(bob.PublicKey().Address()))
	assert.Equal(t, uint64(2500), chain.balance(vault.PublicKey().Address()))
	assert.True(t, chain.proposal(proposalID).RewardsDistributed)

	// rewards are distributed only once
	chain.exec(errors.ErrState, distribute, owner, vault)
	assert.Equal(t, uint64(2500), chain.balance(vault.PublicKey().Address()))
}

func TestReplayedTransactionIsRejected(t *testing.T) {
	alice := crypto.GenPrivKeyEd25519()
	bob := crypto.GenPrivKeyEd25519()
	chain := newTestChain(t, map[string]interface{}{
		"cash": []cash.GenesisAccount{
			{Address: alice.PublicKey().Address(), Balance: 100},
		},
	})

	send := chain.signedTx(&cash.SendMsg{
		Metadata:    &crowdvest.Metadata{Schema: 1},
		Source:      alice.PublicKey().Address(),
		Destination: bob.PublicKey().Address(),
		Amount:      40,
	}, alice)

	res := chain.block(send, send)
	require.Equal(t, uint32(0), res[0].Code, res[0].Log)
	require.Equal(t, errors.ErrUnauthorized.ABCICode(), res[1].Code, res[1].Log)

	assert.Equal(t, uint64(60), chain.balance(alice.PublicKey().Address()))
	assert.Equal(t, uint64(40), chain.balance(bob.PublicKey().Address()))
}

func TestUnsignedTransactionIsRejected(t *testing.T) {
	chain := newTestChain(t, map[string]interface{}{})
	raw := chain.signedTx(&invest.CreateProposalMsg{
		Metadata:    &crowdvest.Metadata{Schema: 1},
		Description: "no signature",
	})

	check := chain.app.CheckTx(raw)
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), check.Code)
	res := chain.block(raw)
	assert.Equal(t, errors.ErrUnauthorized.ABCICode(), res[0].Code)
}

func TestTxDecoder(t *testing.T) {
	msg := &invest.CreateProposalMsg{
		Metadata:    &crowdvest.Metadata{Schema: 1},
		Description: "community garden",
	}
	tx, err := BuildTx(msg)
	require.NoError(t, err)
	raw, err := tx.Marshal()
	require.NoError(t, err)

	decoded, err := TxDecoder(raw)
	require.NoError(t, err)
	got, err := decoded.GetMsg()
	require.NoError(t, err)
	assert.Equal(t, msg, got)

	_, err = TxDecoder([]byte{0xff, 0xff})
	assert.True(t, errors.ErrInput.Is(err))

	_, err = (&Tx{Path: "unknown/msg"}).GetMsg()
	assert.True(t, errors.ErrMsg.Is(err))

	_, err = (&Tx{}).GetMsg()
	assert.True(t, errors.ErrEmpty.Is(err))

	_, err = BuildTx(&weavetest.Msg{RoutePath: "test/msg"})
	assert.True(t, errors.ErrType.Is(err))
}

func TestGetSignBytesIgnoresSignatures(t *testing.T) {
	tx, err := BuildTx(&cash.SendMsg{Amount: 1})
	require.NoError(t, err)
	unsigned, err := tx.GetSignBytes()
	require.NoError(t, err)

	sig, err := sigs.SignTx(crypto.GenPrivKeyEd25519(), tx, chainID, 0)
	require.NoError(t, err)
	tx.Signatures = []*sigs.StdSignature{sig}
	signed, err := tx.GetSignBytes()
	require.NoError(t, err)
	assert.Equal(t, unsigned, signed)
	assert.Len(t, tx.Signatures, 1)
}

func TestGenInitOptions(t *testing.T) {
	owner := crypto.GenPrivKeyEd25519().PublicKey().Address()

	raw, err := GenInitOptions([]string{owner.String()})
	require.NoError(t, err)
	var state struct {
		Cash   []cash.GenesisAccount `json:"cash"`
		Invest invest.Genesis        `json:"invest"`
	}
	require.NoError(t, json.Unmarshal(raw, &state))
	assert.Equal(t, owner, state.Invest.Owner)
	require.Len(t, state.Cash, 1)
	assert.Equal(t, owner, state.Cash[0].Address)
	assert.Equal(t, uint64(DefaultBalance), state.Cash[0].Balance)

	// a generated genesis must be accepted by the application
	require.NoError(t, server.ValidateGenesisState(Initializers(), raw))

	raw, err = GenInitOptions(nil)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &state))
	require.NoError(t, state.Invest.Owner.Validate())

	_, err = GenInitOptions([]string{"not-hex"})
	assert.True(t, errors.ErrInput.Is(err))
}

func TestExamples(t *testing.T) {
	for _, ex := range Examples() {
		_, err := ex.Obj.Marshal()
		require.NoError(t, err, ex.Filename)
	}
}
