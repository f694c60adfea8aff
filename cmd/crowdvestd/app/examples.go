package app

import (
	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/commands"
	"github.com/iov-one/crowdvest/crypto"
	"github.com/iov-one/crowdvest/x/cash"
	"github.com/iov-one/crowdvest/x/invest"
	"github.com/iov-one/crowdvest/x/sigs"
)

// Examples generates some example structs to dump out with testgen
func Examples() []commands.Example {
	key := crypto.PrivKeyEd25519FromSeed(make([]byte, 32))
	owner := key.PublicKey().Address()
	vault := crowdvest.NewCondition("vault", "demo", []byte{1}).Address()
	meta := &crowdvest.Metadata{Schema: 1}
	proposalID := []byte{0, 0, 0, 0, 0, 0, 0, 1}

	createMsg := &invest.CreateProposalMsg{
		Metadata:    meta,
		Description: "Solar panels for the community center",
	}
	investMsg := &invest.InvestMsg{
		Metadata:   meta,
		ProposalID: proposalID,
		Amount:     250,
	}
	distributeMsg := &invest.DistributeRewardsMsg{
		Metadata:      meta,
		ProposalID:    proposalID,
		RevenueAmount: 1000,
		Vault:         vault,
	}

	tx, err := BuildTx(investMsg)
	if err != nil {
		panic(err)
	}
	sig, err := sigs.SignTx(key, tx, "test-123", 17)
	if err != nil {
		panic(err)
	}
	tx.Signatures = []*sigs.StdSignature{sig}

	return []commands.Example{
		{Filename: "pubkey", Obj: key.PublicKey()},
		{Filename: "privkey", Obj: key},
		{Filename: "sig", Obj: sig},
		{Filename: "wallet", Obj: cash.NewWallet(DefaultBalance)},
		{Filename: "send_msg", Obj: &cash.SendMsg{Metadata: meta, Source: owner, Destination: vault, Amount: 500}},
		{Filename: "initialize_msg", Obj: &invest.InitializeMsg{Metadata: meta, Owner: owner}},
		{Filename: "create_proposal_msg", Obj: createMsg},
		{Filename: "invest_msg", Obj: investMsg},
		{Filename: "accept_proposal_msg", Obj: &invest.AcceptProposalMsg{Metadata: meta, ProposalID: proposalID}},
		{Filename: "reject_proposal_msg", Obj: &invest.RejectProposalMsg{Metadata: meta, ProposalID: proposalID}},
		{Filename: "distribute_rewards_msg", Obj: distributeMsg},
		{Filename: "signed_tx", Obj: tx},
	}
}
