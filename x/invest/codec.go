package invest

import (
	"fmt"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/crowdvest"
)

// ProposalStatus is the lifecycle state of a proposal. The zero value is not
// a valid status.
type ProposalStatus int32

const (
	ProposalStatusInvalid  ProposalStatus = 0
	ProposalStatusPending  ProposalStatus = 1
	ProposalStatusAccepted ProposalStatus = 2
	ProposalStatusRejected ProposalStatus = 3
)

var proposalStatusNames = map[ProposalStatus]string{
	ProposalStatusInvalid:  "Invalid",
	ProposalStatusPending:  "Pending",
	ProposalStatusAccepted: "Accepted",
	ProposalStatusRejected: "Rejected",
}

func (s ProposalStatus) String() string {
	if n, ok := proposalStatusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("ProposalStatus(%d)", int32(s))
}

// Config declares the authority of this chain. At most one exists.
type Config struct {
	Metadata *crowdvest.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Owner    crowdvest.Address   `protobuf:"bytes,2,opt,name=owner,proto3" json:"owner,omitempty"`
}

// Proposal is an idea that investors can fund.
type Proposal struct {
	Metadata           *crowdvest.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Creator            crowdvest.Address   `protobuf:"bytes,2,opt,name=creator,proto3" json:"creator,omitempty"`
	Description        string              `protobuf:"bytes,3,opt,name=description,proto3" json:"description,omitempty"`
	Status             ProposalStatus      `protobuf:"varint,4,opt,name=status,proto3" json:"status,omitempty"`
	TotalInvested      uint64              `protobuf:"varint,5,opt,name=total_invested,json=totalInvested,proto3" json:"total_invested,omitempty"`
	RewardsDistributed bool                `protobuf:"varint,6,opt,name=rewards_distributed,json=rewardsDistributed,proto3" json:"rewards_distributed,omitempty"`
}

// Investment records a single contribution of an investor to a proposal.
type Investment struct {
	Metadata   *crowdvest.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	ProposalID []byte              `protobuf:"bytes,2,opt,name=proposal_id,json=proposalId,proto3" json:"proposal_id,omitempty"`
	Investor   crowdvest.Address   `protobuf:"bytes,3,opt,name=investor,proto3" json:"investor,omitempty"`
	Amount     uint64              `protobuf:"varint,4,opt,name=amount,proto3" json:"amount,omitempty"`
}

// InitializeMsg declares the authority. It can be processed only once.
type InitializeMsg struct {
	Metadata *crowdvest.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Owner    crowdvest.Address   `protobuf:"bytes,2,opt,name=owner,proto3" json:"owner,omitempty"`
}

// CreateProposalMsg creates a new pending proposal owned by the main signer.
type CreateProposalMsg struct {
	Metadata    *crowdvest.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Description string              `protobuf:"bytes,2,opt,name=description,proto3" json:"description,omitempty"`
}

// InvestMsg escrows Amount from the investor wallet into the proposal. When
// Investor is not set, the main signer invests.
type InvestMsg struct {
	Metadata   *crowdvest.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	ProposalID []byte              `protobuf:"bytes,2,opt,name=proposal_id,json=proposalId,proto3" json:"proposal_id,omitempty"`
	Investor   crowdvest.Address   `protobuf:"bytes,3,opt,name=investor,proto3" json:"investor,omitempty"`
	Amount     uint64              `protobuf:"varint,4,opt,name=amount,proto3" json:"amount,omitempty"`
}

// AcceptProposalMsg moves a pending proposal to the accepted state.
type AcceptProposalMsg struct {
	Metadata   *crowdvest.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	ProposalID []byte              `protobuf:"bytes,2,opt,name=proposal_id,json=proposalId,proto3" json:"proposal_id,omitempty"`
}

// RejectProposalMsg moves a pending proposal to the rejected state.
type RejectProposalMsg struct {
	Metadata   *crowdvest.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	ProposalID []byte              `protobuf:"bytes,2,opt,name=proposal_id,json=proposalId,proto3" json:"proposal_id,omitempty"`
}

// DistributeRewardsMsg pays RevenueAmount from the Vault to the investors of
// an accepted proposal. When Pairs is empty, all investments of the proposal
// are paid. A zero RevenueAmount pays nothing but still marks the rewards as
// distributed.
type DistributeRewardsMsg struct {
	Metadata      *crowdvest.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	ProposalID    []byte              `protobuf:"bytes,2,opt,name=proposal_id,json=proposalId,proto3" json:"proposal_id,omitempty"`
	RevenueAmount uint64              `protobuf:"varint,3,opt,name=revenue_amount,json=revenueAmount,proto3" json:"revenue_amount,omitempty"`
	Vault         crowdvest.Address   `protobuf:"bytes,4,opt,name=vault,proto3" json:"vault,omitempty"`
	Pairs         []*InvestorPair     `protobuf:"bytes,5,rep,name=pairs,proto3" json:"pairs,omitempty"`
}

// InvestorPair references an investment and the wallet its share is paid to.
// Investor must be the investor stored with the referenced investment, any
// other address aborts the distribution with ErrReference. A pair cannot be
// used to redirect a share to a different wallet.
type InvestorPair struct {
	InvestmentID []byte            `protobuf:"bytes,1,opt,name=investment_id,json=investmentId,proto3" json:"investment_id,omitempty"`
	Investor     crowdvest.Address `protobuf:"bytes,2,opt,name=investor,proto3" json:"investor,omitempty"`
}

func (*InvestorPair) ProtoMessage()    {}
func (m *InvestorPair) Reset()         { *m = InvestorPair{} }
func (m *InvestorPair) String() string { return proto.CompactTextString(m) }

type configWire Config

func (*configWire) ProtoMessage()    {}
func (m *configWire) Reset()         { *m = configWire{} }
func (m *configWire) String() string { return proto.CompactTextString(m) }

func (m *Config) Marshal() ([]byte, error) { return proto.Marshal((*configWire)(m)) }
func (m *Config) Unmarshal(b []byte) error { return proto.Unmarshal(b, (*configWire)(m)) }

type proposalWire Proposal

func (*proposalWire) ProtoMessage()    {}
func (m *proposalWire) Reset()         { *m = proposalWire{} }
func (m *proposalWire) String() string { return proto.CompactTextString(m) }

func (m *Proposal) Marshal() ([]byte, error) { return proto.Marshal((*proposalWire)(m)) }
func (m *Proposal) Unmarshal(b []byte) error { return proto.Unmarshal(b, (*proposalWire)(m)) }

type investmentWire Investment

func (*investmentWire) ProtoMessage()    {}
func (m *investmentWire) Reset()         { *m = investmentWire{} }
func (m *investmentWire) String() string { return proto.CompactTextString(m) }

func (m *Investment) Marshal() ([]byte, error) { return proto.Marshal((*investmentWire)(m)) }
func (m *Investment) Unmarshal(b []byte) error { return proto.Unmarshal(b, (*investmentWire)(m)) }

type initializeMsgWire InitializeMsg

func (*initializeMsgWire) ProtoMessage()    {}
func (m *initializeMsgWire) Reset()         { *m = initializeMsgWire{} }
func (m *initializeMsgWire) String() string { return proto.CompactTextString(m) }

func (m *InitializeMsg) Marshal() ([]byte, error) { return proto.Marshal((*initializeMsgWire)(m)) }
func (m *InitializeMsg) Unmarshal(b []byte) error { return proto.Unmarshal(b, (*initializeMsgWire)(m)) }

type createProposalMsgWire CreateProposalMsg

func (*createProposalMsgWire) ProtoMessage()    {}
func (m *createProposalMsgWire) Reset()         { *m = createProposalMsgWire{} }
func (m *createProposalMsgWire) String() string { return proto.CompactTextString(m) }

func (m *CreateProposalMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*createProposalMsgWire)(m))
}
func (m *CreateProposalMsg) Unmarshal(b []byte) error {
	return proto.Unmarshal(b, (*createProposalMsgWire)(m))
}

type investMsgWire InvestMsg

func (*investMsgWire) ProtoMessage()    {}
func (m *investMsgWire) Reset()         { *m = investMsgWire{} }
func (m *investMsgWire) String() string { return proto.CompactTextString(m) }

func (m *InvestMsg) Marshal() ([]byte, error) { return proto.Marshal((*investMsgWire)(m)) }
func (m *InvestMsg) Unmarshal(b []byte) error { return proto.Unmarshal(b, (*investMsgWire)(m)) }

type acceptProposalMsgWire AcceptProposalMsg

func (*acceptProposalMsgWire) ProtoMessage()    {}
func (m *acceptProposalMsgWire) Reset()         { *m = acceptProposalMsgWire{} }
func (m *acceptProposalMsgWire) String() string { return proto.CompactTextString(m) }

func (m *AcceptProposalMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*acceptProposalMsgWire)(m))
}
func (m *AcceptProposalMsg) Unmarshal(b []byte) error {
	return proto.Unmarshal(b, (*acceptProposalMsgWire)(m))
}

type rejectProposalMsgWire RejectProposalMsg

func (*rejectProposalMsgWire) ProtoMessage()    {}
func (m *rejectProposalMsgWire) Reset()         { *m = rejectProposalMsgWire{} }
func (m *rejectProposalMsgWire) String() string { return proto.CompactTextString(m) }

func (m *RejectProposalMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*rejectProposalMsgWire)(m))
}
func (m *RejectProposalMsg) Unmarshal(b []byte) error {
	return proto.Unmarshal(b, (*rejectProposalMsgWire)(m))
}

type distributeRewardsMsgWire DistributeRewardsMsg

func (*distributeRewardsMsgWire) ProtoMessage()    {}
func (m *distributeRewardsMsgWire) Reset()         { *m = distributeRewardsMsgWire{} }
func (m *distributeRewardsMsgWire) String() string { return proto.CompactTextString(m) }

func (m *DistributeRewardsMsg) Marshal() ([]byte, error) {
	return proto.Marshal((*distributeRewardsMsgWire)(m))
}
func (m *DistributeRewardsMsg) Unmarshal(b []byte) error {
	return proto.Unmarshal(b, (*distributeRewardsMsgWire)(m))
}
