package cash

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/crowdvest"
)

// Wallet is the balance held by a single address.
type Wallet struct {
	Metadata *crowdvest.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Balance  uint64              `protobuf:"varint,2,opt,name=balance,proto3" json:"balance,omitempty"`
}

// SendMsg moves funds from the source wallet to the destination wallet.
type SendMsg struct {
	Metadata    *crowdvest.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Source      crowdvest.Address   `protobuf:"bytes,2,opt,name=source,proto3" json:"source,omitempty"`
	Destination crowdvest.Address   `protobuf:"bytes,3,opt,name=destination,proto3" json:"destination,omitempty"`
	Amount      uint64              `protobuf:"varint,4,opt,name=amount,proto3" json:"amount,omitempty"`
	Memo        string              `protobuf:"bytes,5,opt,name=memo,proto3" json:"memo,omitempty"`
}

type walletWire Wallet

func (*walletWire) ProtoMessage()    {}
func (m *walletWire) Reset()         { *m = walletWire{} }
func (m *walletWire) String() string { return proto.CompactTextString(m) }

func (m *Wallet) Marshal() ([]byte, error) { return proto.Marshal((*walletWire)(m)) }
func (m *Wallet) Unmarshal(b []byte) error { return proto.Unmarshal(b, (*walletWire)(m)) }

type sendMsgWire SendMsg

func (*sendMsgWire) ProtoMessage()    {}
func (m *sendMsgWire) Reset()         { *m = sendMsgWire{} }
func (m *sendMsgWire) String() string { return proto.CompactTextString(m) }

func (m *SendMsg) Marshal() ([]byte, error) { return proto.Marshal((*sendMsgWire)(m)) }
func (m *SendMsg) Unmarshal(b []byte) error { return proto.Unmarshal(b, (*sendMsgWire)(m)) }
