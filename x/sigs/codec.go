package sigs

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/crypto"
)

// UserData is the state stored for every signer. The sequence is used for
// replay protection.
type UserData struct {
	Metadata *crowdvest.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Pubkey   *crypto.PublicKey   `protobuf:"bytes,2,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	Sequence int64               `protobuf:"varint,3,opt,name=sequence,proto3" json:"sequence,omitempty"`
}

// StdSignature represents the signature, the identity of the signer (the
// Pubkey), and a sequence number to prevent replay attacks.
type StdSignature struct {
	Sequence  int64             `protobuf:"varint,1,opt,name=sequence,proto3" json:"sequence,omitempty"`
	Pubkey    *crypto.PublicKey `protobuf:"bytes,2,opt,name=pubkey,proto3" json:"pubkey,omitempty"`
	Signature *crypto.Signature `protobuf:"bytes,3,opt,name=signature,proto3" json:"signature,omitempty"`
}

func (m *UserData) GetSequence() int64 {
	if m != nil {
		return m.Sequence
	}
	return 0
}

func (m *StdSignature) GetSequence() int64 {
	if m != nil {
		return m.Sequence
	}
	return 0
}

type userDataWire UserData

func (*userDataWire) ProtoMessage()    {}
func (m *userDataWire) Reset()         { *m = userDataWire{} }
func (m *userDataWire) String() string { return proto.CompactTextString(m) }

func (m *UserData) Marshal() ([]byte, error) { return proto.Marshal((*userDataWire)(m)) }
func (m *UserData) Unmarshal(b []byte) error { return proto.Unmarshal(b, (*userDataWire)(m)) }

type stdSignatureWire StdSignature

func (*stdSignatureWire) ProtoMessage()    {}
func (m *stdSignatureWire) Reset()         { *m = stdSignatureWire{} }
func (m *stdSignatureWire) String() string { return proto.CompactTextString(m) }

func (m *StdSignature) Marshal() ([]byte, error) { return proto.Marshal((*stdSignatureWire)(m)) }
func (m *StdSignature) Unmarshal(b []byte) error { return proto.Unmarshal(b, (*stdSignatureWire)(m)) }

func (*StdSignature) ProtoMessage()    {}
func (m *StdSignature) Reset()         { *m = StdSignature{} }
func (m *StdSignature) String() string { return proto.CompactTextString((*stdSignatureWire)(m)) }
