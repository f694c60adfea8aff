package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/errors"
	"github.com/iov-one/crowdvest/x/cash"
	"github.com/iov-one/crowdvest/x/invest"
	"github.com/iov-one/crowdvest/x/sigs"
)

// Tx is the envelope of every transaction accepted by crowdvestd. The
// message is kept serialized together with the path that tells how to
// decode it.
type Tx struct {
	Signatures []*sigs.StdSignature `protobuf:"bytes,1,rep,name=signatures,proto3" json:"signatures,omitempty"`
	Path       string               `protobuf:"bytes,2,opt,name=path,proto3" json:"path,omitempty"`
	Msg        []byte               `protobuf:"bytes,3,opt,name=msg,proto3" json:"msg,omitempty"`
}

type txWire Tx

func (*txWire) ProtoMessage()    {}
func (m *txWire) Reset()         { *m = txWire{} }
func (m *txWire) String() string { return proto.CompactTextString(m) }

func (m *Tx) Marshal() ([]byte, error) { return proto.Marshal((*txWire)(m)) }
func (m *Tx) Unmarshal(b []byte) error { return proto.Unmarshal(b, (*txWire)(m)) }

func (*Tx) ProtoMessage()    {}
func (m *Tx) Reset()         { *m = Tx{} }
func (m *Tx) String() string { return proto.CompactTextString((*txWire)(m)) }

var _ crowdvest.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// msgTypes maps a message path to a constructor of an empty message that
// can be unmarshalled.
var msgTypes = map[string]func() crowdvest.Msg{}

func registerMsg(fn func() crowdvest.Msg) {
	path := fn().Path()
	if _, ok := msgTypes[path]; ok {
		panic("message registered twice: " + path)
	}
	msgTypes[path] = fn
}

func init() {
	registerMsg(func() crowdvest.Msg { return &cash.SendMsg{} })
	registerMsg(func() crowdvest.Msg { return &invest.InitializeMsg{} })
	registerMsg(func() crowdvest.Msg { return &invest.CreateProposalMsg{} })
	registerMsg(func() crowdvest.Msg { return &invest.InvestMsg{} })
	registerMsg(func() crowdvest.Msg { return &invest.AcceptProposalMsg{} })
	registerMsg(func() crowdvest.Msg { return &invest.RejectProposalMsg{} })
	registerMsg(func() crowdvest.Msg { return &invest.DistributeRewardsMsg{} })
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (crowdvest.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot decode transaction: %s", err)
	}
	return tx, nil
}

// BuildTx wraps given message into an unsigned transaction.
func BuildTx(msg crowdvest.Msg) (*Tx, error) {
	if _, ok := msgTypes[msg.Path()]; !ok {
		return nil, errors.Wrapf(errors.ErrType, "unsupported message %q", msg.Path())
	}
	raw, err := msg.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "cannot marshal message")
	}
	return &Tx{Path: msg.Path(), Msg: raw}, nil
}

// GetMsg decodes the message carried by this transaction.
func (m *Tx) GetMsg() (crowdvest.Msg, error) {
	if m.Path == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "message path")
	}
	fn, ok := msgTypes[m.Path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrMsg, "unknown message path %q", m.Path)
	}
	msg := fn()
	if err := msg.Unmarshal(m.Msg); err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "cannot decode %s message: %s", m.Path, err)
	}
	return msg, nil
}

// GetSignatures returns the signatures on this transaction.
func (m *Tx) GetSignatures() []*sigs.StdSignature {
	return m.Signatures
}

// GetSignBytes returns the bytes to sign, that is the serialized
// transaction without the signatures.
func (m *Tx) GetSignBytes() ([]byte, error) {
	sigless := *m
	sigless.Signatures = nil
	return sigless.Marshal()
}

// AddSignature appends a signature to the transaction.
func (m *Tx) AddSignature(sig *sigs.StdSignature) {
	m.Signatures = append(m.Signatures, sig)
}
