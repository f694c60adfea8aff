package crypto

import (
	"bytes"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/errors"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is used for the conditions we get from signatures
const ExtensionName = "sigs"

// PublicKey is an ed25519 public key of a transaction signer.
type PublicKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

// Signature is an ed25519 signature created by a PrivateKey.
type Signature struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

// PrivateKey holds the full 64 byte ed25519 private key.
type PrivateKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3" json:"ed25519,omitempty"`
}

// Verify verifies the signature was created with this message and public key
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	if p == nil || sig == nil || len(p.Ed25519) != ed25519.PublicKeySize {
		return false
	}
	if len(sig.Ed25519) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p.Ed25519), message, sig.Ed25519)
}

// Condition encodes the public key into a condition.
func (p *PublicKey) Condition() crowdvest.Condition {
	if p == nil || len(p.Ed25519) == 0 {
		return nil
	}
	return crowdvest.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address is the address of the condition of this key.
func (p *PublicKey) Address() crowdvest.Address {
	return p.Condition().Address()
}

// Equals compares two public keys by value.
func (p *PublicKey) Equals(o *PublicKey) bool {
	if p == nil || o == nil {
		return p == o
	}
	return bytes.Equal(p.Ed25519, o.Ed25519)
}

// Validate ensures the key has the length of an ed25519 public key.
func (p *PublicKey) Validate() error {
	if p == nil || len(p.Ed25519) != ed25519.PublicKeySize {
		return errors.Wrap(errors.ErrInput, "invalid ed25519 public key")
	}
	return nil
}

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	if len(p.Ed25519) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrInput, "invalid ed25519 private key")
	}
	bz := ed25519.Sign(ed25519.PrivateKey(p.Ed25519), message)
	return &Signature{Ed25519: bz}, nil
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() *PublicKey {
	privateKey := ed25519.PrivateKey(p.Ed25519)
	pub := privateKey.Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

// GenPrivKeyEd25519 returns a random new private key
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed will deterministically generate a private key from
// a given seed. Use if you have a strong source of external randomness,
// or for deterministic keys in test cases.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}
}

// Marshal and Unmarshal go through the wire aliases so that the protobuf
// table marshaler does not recurse back into these methods.

type publicKeyWire PublicKey

func (*publicKeyWire) ProtoMessage()    {}
func (m *publicKeyWire) Reset()         { *m = publicKeyWire{} }
func (m *publicKeyWire) String() string { return proto.CompactTextString(m) }

func (m *PublicKey) Marshal() ([]byte, error) { return proto.Marshal((*publicKeyWire)(m)) }
func (m *PublicKey) Unmarshal(b []byte) error { return proto.Unmarshal(b, (*publicKeyWire)(m)) }

func (*PublicKey) ProtoMessage()    {}
func (m *PublicKey) Reset()         { *m = PublicKey{} }
func (m *PublicKey) String() string { return proto.CompactTextString((*publicKeyWire)(m)) }

type signatureWire Signature

func (*signatureWire) ProtoMessage()    {}
func (m *signatureWire) Reset()         { *m = signatureWire{} }
func (m *signatureWire) String() string { return proto.CompactTextString(m) }

func (m *Signature) Marshal() ([]byte, error) { return proto.Marshal((*signatureWire)(m)) }
func (m *Signature) Unmarshal(b []byte) error { return proto.Unmarshal(b, (*signatureWire)(m)) }

func (*Signature) ProtoMessage()    {}
func (m *Signature) Reset()         { *m = Signature{} }
func (m *Signature) String() string { return proto.CompactTextString((*signatureWire)(m)) }

type privateKeyWire PrivateKey

func (*privateKeyWire) ProtoMessage()    {}
func (m *privateKeyWire) Reset()         { *m = privateKeyWire{} }
func (m *privateKeyWire) String() string { return proto.CompactTextString(m) }

func (m *PrivateKey) Marshal() ([]byte, error) { return proto.Marshal((*privateKeyWire)(m)) }
func (m *PrivateKey) Unmarshal(b []byte) error { return proto.Unmarshal(b, (*privateKeyWire)(m)) }
