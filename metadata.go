package crowdvest

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/crowdvest/errors"
)

// Metadata is embedded in every persisted entity and message. It carries
// the schema version the value was encoded with.
type Metadata struct {
	Schema uint32 `protobuf:"varint,1,opt,name=schema,proto3" json:"schema,omitempty"`
}

// CurrentSchema is the only schema version this ledger understands.
const CurrentSchema = 1

// Validate returns an error if the metadata is missing or declares an
// unknown schema.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrMetadata, "missing metadata")
	}
	if m.Schema != CurrentSchema {
		return errors.Wrapf(errors.ErrMetadata, "unsupported schema %d", m.Schema)
	}
	return nil
}

// Copy returns a copy of this object. This method is helpful when implementing
// the Clone method of a model to copy its metadata.
func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	cpy := *m
	return &cpy
}

func (*Metadata) ProtoMessage()    {}
func (m *Metadata) Reset()         { *m = Metadata{} }
func (m *Metadata) String() string { return proto.CompactTextString(m) }
