package orm

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/errors"
)

// Counter is a minimal model used to exercise buckets in tests.
type Counter struct {
	Metadata *crowdvest.Metadata `protobuf:"bytes,1,opt,name=metadata,proto3" json:"metadata,omitempty"`
	Count    int64               `protobuf:"varint,2,opt,name=count,proto3" json:"count,omitempty"`
}

var _ Model = (*Counter)(nil)

func (c *Counter) Validate() error {
	if err := c.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if c.Count < 0 {
		return errors.Wrap(errors.ErrModel, "negative count")
	}
	return nil
}

type counterWire Counter

func (*counterWire) ProtoMessage()    {}
func (m *counterWire) Reset()         { *m = counterWire{} }
func (m *counterWire) String() string { return proto.CompactTextString(m) }

func (c *Counter) Marshal() ([]byte, error) { return proto.Marshal((*counterWire)(c)) }
func (c *Counter) Unmarshal(b []byte) error { return proto.Unmarshal(b, (*counterWire)(c)) }

func newCounter(n int64) *Counter {
	return &Counter{
		Metadata: &crowdvest.Metadata{Schema: 1},
		Count:    n,
	}
}
