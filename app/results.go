package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/errors"
)

// ResultSet is the wire form of query responses: the keys and the values
// of the matching records travel as two separate sets.
type ResultSet struct {
	Results [][]byte `protobuf:"bytes,1,rep,name=results,proto3" json:"results,omitempty"`
}

type resultSetWire ResultSet

func (*resultSetWire) ProtoMessage()    {}
func (m *resultSetWire) Reset()         { *m = resultSetWire{} }
func (m *resultSetWire) String() string { return proto.CompactTextString(m) }

func (m *ResultSet) Marshal() ([]byte, error) { return proto.Marshal((*resultSetWire)(m)) }
func (m *ResultSet) Unmarshal(b []byte) error { return proto.Unmarshal(b, (*resultSetWire)(m)) }

// ResultsFromKeys collects the keys of a query result.
func ResultsFromKeys(models []crowdvest.Model) *ResultSet {
	return collect(models, func(m crowdvest.Model) []byte { return m.Key })
}

// ResultsFromValues collects the values of a query result.
func ResultsFromValues(models []crowdvest.Model) *ResultSet {
	return collect(models, func(m crowdvest.Model) []byte { return m.Value })
}

func collect(models []crowdvest.Model, field func(crowdvest.Model) []byte) *ResultSet {
	out := make([][]byte, 0, len(models))
	for _, m := range models {
		out = append(out, field(m))
	}
	return &ResultSet{Results: out}
}

// JoinResults pairs the keys and values of a query response back into
// records. Both sets come from the same query so their lengths must match.
func JoinResults(keys, values *ResultSet) ([]crowdvest.Model, error) {
	if len(keys.Results) != len(values.Results) {
		return nil, errors.Wrapf(errors.ErrState, "%d keys and %d values", len(keys.Results), len(values.Results))
	}
	models := make([]crowdvest.Model, 0, len(keys.Results))
	for i, key := range keys.Results {
		models = append(models, crowdvest.Pair(key, values.Results[i]))
	}
	return models, nil
}

// UnmarshalOneResult decodes the first record of a serialized ResultSet
// into dest. An empty set leaves dest untouched.
func UnmarshalOneResult(raw []byte, dest crowdvest.Persistent) error {
	var set ResultSet
	if err := set.Unmarshal(raw); err != nil {
		return errors.Wrap(err, "result set")
	}
	if len(set.Results) == 0 {
		return nil
	}
	return dest.Unmarshal(set.Results[0])
}
