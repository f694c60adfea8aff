package orm

import (
	"encoding/binary"

	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/errors"
)

// Sequence hands out the ids of a bucket: 1, 2, 3... encoded as 8 byte big
// endian values, so ids sort in creation order both as numbers and as keys.
// Proposals and investments are numbered this way.
type Sequence struct {
	key []byte
}

// NewSequence stores its counter under "_s.<bucket>:<name>".
func NewSequence(bucket, name string) Sequence {
	return Sequence{key: []byte("_s." + bucket + ":" + name)}
}

// NextVal returns the next id in its encoded form.
func (s *Sequence) NextVal(db crowdvest.KVStore) ([]byte, error) {
	n, err := s.NextInt(db)
	if err != nil {
		return nil, err
	}
	return EncodeSequence(n), nil
}

// NextInt returns the next id.
func (s *Sequence) NextInt(db crowdvest.KVStore) (int64, error) {
	n, _, err := s.Latest(db)
	if err != nil {
		return 0, err
	}
	n++
	if err := db.Set(s.key, EncodeSequence(n)); err != nil {
		return 0, errors.Wrap(err, "save sequence")
	}
	return n, nil
}

// Latest returns the last id handed out, zero and nil bytes for a fresh
// sequence.
func (s *Sequence) Latest(db crowdvest.ReadOnlyKVStore) (int64, []byte, error) {
	raw, err := db.Get(s.key)
	if err != nil {
		return 0, nil, errors.Wrap(err, "load sequence")
	}
	return DecodeSequence(raw), raw, nil
}

// DecodeSequence returns zero for a missing value.
func DecodeSequence(raw []byte) int64 {
	if len(raw) != 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(raw))
}

func EncodeSequence(n int64) []byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, uint64(n))
	return raw
}

// ValidateSequence checks that id has the shape of a Sequence value.
func ValidateSequence(id []byte) error {
	switch len(id) {
	case 0:
		return errors.Wrap(errors.ErrEmpty, "sequence missing")
	case 8:
		return nil
	default:
		return errors.Wrapf(errors.ErrInput, "sequence must be 8 bytes, got %d", len(id))
	}
}
