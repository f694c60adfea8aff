package orm

import (
	"github.com/iov-one/crowdvest"
)

// Model is a protobuf message that can check its own invariants, such as
// a proposal or an investment.
type Model interface {
	crowdvest.Persistent
	Validate() error
}

// Object binds a Model to the key it is stored under. Buckets load records
// into clones of a prototype Object.
type Object interface {
	Key() []byte
	SetKey([]byte)
	// Clone returns an empty object of the same model type.
	Clone() Object
	// Validate is run before every save.
	Validate() error
	Value() Model
}
