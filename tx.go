package crowdvest

import (
	"reflect"

	"github.com/iov-one/crowdvest/errors"
)

// Msg is a single ledger action such as creating a proposal or investing
// into one. It carries no authentication; signatures live on the Tx.
type Msg interface {
	Persistent
	// Path routes the message to its handler, for example
	// "invest/create_proposal". It must match [0-9A-Za-z_\-/]+.
	Path() string
	// Validate checks the message on its own, without reading state.
	Validate() error
}

// Marshaller is implemented by every protobuf type of the ledger.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent is a Marshaller that can also be decoded, which usually
// requires a pointer receiver.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Tx is the signed envelope submitted by a client. It holds exactly one
// Msg.
type Tx interface {
	Persistent
	GetMsg() (Msg, error)
}

// GetPath is meant for logging and never fails.
func GetPath(tx Tx) string {
	if msg, err := tx.GetMsg(); err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// TxDecoder parses the raw bytes received from tendermint.
type TxDecoder func(raw []byte) (Tx, error)

// LoadMsg copies the message of tx into dest, which must point to the
// expected message type, and validates it. Handlers start with it.
func LoadMsg(tx Tx, dest interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get transaction message")
	}
	target := reflect.ValueOf(dest)
	if target.Kind() != reflect.Ptr {
		return errors.Wrap(errors.ErrType, "destination must be a pointer")
	}
	src := reflect.Indirect(reflect.ValueOf(msg))
	if target.Elem().Type() != src.Type() {
		return errors.Wrapf(errors.ErrType, "want %T message, got %T", dest, msg)
	}
	target.Elem().Set(src)
	return errors.Wrap(msg.Validate(), "invalid message")
}
