package weavetest

import "github.com/iov-one/crowdvest"

// Tx carries a message to a handler in tests without signatures or
// serialization.
type Tx struct {
	Msg crowdvest.Msg
	// Err is returned by GetMsg instead of the message.
	Err error
}

var _ crowdvest.Tx = (*Tx)(nil)

func (tx *Tx) GetMsg() (crowdvest.Msg, error) { return tx.Msg, tx.Err }

func (tx *Tx) Marshal() ([]byte, error) { panic("weavetest.Tx cannot be serialized") }
func (tx *Tx) Unmarshal([]byte) error   { panic("weavetest.Tx cannot be serialized") }

// Msg routes to RoutePath. Its serialized form is whatever bytes were last
// set, and Err fails every call that returns an error.
type Msg struct {
	RoutePath  string
	Serialized []byte
	Err        error
}

var _ crowdvest.Msg = (*Msg)(nil)

func (m *Msg) Path() string    { return m.RoutePath }
func (m *Msg) Validate() error { return m.Err }

func (m *Msg) Marshal() ([]byte, error) { return m.Serialized, m.Err }

func (m *Msg) Unmarshal(raw []byte) error {
	m.Serialized = raw
	return m.Err
}
