package weavetest

import "github.com/iov-one/crowdvest"

// Handler is a mock implementation of the crowdvest.Handler interface.
//
// Every call is counted. When WriteKey is set, the handler stores WriteValue
// under it before returning, which allows tests to verify that a failed
// transaction leaves no trace.
type Handler struct {
	checkCall   int
	CheckResult crowdvest.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult crowdvest.DeliverResult
	DeliverErr    error

	WriteKey   []byte
	WriteValue []byte

	// Panic if set makes the Deliver method panic with given value.
	Panic interface{}
}

var _ crowdvest.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx) (*crowdvest.CheckResult, error) {
	h.checkCall++
	if err := h.write(db); err != nil {
		return nil, err
	}
	res := h.CheckResult
	return &res, h.CheckErr
}

func (h *Handler) Deliver(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx) (*crowdvest.DeliverResult, error) {
	h.deliverCall++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.Panic != nil {
		panic(h.Panic)
	}
	res := h.DeliverResult
	return &res, h.DeliverErr
}

func (h *Handler) write(db crowdvest.KVStore) error {
	if h.WriteKey == nil {
		return nil
	}
	return db.Set(h.WriteKey, h.WriteValue)
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
