package app

import (
	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp runs ledger transactions on top of the StoreApp state. Every
// transaction is decoded first and then passed to a single handler that
// is responsible for authentication and routing.
type BaseApp struct {
	*StoreApp
	decoder crowdvest.TxDecoder
	handler crowdvest.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

func NewBaseApp(store *StoreApp, decoder crowdvest.TxDecoder, handler crowdvest.Handler, debug bool) BaseApp {
	return BaseApp{
		StoreApp: store,
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

// DeliverTx executes the transaction against the block state. Changes are
// persisted on the next Commit.
func (b BaseApp) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	tx, err := b.decode(raw)
	if err != nil {
		return crowdvest.DeliverResponse(nil, err, b.debug)
	}
	ctx := b.txContext("deliver_tx", tx)
	res, err := b.handler.Deliver(ctx, b.DeliverStore(), tx)
	return crowdvest.DeliverResponse(res, err, b.debug)
}

// CheckTx validates the transaction against the mempool state.
func (b BaseApp) CheckTx(raw []byte) abci.ResponseCheckTx {
	tx, err := b.decode(raw)
	if err != nil {
		return crowdvest.CheckResponse(nil, err, b.debug)
	}
	ctx := b.txContext("check_tx", tx)
	res, err := b.handler.Check(ctx, b.CheckStore(), tx)
	return crowdvest.CheckResponse(res, err, b.debug)
}

func (b BaseApp) txContext(call string, tx crowdvest.Tx) crowdvest.Context {
	return crowdvest.WithLogInfo(b.BlockContext(), "call", call, "path", crowdvest.GetPath(tx))
}

// decode turns a decoder panic on malformed bytes into an error.
func (b BaseApp) decode(raw []byte) (tx crowdvest.Tx, err error) {
	defer errors.Recover(&err)
	return b.decoder(raw)
}
