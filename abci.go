package crowdvest

import (
	"fmt"

	"github.com/iov-one/crowdvest/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// DeliverResult is returned by a handler that successfully executed a
// transaction. Failures are always reported with an error instead.
type DeliverResult struct {
	// Data carries the ID of the entity created by the transaction, if
	// any. Proposal and investment IDs are returned this way.
	Data []byte
	Log  string
	// Tags are indexed by tendermint and allow searching the history.
	Tags    []common.KVPair
	GasUsed int64
}

// CheckResult is returned by a handler that accepted a transaction into
// the mempool.
type CheckResult struct {
	Data         []byte
	Log          string
	GasAllocated int64
}

// DeliverResponse builds the abci response of a DeliverTx call. A non nil
// error takes precedence over the result.
func DeliverResponse(res *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		code, log, kind := failure("deliver", err, debug)
		return abci.ResponseDeliverTx{Code: code, Log: log, Codespace: kind}
	}
	if res == nil {
		return abci.ResponseDeliverTx{}
	}
	return abci.ResponseDeliverTx{
		Data:    res.Data,
		Log:     res.Log,
		Tags:    res.Tags,
		GasUsed: res.GasUsed,
	}
}

// CheckResponse builds the abci response of a CheckTx call. A non nil
// error takes precedence over the result.
func CheckResponse(res *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		code, log, kind := failure("check", err, debug)
		return abci.ResponseCheckTx{Code: code, Log: log, Codespace: kind}
	}
	if res == nil {
		return abci.ResponseCheckTx{}
	}
	return abci.ResponseCheckTx{
		Data:      res.Data,
		Log:       res.Log,
		GasWanted: res.GasAllocated,
	}
}

// failure returns the code, the log and the error kind reported to the
// client. The kind travels in the codespace field so that a client can
// classify a failure without knowing every code.
func failure(phase string, err error, debug bool) (uint32, string, string) {
	code, log := errors.ABCIInfo(err, debug)
	if code == errors.SuccessABCICode {
		return code, log, ""
	}
	return code, fmt.Sprintf("cannot %s tx: %s", phase, log), string(errors.KindOf(err))
}
