package client

import (
	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/x/sigs"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
)

// TransactionID is the hash used to identify the transaction
type TransactionID = cmn.HexBytes

// RequestQuery is used for the query interface to mirror the abci query interface
type RequestQuery = abci.RequestQuery

// ResponseQuery is used for the query interface to mirror the abci query interface
type ResponseQuery = abci.ResponseQuery

// CommitResult is returned once a transaction was included in a block.
// Result is only set on success codes, Err is set if it was a failure code
type CommitResult struct {
	ID     TransactionID
	Height int64
	Result *crowdvest.DeliverResult
	Err    error
}

// SignableTx is a transaction that a client can sign before submitting it.
type SignableTx interface {
	crowdvest.Tx
	sigs.SignedTx
	AddSignature(*sigs.StdSignature)
}
