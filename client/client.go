package client

import (
	"context"

	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/app"
	"github.com/iov-one/crowdvest/errors"
	cmn "github.com/tendermint/tendermint/libs/common"
	rpcclient "github.com/tendermint/tendermint/rpc/client"
	ctypes "github.com/tendermint/tendermint/rpc/core/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

// Conn is the subset of the tendermint rpc client that the ledger client
// depends on.
type Conn interface {
	ABCIQueryWithOptions(path string, data cmn.HexBytes, opts rpcclient.ABCIQueryOptions) (*ctypes.ResultABCIQuery, error)
	BroadcastTxSync(tx tmtypes.Tx) (*ctypes.ResultBroadcastTx, error)
	BroadcastTxCommit(tx tmtypes.Tx) (*ctypes.ResultBroadcastTxCommit, error)
}

var _ Conn = (*rpcclient.HTTP)(nil)

// NewHTTPConnection takes a URL and sends all requests to the remote node
func NewHTTPConnection(remote string) *rpcclient.HTTP {
	return rpcclient.NewHTTP(remote, "/websocket")
}

// Client is a tendermint client wrapped to provide simple access to the
// crowd investment ledger.
//
// Basic accessors are declared here. Higher-level API build around these
// basic accessors is defined in wrapper.go
type Client struct {
	conn Conn
}

var _ app.Querier = (*Client)(nil)

// NewClient wraps a Client around an existing tendermint connection.
func NewClient(conn Conn) *Client {
	return &Client{conn: conn}
}

// SubmitTx will submit the tx to the mempool and then return with success
// or error. A transaction that fails the check is not returned an id, it
// never makes it into a block.
func (c *Client) SubmitTx(ctx context.Context, tx crowdvest.Tx) (TransactionID, error) {
	bz, err := marshalTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	res, err := c.conn.BroadcastTxSync(bz)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "submit tx: %s", err)
	}
	if res.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.Code, res.Log)
	}
	return res.Hash, nil
}

// CommitTx will block on both Check and Deliver, returning when the
// transaction is in a block. A check failure is returned as an error,
// a delivery failure is reported in the result.
func (c *Client) CommitTx(ctx context.Context, tx crowdvest.Tx) (*CommitResult, error) {
	bz, err := marshalTx(ctx, tx)
	if err != nil {
		return nil, err
	}
	res, err := c.conn.BroadcastTxCommit(bz)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNetwork, "commit tx: %s", err)
	}
	if res.CheckTx.Code != errors.SuccessABCICode {
		return nil, errors.ABCIError(res.CheckTx.Code, res.CheckTx.Log)
	}

	out := &CommitResult{
		ID:     res.Hash,
		Height: res.Height,
	}
	if res.DeliverTx.Code != errors.SuccessABCICode {
		out.Err = errors.ABCIError(res.DeliverTx.Code, res.DeliverTx.Log)
		return out, nil
	}
	out.Result = &crowdvest.DeliverResult{
		Data:    res.DeliverTx.Data,
		Log:     res.DeliverTx.Log,
		Tags:    res.DeliverTx.Tags,
		GasUsed: res.DeliverTx.GasUsed,
	}
	return out, nil
}

// Query is meant to mirror the abci query interface exactly, so it can be
// wrapped with app.ABCIStore.
func (c *Client) Query(query RequestQuery) ResponseQuery {
	res, err := c.conn.ABCIQueryWithOptions(query.Path, query.Data, rpcclient.ABCIQueryOptions{
		Height: query.Height,
		Prove:  query.Prove,
	})
	// network error reported as special error code
	if err != nil {
		code, log := errors.ABCIInfo(errors.Wrap(errors.ErrNetwork, err.Error()), false)
		return ResponseQuery{
			Code: code,
			Log:  log,
		}
	}
	return res.Response
}

// Store returns a read only view of the committed ledger state of the node.
func (c *Client) Store() crowdvest.ReadOnlyKVStore {
	return app.NewABCIStore(c)
}

func marshalTx(ctx context.Context, tx crowdvest.Tx) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	bz, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrapf(errors.ErrMsg, "marshaling: %s", err)
	}
	return bz, nil
}
