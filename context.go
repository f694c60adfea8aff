/*
Package crowdvest holds the interfaces the ledger is assembled from: stores,
transactions, handlers and decorators, plus the block values passed along in
the Context.

Block values are written once by the application before any handler runs:

	WithHeight(ctx, h) Context
	GetHeight(ctx) (h, ok)

A With call panics when the value is already present, so no decorator or
handler can rewrite the height, the header, the block time or the chain id
seen by the rest of the stack.
*/
package crowdvest

import (
	"context"
	"fmt"
	"regexp"
	"time"

	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

type contextKey int

const (
	contextKeyHeader contextKey = iota
	contextKeyHeight
	contextKeyChainID
	contextKeyLogger
	contextKeyBlockTime
)

var (
	// DefaultLogger is returned by GetLogger when no logger was set.
	DefaultLogger = log.NewNopLogger()

	// IsValidChainID accepts 6 to 20 characters of [a-zA-Z0-9_-].
	IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString
)

// Context is the standard context carrying the block values.
type Context = context.Context

func setOnce(ctx Context, key contextKey, name string, value interface{}) Context {
	if ctx.Value(key) != nil {
		panic(name + " already set")
	}
	return context.WithValue(ctx, key, value)
}

func WithHeader(ctx Context, header abci.Header) Context {
	return setOnce(ctx, contextKeyHeader, "Header", header)
}

func GetHeader(ctx Context) (abci.Header, bool) {
	header, ok := ctx.Value(contextKeyHeader).(abci.Header)
	return header, ok
}

func WithHeight(ctx Context, height int64) Context {
	return setOnce(ctx, contextKeyHeight, "Height", height)
}

func GetHeight(ctx Context) (int64, bool) {
	height, ok := ctx.Value(contextKeyHeight).(int64)
	return height, ok
}

// WithBlockTime sets the time declared in the block header. Proposal
// deadlines are compared against it, never against the local clock.
func WithBlockTime(ctx Context, t time.Time) Context {
	return setOnce(ctx, contextKeyBlockTime, "Block time", t)
}

func BlockTime(ctx Context) (time.Time, bool) {
	t, ok := ctx.Value(contextKeyBlockTime).(time.Time)
	return t, ok
}

// WithChainID panics on an invalid chain id as well.
func WithChainID(ctx Context, chainID string) Context {
	if !IsValidChainID(chainID) {
		panic(fmt.Sprintf("Invalid chain ID: %s", chainID))
	}
	return setOnce(ctx, contextKeyChainID, "Chain ID", chainID)
}

// GetChainID panics when no chain id was set. The application sets it
// before the first transaction, so a missing value is a programming error.
func GetChainID(ctx Context) string {
	chainID, ok := ctx.Value(contextKeyChainID).(string)
	if !ok {
		panic("Chain ID not present in context")
	}
	return chainID
}

func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// WithLogInfo adds key value pairs to every line logged through ctx.
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	return WithLogger(ctx, GetLogger(ctx).With(keyvals...))
}

func GetLogger(ctx Context) log.Logger {
	if logger, ok := ctx.Value(contextKeyLogger).(log.Logger); ok {
		return logger
	}
	return DefaultLogger
}
