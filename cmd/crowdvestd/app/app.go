/*
Package app links together all the various components
to construct the crowdvestd app.
*/
package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/app"
	"github.com/iov-one/crowdvest/errors"
	"github.com/iov-one/crowdvest/orm"
	"github.com/iov-one/crowdvest/store/iavl"
	"github.com/iov-one/crowdvest/x"
	"github.com/iov-one/crowdvest/x/cash"
	"github.com/iov-one/crowdvest/x/invest"
	"github.com/iov-one/crowdvest/x/sigs"
	"github.com/iov-one/crowdvest/x/utils"
	"github.com/prometheus/client_golang/prometheus"
)

// Name is returned by the abci Info call.
const Name = "crowdvest"

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, metrics and recovery
func Chain(authFn x.Authenticator, registry prometheus.Registerer) app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewMetrics(registry),
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment nonce
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a default router, dispatching to the cash and invest
// handlers.
func Router(authFn x.Authenticator, registry prometheus.Registerer) *app.Router {
	r := app.NewRouter()
	ctrl := cash.NewController(cash.NewBucket())
	cash.RegisterRoutes(r, authFn, ctrl)
	invest.RegisterRoutes(r, authFn, ctrl, invest.NewMetrics(registry))
	return r
}

// QueryRouter returns a default query router,
// allowing access to "/wallets", "/auth", "/proposals", "/investments",
// "/investconf" and "/"
func QueryRouter() crowdvest.QueryRouter {
	r := crowdvest.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		sigs.RegisterQuery,
		invest.RegisterQuery,
		orm.RegisterQuery,
	)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into BaseApp.
func Stack(registry prometheus.Registerer) crowdvest.Handler {
	authFn := Authenticator()
	return Chain(authFn, registry).
		WithHandler(Router(authFn, registry))
}

// Initializers returns all genesis initializers in the order they must
// run.
func Initializers() crowdvest.Initializer {
	return crowdvest.NewChainInitializers(
		cash.Initializer{},
		invest.Initializer{},
	)
}

// Application constructs a basic ABCI application with
// the given arguments. If you are not sure what to use
// for the Handler, just use Stack().
func Application(name string, h crowdvest.Handler,
	tx crowdvest.TxDecoder, dbPath string, debug bool) (app.BaseApp, error) {

	ctx := context.Background()
	kv, err := CommitKVStore(dbPath)
	if err != nil {
		return app.BaseApp{}, err
	}
	store := app.NewStoreApp(name, kv, QueryRouter(), ctx)
	base := app.NewBaseApp(store, tx, h, debug)
	return base, nil
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named path.
func CommitKVStore(dbPath string) (crowdvest.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return iavl.NewCommitStore("", ""), nil
	}

	// Expand the path fully
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "invalid database name: %s", dbPath)
	}

	// Some external calls accidentally add a ".db", which is now removed
	path = strings.TrimSuffix(path, filepath.Ext(path))

	// Split the database name into it's components (dir, name)
	dir := filepath.Dir(path)
	name := filepath.Base(path)
	return iavl.NewCommitStore(dir, name), nil
}
