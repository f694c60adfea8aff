package server

import (
	"context"

	"github.com/iov-one/crowdvest/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

// Options are the settings an application is built with.
type Options struct {
	Home     string
	Logger   log.Logger
	Debug    bool
	Registry prometheus.Registerer
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(*Options) (abci.Application, error)

// Start serves the application over the ABCI socket protocol on given
// address. It blocks until the context is cancelled and then stops the
// server.
func Start(ctx context.Context, app abci.Application, bind string, logger log.Logger) error {
	svr, err := server.NewServer(bind, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))

	logger.Info("Starting ABCI app", "bind", bind)
	if err := svr.Start(); err != nil {
		return errors.Wrapf(errors.ErrState, "cannot start server: %s", err)
	}

	<-ctx.Done()
	logger.Info("Stopping ABCI app")
	if err := svr.Stop(); err != nil {
		return errors.Wrapf(errors.ErrState, "cannot stop server: %s", err)
	}
	return nil
}
