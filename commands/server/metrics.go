package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/iov-one/crowdvest/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/libs/log"
)

// shutdownTimeout bounds how long in-flight scrapes may take once the
// server is asked to stop.
const shutdownTimeout = 5 * time.Second

// ServeMetrics exposes all metrics of the gatherer on /metrics at given
// address until the context is cancelled. An empty address disables the
// endpoint.
func ServeMetrics(ctx context.Context, addr string, gatherer prometheus.Gatherer, logger log.Logger) error {
	if addr == "" {
		<-ctx.Done()
		return nil
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "metrics listener: %s", err)
	}
	return serveMetrics(ctx, ln, gatherer, logger)
}

func serveMetrics(ctx context.Context, ln net.Listener, gatherer prometheus.Gatherer, logger log.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux}

	done := make(chan error, 1)
	go func() {
		done <- srv.Serve(ln)
	}()
	logger.Info("Serving metrics", "addr", ln.Addr().String())

	select {
	case err := <-done:
		return errors.Wrapf(errors.ErrState, "metrics server: %s", err)
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return errors.Wrapf(errors.ErrState, "metrics shutdown: %s", err)
	}
	<-done
	return nil
}
