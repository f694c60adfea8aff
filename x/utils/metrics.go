package utils

import (
	"strconv"
	"time"

	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is a decorator that counts processed transactions and measures
// how long their delivery took. Only DeliverTx is measured, CheckTx results
// are not part of the chain state.
type Metrics struct {
	txTotal    *prometheus.CounterVec
	txDuration *prometheus.HistogramVec
}

var _ crowdvest.Decorator = (*Metrics)(nil)

// NewMetrics registers transaction metrics with given registerer.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)
	return &Metrics{
		txTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crowdvest",
			Name:      "tx_total",
			Help:      "number of delivered transactions by message path and result code",
		}, []string{"path", "code"}),
		txDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "crowdvest",
			Name:      "tx_duration_seconds",
			Help:      "duration of transaction delivery",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 14),
		}, []string{"path"}),
	}
}

// Check passes the request along.
func (m *Metrics) Check(ctx crowdvest.Context, store crowdvest.KVStore, tx crowdvest.Tx, next crowdvest.Checker) (*crowdvest.CheckResult, error) {
	return next.Check(ctx, store, tx)
}

// Deliver measures the delivery of the transaction.
func (m *Metrics) Deliver(ctx crowdvest.Context, store crowdvest.KVStore, tx crowdvest.Tx, next crowdvest.Deliverer) (*crowdvest.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)

	path := crowdvest.GetPath(tx)
	code, _ := errors.ABCIInfo(err, false)
	m.txTotal.WithLabelValues(path, codeLabel(code)).Inc()
	m.txDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	return res, err
}

func codeLabel(code uint32) string {
	if code == errors.SuccessABCICode {
		return "ok"
	}
	return strconv.FormatUint(uint64(code), 10)
}
