package utils

import (
	"time"

	"github.com/iov-one/crowdvest"
)

// Logging writes one line per transaction with its path and duration.
// Failures are logged as errors, successful deliveries at info and
// successful checks at debug level.
type Logging struct{}

var _ crowdvest.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx, next crowdvest.Checker) (*crowdvest.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	if err != nil {
		logTx(ctx, tx, start, "", err, true)
		return nil, err
	}
	logTx(ctx, tx, start, res.Log, nil, true)
	return res, nil
}

func (Logging) Deliver(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx, next crowdvest.Deliverer) (*crowdvest.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		logTx(ctx, tx, start, "", err, false)
		return nil, err
	}
	logTx(ctx, tx, start, res.Log, nil, false)
	return res, nil
}

// logTx emits the line even for an empty message since the path and the
// duration are worth recording.
func logTx(ctx crowdvest.Context, tx crowdvest.Tx, start time.Time, msg string, err error, check bool) {
	logger := crowdvest.GetLogger(ctx).With(
		"path", crowdvest.GetPath(tx),
		"duration", time.Since(start)/time.Microsecond,
	)
	switch {
	case err != nil:
		logger.Error(msg, "err", err)
	case check:
		logger.Debug(msg)
	default:
		logger.Info(msg)
	}
}
