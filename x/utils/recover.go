package utils

import (
	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/errors"
)

// Recovery converts a panic raised below it into an ErrPanic failure, so a
// single broken transaction cannot halt the node. The panic is logged with
// the message path because the error returned to the client is redacted.
type Recovery struct{}

var _ crowdvest.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx, next crowdvest.Checker) (_ *crowdvest.CheckResult, err error) {
	defer recoverTx(ctx, tx, &err)
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx, next crowdvest.Deliverer) (_ *crowdvest.DeliverResult, err error) {
	defer recoverTx(ctx, tx, &err)
	return next.Deliver(ctx, db, tx)
}

func recoverTx(ctx crowdvest.Context, tx crowdvest.Tx, err *error) {
	r := recover()
	if r == nil {
		return
	}
	*err = errors.Wrapf(errors.ErrPanic, "%v", r)
	crowdvest.GetLogger(ctx).Error("transaction panicked", "path", crowdvest.GetPath(tx), "panic", r)
}
