package weavetest

import "github.com/iov-one/crowdvest"

// Decorator is a counting middleware double. A configured error stops the
// stack before the next handler runs. Calls are counted whether they fail
// or not, and Paths records the message path of every transaction seen.
type Decorator struct {
	CheckErr   error
	DeliverErr error

	Paths []string

	checks, delivers int
}

var _ crowdvest.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx, next crowdvest.Checker) (*crowdvest.CheckResult, error) {
	d.checks++
	d.Paths = append(d.Paths, crowdvest.GetPath(tx))
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx, next crowdvest.Deliverer) (*crowdvest.DeliverResult, error) {
	d.delivers++
	d.Paths = append(d.Paths, crowdvest.GetPath(tx))
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int   { return d.checks }
func (d *Decorator) DeliverCallCount() int { return d.delivers }
func (d *Decorator) CallCount() int        { return d.checks + d.delivers }

// Decorate closes a single decorator over the handler.
func Decorate(h crowdvest.Handler, d crowdvest.Decorator) crowdvest.Handler {
	return decorated{handler: h, decorator: d}
}

type decorated struct {
	handler   crowdvest.Handler
	decorator crowdvest.Decorator
}

func (d decorated) Check(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx) (*crowdvest.CheckResult, error) {
	return d.decorator.Check(ctx, db, tx, d.handler)
}

func (d decorated) Deliver(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx) (*crowdvest.DeliverResult, error) {
	return d.decorator.Deliver(ctx, db, tx, d.handler)
}
