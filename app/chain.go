package app

import (
	"reflect"

	"github.com/iov-one/crowdvest"
)

// Decorators is an ordered middleware stack. The first decorator is the
// outermost one and sees every transaction first.
type Decorators []crowdvest.Decorator

// ChainDecorators builds a stack from the given decorators. Nil entries are
// skipped so that optional decorators can be passed in unconditionally.
func ChainDecorators(ds ...crowdvest.Decorator) Decorators {
	return Decorators(nil).Chain(ds...)
}

// Chain returns a new stack with given decorators appended below the
// existing ones. The receiver is not modified.
func (d Decorators) Chain(ds ...crowdvest.Decorator) Decorators {
	out := make(Decorators, 0, len(d)+len(ds))
	out = append(out, d...)
	for _, dec := range ds {
		if !isNilDecorator(dec) {
			out = append(out, dec)
		}
	}
	return out
}

func isNilDecorator(d crowdvest.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler closes the stack with the handler that executes the message,
// usually a Router.
func (d Decorators) WithHandler(h crowdvest.Handler) crowdvest.Handler {
	for i := len(d) - 1; i >= 0; i-- {
		h = link{dec: d[i], next: h}
	}
	return h
}

// link binds a decorator to the rest of the stack below it.
type link struct {
	dec  crowdvest.Decorator
	next crowdvest.Handler
}

var _ crowdvest.Handler = link{}

func (l link) Check(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx) (*crowdvest.CheckResult, error) {
	return l.dec.Check(ctx, db, tx, l.next)
}

func (l link) Deliver(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx) (*crowdvest.DeliverResult, error) {
	return l.dec.Deliver(ctx, db, tx, l.next)
}
