package weavetest

import (
	"context"

	"github.com/iov-one/crowdvest"
)

// Auth authenticates a fixed set of conditions for every transaction. The
// main signer is the first of Signers, or Signer when Signers is empty.
type Auth struct {
	Signer  crowdvest.Condition
	Signers []crowdvest.Condition
}

func (a *Auth) GetConditions(crowdvest.Context) []crowdvest.Condition {
	if a.Signer == nil {
		return a.Signers
	}
	all := make([]crowdvest.Condition, 0, len(a.Signers)+1)
	all = append(all, a.Signers...)
	return append(all, a.Signer)
}

func (a *Auth) HasAddress(ctx crowdvest.Context, addr crowdvest.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

// CtxAuth reads the signers from the context, so that a single ledger can
// serve transactions signed by different accounts. Set them with
// SetConditions.
type CtxAuth struct {
	Key string
}

func (a *CtxAuth) SetConditions(ctx crowdvest.Context, signers ...crowdvest.Condition) crowdvest.Context {
	return context.WithValue(ctx, a.Key, signers)
}

func (a *CtxAuth) GetConditions(ctx crowdvest.Context) []crowdvest.Condition {
	signers, _ := ctx.Value(a.Key).([]crowdvest.Condition)
	return signers
}

func (a *CtxAuth) HasAddress(ctx crowdvest.Context, addr crowdvest.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

func hasAddress(conds []crowdvest.Condition, addr crowdvest.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
