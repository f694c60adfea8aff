package x

import (
	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/errors"
)

// Authenticator reports who authorized the transaction being processed.
// Handlers receive it in their constructor and never read signatures
// directly.
type Authenticator interface {
	// GetConditions returns every condition that signed the transaction.
	// The first one is the main signer.
	GetConditions(crowdvest.Context) []crowdvest.Condition
	HasAddress(crowdvest.Context, crowdvest.Address) bool
}

// ChainAuth merges several authenticators. Conditions keep the order of the
// authenticators and are reported once even if more than one of them
// vouches for it.
func ChainAuth(impls ...Authenticator) Authenticator {
	return chainAuth(impls)
}

type chainAuth []Authenticator

func (c chainAuth) GetConditions(ctx crowdvest.Context) []crowdvest.Condition {
	var conds []crowdvest.Condition
	for _, impl := range c {
	next:
		for _, cond := range impl.GetConditions(ctx) {
			for _, seen := range conds {
				if seen.Equals(cond) {
					continue next
				}
			}
			conds = append(conds, cond)
		}
	}
	return conds
}

func (c chainAuth) HasAddress(ctx crowdvest.Context, addr crowdvest.Address) bool {
	for _, impl := range c {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSignerAddress returns the address of the first signer. It fails with
// ErrUnauthorized when the transaction carries no signature.
func MainSignerAddress(ctx crowdvest.Context, auth Authenticator) (crowdvest.Address, error) {
	conds := auth.GetConditions(ctx)
	if len(conds) == 0 {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return conds[0].Address(), nil
}
