package cash

import (
	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/errors"
	"github.com/iov-one/crowdvest/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

var _ orm.Model = (*Wallet)(nil)

// Validate ensures the wallet carries a known schema.
func (w *Wallet) Validate() error {
	return errors.Wrap(w.Metadata.Validate(), "metadata")
}

// NewWallet returns a wallet holding given balance.
func NewWallet(balance uint64) *Wallet {
	return &Wallet{
		Metadata: &crowdvest.Metadata{Schema: 1},
		Balance:  balance,
	}
}

// NewBucket returns a bucket for storing wallets, keyed by owner address.
func NewBucket() orm.ModelBucket {
	return orm.NewModelBucket(BucketName, &Wallet{})
}
