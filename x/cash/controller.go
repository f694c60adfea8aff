package cash

import (
	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/errors"
	"github.com/iov-one/crowdvest/orm"
)

// Controller is the functionality needed by any extension that wants to
// read or move funds.
type Controller interface {
	// Balance returns the funds held by given address. An address that
	// never received anything holds zero.
	Balance(db crowdvest.ReadOnlyKVStore, addr crowdvest.Address) (uint64, error)

	// MoveCoins transfers amount from src to dest. It fails when src does
	// not hold enough funds or dest would overflow.
	MoveCoins(db crowdvest.KVStore, src, dest crowdvest.Address, amount uint64) error

	// IssueCoins creates amount out of thin air and credits it to dest.
	IssueCoins(db crowdvest.KVStore, dest crowdvest.Address, amount uint64) error
}

// BaseController is a simple implementation of Controller. All wallets are
// stored in the cash bucket.
type BaseController struct {
	bucket orm.ModelBucket
}

var _ Controller = BaseController{}

// NewController returns a controller using the given bucket.
func NewController(bucket orm.ModelBucket) BaseController {
	return BaseController{bucket: bucket}
}

func (c BaseController) load(db crowdvest.ReadOnlyKVStore, addr crowdvest.Address) (*Wallet, error) {
	var w Wallet
	switch err := c.bucket.One(db, addr, &w); {
	case err == nil:
		return &w, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, errors.Wrap(err, "cannot load wallet")
	}
}

func (c BaseController) Balance(db crowdvest.ReadOnlyKVStore, addr crowdvest.Address) (uint64, error) {
	if err := addr.Validate(); err != nil {
		return 0, errors.Wrap(err, "address")
	}
	w, err := c.load(db, addr)
	if err != nil || w == nil {
		return 0, err
	}
	return w.Balance, nil
}

func (c BaseController) MoveCoins(db crowdvest.KVStore, src, dest crowdvest.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrAmount, "zero value")
	}
	if err := src.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}

	sender, err := c.load(db, src)
	if err != nil {
		return err
	}
	if sender == nil {
		return errors.Wrapf(errors.ErrInsufficientFunds, "empty account %s", src)
	}
	if sender.Balance < amount {
		return errors.Wrapf(errors.ErrInsufficientFunds, "has %d, needs %d", sender.Balance, amount)
	}
	sender.Balance -= amount
	if _, err := c.bucket.Put(db, src, sender); err != nil {
		return errors.Wrap(err, "cannot save sender")
	}

	// Moving funds to self must read the already updated balance.
	return c.credit(db, dest, amount)
}

func (c BaseController) IssueCoins(db crowdvest.KVStore, dest crowdvest.Address, amount uint64) error {
	if err := dest.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	return c.credit(db, dest, amount)
}

func (c BaseController) credit(db crowdvest.KVStore, dest crowdvest.Address, amount uint64) error {
	recipient, err := c.load(db, dest)
	if err != nil {
		return err
	}
	if recipient == nil {
		recipient = NewWallet(0)
	}
	sum := recipient.Balance + amount
	if sum < recipient.Balance {
		return errors.Wrapf(errors.ErrOverflow, "balance of %s", dest)
	}
	recipient.Balance = sum
	if _, err := c.bucket.Put(db, dest, recipient); err != nil {
		return errors.Wrap(err, "cannot save recipient")
	}
	return nil
}
