package invest

import (
	"unicode/utf8"

	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/errors"
	"github.com/iov-one/crowdvest/orm"
	"github.com/iov-one/crowdvest/x"
)

const (
	// maxDescriptionSize is the maximum length in bytes of a proposal
	// description.
	maxDescriptionSize = 200

	// configKey is the only key under which Config is stored.
	configKey = "authority"
)

var _ orm.Model = (*Config)(nil)

// Validate ensures the authority is declared.
func (c *Config) Validate() error {
	if err := c.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := c.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	return nil
}

var _ orm.Model = (*Proposal)(nil)

// Validate ensures the proposal is in a consistent state.
func (p *Proposal) Validate() error {
	if err := p.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := p.Creator.Validate(); err != nil {
		return errors.Wrap(err, "creator")
	}
	if err := validateDescription(p.Description, errors.ErrModel); err != nil {
		return err
	}
	switch p.Status {
	case ProposalStatusPending, ProposalStatusAccepted, ProposalStatusRejected:
	default:
		return errors.Wrapf(errors.ErrModel, "status %s", p.Status)
	}
	if p.RewardsDistributed && p.Status != ProposalStatusAccepted {
		return errors.Wrapf(errors.ErrModel, "rewards distributed for %s proposal", p.Status)
	}
	return nil
}

// validateDescription is shared by the model and the message validation.
// Each of them reports a different error class.
func validateDescription(d string, baseErr *errors.Error) error {
	if len(d) > maxDescriptionSize {
		return errors.Wrapf(baseErr, "description longer than %d bytes", maxDescriptionSize)
	}
	if !utf8.ValidString(d) {
		return errors.Wrap(baseErr, "description is not valid UTF-8")
	}
	return nil
}

var _ orm.Model = (*Investment)(nil)

// Validate ensures the investment references a proposal and carries a
// positive amount.
func (i *Investment) Validate() error {
	if err := i.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := orm.ValidateSequence(i.ProposalID); err != nil {
		return errors.Wrap(err, "proposal id")
	}
	if err := i.Investor.Validate(); err != nil {
		return errors.Wrap(err, "investor")
	}
	if i.Amount == 0 {
		return errors.Wrap(errors.ErrModel, "zero amount")
	}
	return nil
}

// NewConfigBucket returns a bucket holding the single authority declaration.
func NewConfigBucket() orm.ModelBucket {
	return orm.NewModelBucket("investconf", &Config{})
}

var proposalSeq = orm.NewSequence("proposal", "id")

// NewProposalBucket returns a bucket for managing proposals. Each proposal is
// stored under a key generated by a sequence.
func NewProposalBucket() orm.ModelBucket {
	return orm.NewModelBucket("proposal", &Proposal{},
		orm.WithIDSequence(proposalSeq),
	)
}

var investmentSeq = orm.NewSequence("investment", "id")

// NewInvestmentBucket returns a bucket for managing investments. Investments
// are indexed by the proposal they fund.
func NewInvestmentBucket() orm.ModelBucket {
	return orm.NewModelBucket("investment", &Investment{},
		orm.WithIDSequence(investmentSeq),
		orm.WithIndex("proposal", investmentProposalIndexer),
	)
}

func investmentProposalIndexer(obj orm.Object) ([]byte, error) {
	if obj == nil || obj.Value() == nil {
		return nil, nil
	}
	inv, ok := obj.Value().(*Investment)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", obj.Value())
	}
	return inv.ProposalID, nil
}

// EscrowAddress returns the address holding all funds invested into the
// proposal with given ID.
func EscrowAddress(proposalID []byte) crowdvest.Address {
	return crowdvest.NewCondition("invest", "proposal", proposalID).Address()
}

// Authority is the identity allowed to accept and reject proposals and to
// distribute rewards. It is always loaded from the store.
type Authority struct {
	Owner crowdvest.Address
}

// LoadAuthority returns the authority declared in the store. It fails with
// ErrState when the authority was never initialized.
func LoadAuthority(db crowdvest.ReadOnlyKVStore) (*Authority, error) {
	var conf Config
	switch err := NewConfigBucket().One(db, []byte(configKey), &conf); {
	case err == nil:
		return &Authority{Owner: conf.Owner}, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrap(errors.ErrState, "authority not initialized")
	default:
		return nil, errors.Wrap(err, "cannot load authority")
	}
}

// Authorize returns ErrUnauthorized unless the owner signed the current
// transaction.
func (a *Authority) Authorize(ctx crowdvest.Context, auth x.Authenticator) error {
	if a == nil || !auth.HasAddress(ctx, a.Owner) {
		return errors.Wrap(errors.ErrUnauthorized, "authority signature missing")
	}
	return nil
}
