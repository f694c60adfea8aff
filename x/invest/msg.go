package invest

import (
	"github.com/iov-one/crowdvest"
	"github.com/iov-one/crowdvest/errors"
	"github.com/iov-one/crowdvest/orm"
)

const (
	pathInitializeMsg        = "invest/initialize"
	pathCreateProposalMsg    = "invest/create_proposal"
	pathInvestMsg            = "invest/invest"
	pathAcceptProposalMsg    = "invest/accept_proposal"
	pathRejectProposalMsg    = "invest/reject_proposal"
	pathDistributeRewardsMsg = "invest/distribute_rewards"
)

var _ crowdvest.Msg = (*InitializeMsg)(nil)

func (InitializeMsg) Path() string {
	return pathInitializeMsg
}

func (m *InitializeMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := m.Owner.Validate(); err != nil {
		return errors.Wrap(err, "owner")
	}
	return nil
}

var _ crowdvest.Msg = (*CreateProposalMsg)(nil)

func (CreateProposalMsg) Path() string {
	return pathCreateProposalMsg
}

func (m *CreateProposalMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	return validateDescription(m.Description, errors.ErrInput)
}

var _ crowdvest.Msg = (*InvestMsg)(nil)

func (InvestMsg) Path() string {
	return pathInvestMsg
}

func (m *InvestMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := orm.ValidateSequence(m.ProposalID); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	// Investor is optional. The main signer is used when not provided.
	if m.Investor != nil {
		if err := m.Investor.Validate(); err != nil {
			return errors.Wrap(err, "investor")
		}
	}
	if m.Amount == 0 {
		return errors.Wrap(errors.ErrInput, "zero amount")
	}
	return nil
}

var _ crowdvest.Msg = (*AcceptProposalMsg)(nil)

func (AcceptProposalMsg) Path() string {
	return pathAcceptProposalMsg
}

func (m *AcceptProposalMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := orm.ValidateSequence(m.ProposalID); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

var _ crowdvest.Msg = (*RejectProposalMsg)(nil)

func (RejectProposalMsg) Path() string {
	return pathRejectProposalMsg
}

func (m *RejectProposalMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := orm.ValidateSequence(m.ProposalID); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	return nil
}

var _ crowdvest.Msg = (*DistributeRewardsMsg)(nil)

func (DistributeRewardsMsg) Path() string {
	return pathDistributeRewardsMsg
}

func (m *DistributeRewardsMsg) Validate() error {
	if err := m.Metadata.Validate(); err != nil {
		return errors.Wrap(err, "metadata")
	}
	if err := orm.ValidateSequence(m.ProposalID); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	if err := m.Vault.Validate(); err != nil {
		return errors.Wrap(err, "vault")
	}
	for i, p := range m.Pairs {
		if p == nil {
			return errors.Wrapf(errors.ErrInput, "pair %d is empty", i)
		}
		if len(p.InvestmentID) == 0 {
			return errors.Wrapf(errors.ErrInput, "pair %d investment id missing", i)
		}
		if err := p.Investor.Validate(); err != nil {
			return errors.Wrapf(err, "pair %d investor", i)
		}
	}
	return nil
}
