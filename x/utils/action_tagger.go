package utils

import (
	"github.com/iov-one/crowdvest"
	"github.com/tendermint/tendermint/libs/common"
)

// ActionKey is the tag key set by ActionTagger.
const ActionKey = "action"

// ActionTagger tags every delivered transaction with "action=<msg path>",
// so clients can subscribe to, for example, every reward distribution.
type ActionTagger struct{}

var _ crowdvest.Decorator = ActionTagger{}

func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

func (ActionTagger) Check(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx, next crowdvest.Checker) (*crowdvest.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver loads the message first so that an undecodable transaction
// fails before any handler runs.
func (ActionTagger) Deliver(ctx crowdvest.Context, db crowdvest.KVStore, tx crowdvest.Tx, next crowdvest.Deliverer) (*crowdvest.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, err
	}
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	tag := common.KVPair{Key: []byte(ActionKey), Value: []byte(msg.Path())}
	res.Tags = append(res.Tags, tag)
	return res, nil
}
