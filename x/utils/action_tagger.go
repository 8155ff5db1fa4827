package utils

import (
	"github.com/iov-one/msigwallet/weave"
	"github.com/tendermint/tendermint/libs/common"
)

// ActionTagger will inspect the message being executed and
// add a tag `action = msg.Path()`. This should be applied as
// a decorator so clients have a standard way to search / subscribe
// to eg. wallet creation.
//
// Messages dispatched by an executed proposal pass through the router
// directly, so only the outer transaction is tagged.
type ActionTagger struct{}

var _ weave.Decorator = ActionTagger{}

// ActionKey is used by ActionTagger as the Key in the Tag it appends
const ActionKey = "action"

// NewActionTagger creates a ActionTagger decorator
func NewActionTagger() ActionTagger {
	return ActionTagger{}
}

// Check just passes the request along
func (ActionTagger) Check(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Checker) (*weave.CheckResult, error) {
	return next.Check(ctx, db, tx)
}

// Deliver appends a tag on the result if there is a success.
func (ActionTagger) Deliver(ctx weave.Context, db weave.KVStore, tx weave.Tx, next weave.Deliverer) (*weave.DeliverResult, error) {
	res, err := next.Deliver(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	if res == nil {
		res = &weave.DeliverResult{}
	}
	res.Tags = append(res.Tags, common.KVPair{
		Key:   []byte(ActionKey),
		Value: []byte(weave.GetPath(tx)),
	})
	return res, nil
}
