package multisig

import (
	"encoding/hex"
	"strconv"

	"github.com/iov-one/msigwallet/coin"
	"github.com/iov-one/msigwallet/weave"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	tagEvent   = "multisig.event"
	tagWallet  = "multisig.wallet"
	tagOwner   = "multisig.owner"
	tagSender  = "multisig.sender"
	tagIndex   = "multisig.index"
	tagTarget  = "multisig.target"
	tagValue   = "multisig.value"
	tagPayload = "multisig.payload"
	tagAmount  = "multisig.amount"
	tagBalance = "multisig.balance"
	tagResult  = "multisig.result"

	// executeFailedEvent tags an execution whose executor failed. It is
	// distinct from ExecuteTransaction, which is emitted on success only.
	executeFailedEvent = "execute_failed"
)

// Event is an externally observable record of a wallet state change.
type Event interface {
	// Name identifies the event kind.
	Name() string
	// Tags returns the event as ABCI tags.
	Tags(walletID []byte) []common.KVPair
}

// Deposit is emitted when funds are sent to the wallet.
type Deposit struct {
	Sender  weave.Address
	Amount  coin.Amount
	Balance coin.Amount
}

func (Deposit) Name() string { return "deposit" }

func (e Deposit) Tags(walletID []byte) []common.KVPair {
	return append(baseTags(e, walletID),
		tag(tagSender, e.Sender.String()),
		tag(tagAmount, e.Amount.String()),
		tag(tagBalance, e.Balance.String()),
	)
}

// SubmitTransaction is emitted when a proposal is appended to the ledger.
type SubmitTransaction struct {
	Owner   weave.Address
	Index   uint64
	Target  weave.Address
	Value   coin.Amount
	Payload []byte
}

func (SubmitTransaction) Name() string { return "submit" }

func (e SubmitTransaction) Tags(walletID []byte) []common.KVPair {
	return append(baseTags(e, walletID),
		tag(tagOwner, e.Owner.String()),
		tag(tagIndex, strconv.FormatUint(e.Index, 10)),
		tag(tagTarget, e.Target.String()),
		tag(tagValue, e.Value.String()),
		tag(tagPayload, hex.EncodeToString(e.Payload)),
	)
}

// ConfirmTransaction is emitted when an owner confirms a proposal.
type ConfirmTransaction struct {
	Owner weave.Address
	Index uint64
}

func (ConfirmTransaction) Name() string { return "confirm" }

func (e ConfirmTransaction) Tags(walletID []byte) []common.KVPair {
	return ownerIndexTags(e, walletID, e.Owner, e.Index)
}

// RevokeConfirmation is emitted when an owner withdraws a confirmation.
type RevokeConfirmation struct {
	Owner weave.Address
	Index uint64
}

func (RevokeConfirmation) Name() string { return "revoke" }

func (e RevokeConfirmation) Tags(walletID []byte) []common.KVPair {
	return ownerIndexTags(e, walletID, e.Owner, e.Index)
}

// ExecuteTransaction is emitted when a proposal was executed successfully.
type ExecuteTransaction struct {
	Owner weave.Address
	Index uint64
}

func (ExecuteTransaction) Name() string { return "execute" }

func (e ExecuteTransaction) Tags(walletID []byte) []common.KVPair {
	return ownerIndexTags(e, walletID, e.Owner, e.Index)
}

func ownerIndexTags(e Event, walletID []byte, owner weave.Address, index uint64) []common.KVPair {
	return append(baseTags(e, walletID),
		tag(tagOwner, owner.String()),
		tag(tagIndex, strconv.FormatUint(index, 10)),
	)
}

func baseTags(e Event, walletID []byte) []common.KVPair {
	return []common.KVPair{
		tag(tagEvent, e.Name()),
		tag(tagWallet, hex.EncodeToString(walletID)),
	}
}

func tag(key, value string) common.KVPair {
	return common.KVPair{Key: []byte(key), Value: []byte(value)}
}

// EventTags flattens the tags of all events.
func EventTags(walletID []byte, events []Event) []common.KVPair {
	var tags []common.KVPair
	for _, e := range events {
		tags = append(tags, e.Tags(walletID)...)
	}
	return tags
}
