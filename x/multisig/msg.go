package multisig

import (
	"encoding/hex"

	"github.com/iov-one/msigwallet/codec"
	"github.com/iov-one/msigwallet/coin"
	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/weave"
)

func init() {
	codec.RegisterMsg(&CreateWalletMsg{}, pathCreateWalletMsg)
	codec.RegisterMsg(&DepositMsg{}, pathDepositMsg)
	codec.RegisterMsg(&SubmitProposalMsg{}, pathSubmitProposalMsg)
	codec.RegisterMsg(&ConfirmProposalMsg{}, pathConfirmProposalMsg)
	codec.RegisterMsg(&RevokeConfirmationMsg{}, pathRevokeConfirmationMsg)
	codec.RegisterMsg(&ExecuteProposalMsg{}, pathExecuteProposalMsg)
}

const (
	pathCreateWalletMsg       = "multisig/create"
	pathDepositMsg            = "multisig/deposit"
	pathSubmitProposalMsg     = "multisig/submit"
	pathConfirmProposalMsg    = "multisig/confirm"
	pathRevokeConfirmationMsg = "multisig/revoke"
	pathExecuteProposalMsg    = "multisig/execute"

	maxPayloadSize = 16 * 1024
)

// CreateWalletMsg creates a new wallet. The wallet id is returned in the
// result data.
type CreateWalletMsg struct {
	Owners                []weave.Address
	RequiredConfirmations uint32
	Policy                AccessPolicy
}

var _ weave.Msg = (*CreateWalletMsg)(nil)

func (CreateWalletMsg) Path() string {
	return pathCreateWalletMsg
}

func (m *CreateWalletMsg) Validate() error {
	if err := validateOwners(m.Owners, m.RequiredConfirmations); err != nil {
		return err
	}
	return m.Policy.Validate()
}

// DepositMsg moves funds from the sender account to the wallet.
type DepositMsg struct {
	WalletID []byte
	Sender   weave.Address
	Amount   coin.Amount
}

var _ weave.Msg = (*DepositMsg)(nil)

func (DepositMsg) Path() string {
	return pathDepositMsg
}

func (m *DepositMsg) Validate() error {
	if err := validateWalletID(m.WalletID); err != nil {
		return err
	}
	if err := m.Sender.Validate(); err != nil {
		return errors.Wrap(err, "sender")
	}
	if err := m.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if m.Amount.IsZero() {
		return errors.Wrap(errors.ErrAmount, "non-positive deposit")
	}
	return nil
}

// SubmitProposalMsg appends a proposal to the wallet ledger. The index of
// the proposal is returned in the result data.
//
// Sender is optional. When empty the main signer of the transaction
// submits.
type SubmitProposalMsg struct {
	WalletID []byte
	Sender   weave.Address
	Target   weave.Address
	Value    coin.Amount
	Payload  []byte
}

var _ weave.Msg = (*SubmitProposalMsg)(nil)

func (SubmitProposalMsg) Path() string {
	return pathSubmitProposalMsg
}

func (m *SubmitProposalMsg) Validate() error {
	if err := validateWalletID(m.WalletID); err != nil {
		return err
	}
	if err := validateSender(m.Sender); err != nil {
		return err
	}
	if err := m.Target.Validate(); err != nil {
		return errors.Wrap(err, "target")
	}
	if err := m.Value.Validate(); err != nil {
		return errors.Wrap(err, "value")
	}
	if len(m.Payload) > maxPayloadSize {
		return errors.Wrapf(errors.ErrInput, "payload too big: %d", len(m.Payload))
	}
	return nil
}

// ConfirmProposalMsg confirms a proposal as the sender.
type ConfirmProposalMsg struct {
	WalletID []byte
	Sender   weave.Address
	Index    uint64
}

var _ weave.Msg = (*ConfirmProposalMsg)(nil)

func (ConfirmProposalMsg) Path() string {
	return pathConfirmProposalMsg
}

func (m *ConfirmProposalMsg) Validate() error {
	return validateIndexMsg(m.WalletID, m.Sender)
}

// RevokeConfirmationMsg withdraws a confirmation of the sender.
type RevokeConfirmationMsg struct {
	WalletID []byte
	Sender   weave.Address
	Index    uint64
}

var _ weave.Msg = (*RevokeConfirmationMsg)(nil)

func (RevokeConfirmationMsg) Path() string {
	return pathRevokeConfirmationMsg
}

func (m *RevokeConfirmationMsg) Validate() error {
	return validateIndexMsg(m.WalletID, m.Sender)
}

// ExecuteProposalMsg executes a proposal that reached the quorum.
type ExecuteProposalMsg struct {
	WalletID []byte
	Sender   weave.Address
	Index    uint64
}

var _ weave.Msg = (*ExecuteProposalMsg)(nil)

func (ExecuteProposalMsg) Path() string {
	return pathExecuteProposalMsg
}

func (m *ExecuteProposalMsg) Validate() error {
	return validateIndexMsg(m.WalletID, m.Sender)
}

func validateIndexMsg(id []byte, sender weave.Address) error {
	if err := validateWalletID(id); err != nil {
		return err
	}
	return validateSender(sender)
}

// validateSender accepts an empty sender, that stands for the main signer.
func validateSender(sender weave.Address) error {
	if len(sender) == 0 {
		return nil
	}
	return errors.Wrap(sender.Validate(), "sender")
}

func walletFields(id []byte) []interface{} {
	return []interface{}{"wallet", hex.EncodeToString(id)}
}

func indexFields(id []byte, index uint64) []interface{} {
	return append(walletFields(id), "index", index)
}

var (
	_ weave.LogFielder = (*DepositMsg)(nil)
	_ weave.LogFielder = (*SubmitProposalMsg)(nil)
	_ weave.LogFielder = (*ConfirmProposalMsg)(nil)
	_ weave.LogFielder = (*RevokeConfirmationMsg)(nil)
	_ weave.LogFielder = (*ExecuteProposalMsg)(nil)
)

func (m *DepositMsg) LogFields() []interface{}            { return walletFields(m.WalletID) }
func (m *SubmitProposalMsg) LogFields() []interface{}     { return walletFields(m.WalletID) }
func (m *ConfirmProposalMsg) LogFields() []interface{}    { return indexFields(m.WalletID, m.Index) }
func (m *RevokeConfirmationMsg) LogFields() []interface{} { return indexFields(m.WalletID, m.Index) }
func (m *ExecuteProposalMsg) LogFields() []interface{}    { return indexFields(m.WalletID, m.Index) }
