package multisig

import (
	"github.com/iov-one/msigwallet/coin"
	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/weave"
	"github.com/iov-one/msigwallet/x/cash"
)

// Executor performs the action described by a proposal. It is called with
// a store that is discarded when an error is returned.
type Executor interface {
	Execute(ctx weave.Context, db weave.KVStore, walletID []byte, p *Proposal) error
}

// Authority is a wallet loaded from the store together with its membership
// index. Create one per operation with Initialize or LoadAuthority.
//
// Every operation runs all of its checks before the first write, so a
// failing call leaves the store untouched.
type Authority struct {
	db     weave.KVStore
	id     []byte
	wallet *Wallet
	owners map[string]struct{}

	proposals     ProposalBucket
	confirmations ConfirmationBucket

	events []Event
}

// Initialize creates the wallet with the given id. It can succeed only
// once per id.
func Initialize(db weave.KVStore, id []byte, owners []weave.Address, required uint32, policy AccessPolicy) (*Authority, error) {
	if err := validateWalletID(id); err != nil {
		return nil, err
	}
	wallets := NewWalletBucket()
	if wallets.Has(db, id) {
		return nil, errors.Wrapf(ErrAlreadyInitialized, "wallet %X", id)
	}
	if err := validateOwners(owners, required); err != nil {
		return nil, err
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	wallet := &Wallet{
		Owners:                owners,
		RequiredConfirmations: required,
		Policy:                policy,
		Address:               WalletCondition(id).Address(),
	}
	if err := wallets.Save(db, newWalletObj(id, wallet)); err != nil {
		return nil, errors.Wrap(err, "save wallet")
	}
	if err := NewWalletAddressBucket().Put(db, wallet.Address, id); err != nil {
		return nil, errors.Wrap(err, "index wallet address")
	}
	return newAuthority(db, id, wallet), nil
}

// LoadAuthority returns the wallet with the given id.
func LoadAuthority(db weave.KVStore, id []byte) (*Authority, error) {
	if err := validateWalletID(id); err != nil {
		return nil, err
	}
	wallet, err := NewWalletBucket().GetWallet(db, id)
	if err != nil {
		return nil, err
	}
	return newAuthority(db, id, wallet), nil
}

func newAuthority(db weave.KVStore, id []byte, wallet *Wallet) *Authority {
	owners := make(map[string]struct{}, len(wallet.Owners))
	for _, o := range wallet.Owners {
		owners[string(o)] = struct{}{}
	}
	return &Authority{
		db:            db,
		id:            id,
		wallet:        wallet,
		owners:        owners,
		proposals:     NewProposalBucket(),
		confirmations: NewConfirmationBucket(),
	}
}

// ID returns the wallet id.
func (a *Authority) ID() []byte {
	return a.id
}

// Wallet returns the owner registry.
func (a *Authority) Wallet() Wallet {
	return *a.wallet
}

// Address returns the account that holds the wallet funds.
func (a *Authority) Address() weave.Address {
	return a.wallet.Address
}

// Events returns the events emitted by this Authority so far.
func (a *Authority) Events() []Event {
	return a.events
}

func (a *Authority) emit(e Event) {
	a.events = append(a.events, e)
}

//---- queries

// IsOwner returns true if addr is a wallet owner.
//
// The membership index makes this a map lookup. Scanning Owners gives the
// same answer.
func (a *Authority) IsOwner(addr weave.Address) bool {
	_, ok := a.owners[string(addr)]
	return ok
}

// Owners returns the owners in their registration order.
func (a *Authority) Owners() []weave.Address {
	out := make([]weave.Address, len(a.wallet.Owners))
	copy(out, a.wallet.Owners)
	return out
}

// OwnerCount returns the number of owners.
func (a *Authority) OwnerCount() int {
	return len(a.wallet.Owners)
}

// RequiredConfirmations returns the quorum.
func (a *Authority) RequiredConfirmations() uint32 {
	return a.wallet.RequiredConfirmations
}

// TransactionCount returns the length of the proposal ledger.
func (a *Authority) TransactionCount() uint64 {
	seq := a.proposals.counter(a.id)
	return seq.Latest(a.db)
}

// Transaction returns the proposal at index.
func (a *Authority) Transaction(index uint64) (*Proposal, error) {
	if index >= a.TransactionCount() {
		return nil, errors.Wrapf(ErrTxDoesNotExist, "index %d", index)
	}
	p, err := a.proposals.GetProposal(a.db, a.id, index)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.Wrapf(ErrTxDoesNotExist, "index %d", index)
	}
	return p, nil
}

// IsConfirmed returns true if owner confirmed the proposal at index.
func (a *Authority) IsConfirmed(index uint64, owner weave.Address) bool {
	return a.confirmations.Confirmed(a.db, a.id, index, owner)
}

// Confirmers returns the owners that confirmed the proposal at index.
func (a *Authority) Confirmers(index uint64) ([]weave.Address, error) {
	if _, err := a.Transaction(index); err != nil {
		return nil, err
	}
	return a.confirmations.Confirmers(a.db, a.id, index)
}

//---- operations

// Submit appends a proposal to the ledger and returns its index.
func (a *Authority) Submit(caller, target weave.Address, value coin.Amount, payload []byte) (uint64, error) {
	if a.wallet.Policy == PolicyOwnersOnly && !a.IsOwner(caller) {
		return 0, errors.Wrapf(ErrNotOwner, "caller %s", caller)
	}
	p := &Proposal{
		Submitter: caller,
		Target:    target,
		Value:     value,
		Payload:   payload,
	}
	if err := p.Validate(); err != nil {
		return 0, err
	}

	seq := a.proposals.counter(a.id)
	index := seq.NextInt(a.db) - 1
	if err := a.proposals.Put(a.db, a.id, index, p); err != nil {
		return 0, errors.Wrap(err, "save proposal")
	}
	a.emit(SubmitTransaction{
		Owner:   caller,
		Index:   index,
		Target:  target,
		Value:   value,
		Payload: payload,
	})
	return index, nil
}

// Confirm records the confirmation of the proposal at index by caller.
func (a *Authority) Confirm(caller weave.Address, index uint64) error {
	p, err := a.pending(caller, index)
	if err != nil {
		return err
	}
	if a.IsConfirmed(index, caller) {
		return errors.Wrapf(ErrTxAlreadyConfirmed, "owner %s, index %d", caller, index)
	}
	if err := a.setConfirmation(index, p, caller, true); err != nil {
		return err
	}
	a.emit(ConfirmTransaction{Owner: caller, Index: index})
	return nil
}

// Revoke withdraws the confirmation of the proposal at index by caller.
func (a *Authority) Revoke(caller weave.Address, index uint64) error {
	p, err := a.pending(caller, index)
	if err != nil {
		return err
	}
	if !a.IsConfirmed(index, caller) {
		return errors.Wrapf(ErrTxNotConfirmed, "owner %s, index %d", caller, index)
	}
	if err := a.setConfirmation(index, p, caller, false); err != nil {
		return err
	}
	a.emit(RevokeConfirmation{Owner: caller, Index: index})
	return nil
}

// pending runs the checks shared by Confirm and Revoke and returns the
// proposal.
func (a *Authority) pending(caller weave.Address, index uint64) (*Proposal, error) {
	if !a.IsOwner(caller) {
		return nil, errors.Wrapf(ErrNotOwner, "caller %s", caller)
	}
	p, err := a.Transaction(index)
	if err != nil {
		return nil, err
	}
	if p.Executed {
		return nil, errors.Wrapf(ErrTxAlreadyExecuted, "index %d", index)
	}
	return p, nil
}

// setConfirmation is the only place where the confirmation matrix and the
// confirmation count of a proposal change. They always change together.
func (a *Authority) setConfirmation(index uint64, p *Proposal, owner weave.Address, confirmed bool) error {
	key := ConfirmationKey(a.id, index, owner)
	if confirmed {
		obj := newConfirmationObj(key, owner)
		if err := a.confirmations.Save(a.db, obj); err != nil {
			return errors.Wrap(err, "save confirmation")
		}
		p.ConfirmationCount++
	} else {
		a.confirmations.Delete(a.db, key)
		p.ConfirmationCount--
	}
	return a.proposals.Put(a.db, a.id, index, p)
}

// Execute performs the proposal at index.
//
// The proposal is persisted as executed before the executor runs. The
// executor works on a cache of the store that is written only when it
// succeeds. When it fails the proposal stays executed and ErrExecuteFailed
// is returned.
func (a *Authority) Execute(ctx weave.Context, exec Executor, caller weave.Address, index uint64) error {
	if a.wallet.Policy == PolicyOwnersOnly && !a.IsOwner(caller) {
		return errors.Wrapf(ErrNotOwner, "caller %s", caller)
	}
	p, err := a.Transaction(index)
	if err != nil {
		return err
	}
	if p.Executed {
		return errors.Wrapf(ErrTxAlreadyExecuted, "index %d", index)
	}
	if p.ConfirmationCount < a.wallet.RequiredConfirmations {
		return errors.Wrapf(ErrConfirmationNumberNotEnough, "%d of %d", p.ConfirmationCount, a.wallet.RequiredConfirmations)
	}
	cacheable, ok := a.db.(weave.CacheableKVStore)
	if !ok {
		return errors.Wrapf(errors.ErrHuman, "%T cannot be cache wrapped", a.db)
	}

	// commit
	p.Executed = true
	if err := a.proposals.Put(a.db, a.id, index, p); err != nil {
		return errors.Wrap(err, "save proposal")
	}

	// interact
	cache := cacheable.CacheWrap()
	if err := exec.Execute(ctx, cache, a.id, p); err != nil {
		cache.Discard()
		return errors.Wrapf(ErrExecuteFailed, "index %d: %s", index, err)
	}
	cache.Write()
	a.emit(ExecuteTransaction{Owner: caller, Index: index})
	return nil
}

// Deposit moves amount from sender to the wallet account.
func (a *Authority) Deposit(bank cash.Controller, sender weave.Address, amount coin.Amount) error {
	if err := bank.MoveCoins(a.db, sender, a.wallet.Address, amount); err != nil {
		return errors.Wrap(err, "deposit")
	}
	balance, err := bank.Balance(a.db, a.wallet.Address)
	if err != nil {
		return errors.Wrap(err, "balance")
	}
	a.emit(Deposit{Sender: sender, Amount: amount, Balance: balance})
	return nil
}
