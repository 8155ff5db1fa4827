package multisig

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/iov-one/msigwallet/codec"
	"github.com/iov-one/msigwallet/coin"
	"github.com/iov-one/msigwallet/errors"
	"github.com/iov-one/msigwallet/orm"
	"github.com/iov-one/msigwallet/weave"
)

const (
	// WalletBucketName is where we store the wallets
	WalletBucketName = "wallets"
	// ProposalBucketName is where we store the proposal ledgers
	ProposalBucketName = "proposals"
	// ConfirmationBucketName is where we store the confirmation matrix
	ConfirmationBucketName = "confirms"
	// WalletAddressBucketName maps a wallet address back to its id
	WalletAddressBucketName = "walletaddr"
	// SequenceName is an auto-increment ID counter for wallets
	SequenceName = "id"

	maxWalletIDLen = 255
)

// WalletCondition returns the condition that controls the funds of the
// wallet with the given id. Messages dispatched by an executed proposal are
// authenticated with it.
func WalletCondition(id []byte) weave.Condition {
	return weave.NewCondition("multisig", "wallet", id)
}

// AccessPolicy tells who may submit and execute proposals.
type AccessPolicy int32

const (
	// PolicyOpen lets any caller submit and execute proposals. Only
	// confirmations and revocations require an owner.
	PolicyOpen AccessPolicy = 0
	// PolicyOwnersOnly requires an owner for every operation.
	PolicyOwnersOnly AccessPolicy = 1
)

var policyNames = map[AccessPolicy]string{
	PolicyOpen:       "open",
	PolicyOwnersOnly: "owners_only",
}

func (p AccessPolicy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("AccessPolicy(%d)", int32(p))
}

// Validate returns an error for an unknown policy.
func (p AccessPolicy) Validate() error {
	if _, ok := policyNames[p]; !ok {
		return errors.Wrapf(errors.ErrInput, "unknown policy %d", int32(p))
	}
	return nil
}

// MarshalJSON encodes the policy by name.
func (p AccessPolicy) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts a policy name. An empty name is the open policy.
func (p *AccessPolicy) UnmarshalJSON(raw []byte) error {
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return errors.Wrap(errors.ErrInput, "policy must be a string")
	}
	if name == "" {
		*p = PolicyOpen
		return nil
	}
	for policy, n := range policyNames {
		if n == name {
			*p = policy
			return nil
		}
	}
	return errors.Wrapf(errors.ErrInput, "unknown policy %q", name)
}

//---- Wallet

// Wallet is the owner registry of a single multisig wallet. It is written
// once and never modified.
type Wallet struct {
	Owners                []weave.Address
	RequiredConfirmations uint32
	Policy                AccessPolicy
	// Address holds the wallet funds. It is derived from the wallet id.
	Address weave.Address
}

var _ orm.Model = (*Wallet)(nil)

func (w *Wallet) Marshal() ([]byte, error) {
	return codec.Marshal(w)
}

func (w *Wallet) Unmarshal(bz []byte) error {
	return codec.Unmarshal(bz, w)
}

// Validate checks the owner registry in the same order Initialize does.
func (w *Wallet) Validate() error {
	if err := validateOwners(w.Owners, w.RequiredConfirmations); err != nil {
		return err
	}
	if err := w.Policy.Validate(); err != nil {
		return errors.Wrap(err, "policy")
	}
	if err := w.Address.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	return nil
}

// validateOwners returns the first failing initialization precondition
// of an owner set.
func validateOwners(owners []weave.Address, required uint32) error {
	if len(owners) == 0 {
		return errors.Wrap(ErrZeroOwners, "owners")
	}
	if required == 0 || int(required) > len(owners) {
		return errors.Wrapf(ErrInvalidConfirmationNumber, "%d of %d owners", required, len(owners))
	}
	for i, o := range owners {
		if o.Validate() != nil || o.IsZero() {
			return errors.Wrapf(ErrInvalidOwner, "owner %d: %v", i, o)
		}
	}
	seen := make(map[string]struct{}, len(owners))
	for _, o := range owners {
		if _, ok := seen[string(o)]; ok {
			return errors.Wrapf(ErrOwnerNotUnique, "owner %s", o)
		}
		seen[string(o)] = struct{}{}
	}
	return nil
}

// WalletRef points from a wallet address to the wallet id.
type WalletRef struct {
	ID []byte
}

var _ orm.Model = (*WalletRef)(nil)

func (r *WalletRef) Marshal() ([]byte, error) {
	return codec.Marshal(r)
}

func (r *WalletRef) Unmarshal(bz []byte) error {
	return codec.Unmarshal(bz, r)
}

func (r *WalletRef) Validate() error {
	return validateWalletID(r.ID)
}

//---- Proposal

// Proposal is a ledger entry describing a deferred action of a wallet.
type Proposal struct {
	Submitter weave.Address
	Target    weave.Address
	Value     coin.Amount
	// Payload is an encoded message dispatched on execution. It may be
	// empty for a plain value transfer. Target receives only Value. The
	// payload is routed by its own message path and runs authenticated
	// as the wallet condition, so Target does not select its handler.
	Payload           []byte
	Executed          bool
	ConfirmationCount uint32
}

var _ orm.Model = (*Proposal)(nil)

func (p *Proposal) Marshal() ([]byte, error) {
	return codec.Marshal(p)
}

func (p *Proposal) Unmarshal(bz []byte) error {
	return codec.Unmarshal(bz, p)
}

func (p *Proposal) Validate() error {
	if err := p.Target.Validate(); err != nil {
		return errors.Wrap(err, "target")
	}
	if err := p.Value.Validate(); err != nil {
		return errors.Wrap(err, "value")
	}
	return nil
}

//---- Confirmation

// Confirmation is an entry of the confirmation matrix. Its presence means
// the owner confirmed the proposal.
type Confirmation struct {
	Owner weave.Address
}

var _ orm.Model = (*Confirmation)(nil)

func (c *Confirmation) Marshal() ([]byte, error) {
	return codec.Marshal(c)
}

func (c *Confirmation) Unmarshal(bz []byte) error {
	return codec.Unmarshal(bz, c)
}

func (c *Confirmation) Validate() error {
	return errors.Wrap(c.Owner.Validate(), "owner")
}

//---- keys

// WalletPrefix is the length prefixed wallet id, so that keys of wallets
// with ids of different length never share a prefix.
func WalletPrefix(id []byte) []byte {
	out := make([]byte, 0, 1+len(id))
	out = append(out, uint8(len(id)))
	return append(out, id...)
}

// ProposalKey is the key of a proposal in the proposal bucket.
func ProposalKey(id []byte, index uint64) []byte {
	return append(WalletPrefix(id), orm.EncodeSequence(index)...)
}

// ConfirmationKey is the key of a confirmation in the confirmation bucket.
// All confirmations of a proposal share the ProposalKey prefix.
func ConfirmationKey(id []byte, index uint64, owner weave.Address) []byte {
	return append(ProposalKey(id, index), owner...)
}

func validateWalletID(id []byte) error {
	if len(id) == 0 {
		return errors.Wrap(errors.ErrEmpty, "wallet id")
	}
	if len(id) > maxWalletIDLen {
		return errors.Wrapf(errors.ErrInput, "wallet id too long: %d", len(id))
	}
	return nil
}

func newWalletObj(id []byte, w *Wallet) orm.Object {
	return orm.NewSimpleObj(id, w)
}

func newConfirmationObj(key []byte, owner weave.Address) orm.Object {
	return orm.NewSimpleObj(key, &Confirmation{Owner: owner})
}

//---- buckets

// WalletBucket is a type-safe wrapper around orm.Bucket
type WalletBucket struct {
	orm.Bucket
	idSeq orm.Sequence
}

// NewWalletBucket initializes a WalletBucket with default name
func NewWalletBucket() WalletBucket {
	b := orm.NewBucket(WalletBucketName, orm.NewSimpleObj(nil, new(Wallet)))
	return WalletBucket{
		Bucket: b,
		idSeq:  b.Sequence(SequenceName),
	}
}

// NextID returns a wallet id that was not given out before.
func (b WalletBucket) NextID(db weave.KVStore) []byte {
	return b.idSeq.NextVal(db)
}

// GetWallet returns the wallet stored under id. Missing wallets fail with
// ErrNotInitialized.
func (b WalletBucket) GetWallet(db weave.ReadOnlyKVStore, id []byte) (*Wallet, error) {
	obj, err := b.Get(db, id)
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, errors.Wrapf(ErrNotInitialized, "wallet %X", id)
	}
	w, ok := obj.Value().(*Wallet)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return w, nil
}

// WalletAddressBucket indexes wallets by the address holding their funds.
type WalletAddressBucket struct {
	orm.Bucket
}

// NewWalletAddressBucket initializes a WalletAddressBucket with default name
func NewWalletAddressBucket() WalletAddressBucket {
	return WalletAddressBucket{
		Bucket: orm.NewBucket(WalletAddressBucketName, orm.NewSimpleObj(nil, new(WalletRef))),
	}
}

// Put records that addr holds the funds of the wallet id.
func (b WalletAddressBucket) Put(db weave.KVStore, addr weave.Address, id []byte) error {
	return b.Save(db, orm.NewSimpleObj(addr, &WalletRef{ID: id}))
}

// WalletID returns the id of the wallet whose funds are held by addr, or
// nil if addr is not a wallet address.
func (b WalletAddressBucket) WalletID(db weave.ReadOnlyKVStore, addr weave.Address) ([]byte, error) {
	obj, err := b.Get(db, addr)
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, nil
	}
	ref, ok := obj.Value().(*WalletRef)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return ref.ID, nil
}

// ProposalBucket holds the proposal ledger of every wallet.
type ProposalBucket struct {
	orm.Bucket
}

// NewProposalBucket initializes a ProposalBucket with default name
func NewProposalBucket() ProposalBucket {
	return ProposalBucket{
		Bucket: orm.NewBucket(ProposalBucketName, orm.NewSimpleObj(nil, new(Proposal))),
	}
}

// counter returns the ledger length counter of a wallet.
func (b ProposalBucket) counter(id []byte) orm.Sequence {
	return b.Sequence(hex.EncodeToString(id))
}

// GetProposal returns the proposal at index of the wallet ledger, or nil
// if there is none.
func (b ProposalBucket) GetProposal(db weave.ReadOnlyKVStore, id []byte, index uint64) (*Proposal, error) {
	obj, err := b.Get(db, ProposalKey(id, index))
	if err != nil {
		return nil, errors.Wrap(err, "bucket lookup")
	}
	if obj == nil || obj.Value() == nil {
		return nil, nil
	}
	p, ok := obj.Value().(*Proposal)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj.Value())
	}
	return p, nil
}

// Put stores the proposal at index of the wallet ledger.
func (b ProposalBucket) Put(db weave.KVStore, id []byte, index uint64, p *Proposal) error {
	return b.Save(db, orm.NewSimpleObj(ProposalKey(id, index), p))
}

// ConfirmationBucket holds the confirmation matrix of every wallet.
type ConfirmationBucket struct {
	orm.Bucket
}

// NewConfirmationBucket initializes a ConfirmationBucket with default name
func NewConfirmationBucket() ConfirmationBucket {
	return ConfirmationBucket{
		Bucket: orm.NewBucket(ConfirmationBucketName, orm.NewSimpleObj(nil, new(Confirmation))),
	}
}

// Confirmed returns true if owner confirmed the proposal.
func (b ConfirmationBucket) Confirmed(db weave.ReadOnlyKVStore, id []byte, index uint64, owner weave.Address) bool {
	return b.Has(db, ConfirmationKey(id, index, owner))
}

// Confirmers returns the owners that confirmed the proposal, ordered by
// address.
func (b ConfirmationBucket) Confirmers(db weave.ReadOnlyKVStore, id []byte, index uint64) ([]weave.Address, error) {
	objs, err := b.PrefixScan(db, ProposalKey(id, index))
	if err != nil {
		return nil, err
	}
	owners := make([]weave.Address, 0, len(objs))
	for _, obj := range objs {
		owners = append(owners, obj.Value().(*Confirmation).Owner)
	}
	return owners, nil
}
