package sigs

import (
	"github.com/iov-one/msigwallet/weave"
	"github.com/iov-one/msigwallet/weavetest"
)

// StdTx is a minimal SignedTx used by the tests of this package.
type StdTx struct {
	weavetest.Tx
	Bytes      []byte
	Signatures []StdSignature
}

var _ SignedTx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	return &StdTx{
		Tx:    weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "sigs/test"}},
		Bytes: payload,
	}
}

func (tx StdTx) GetSignBytes() ([]byte, error) {
	return tx.Bytes, nil
}

func (tx StdTx) GetSignatures() []StdSignature {
	return tx.Signatures
}

// SigCheckHandler stores the seen signers on each call
type SigCheckHandler struct {
	Signers []weave.Condition
}

var _ weave.Handler = (*SigCheckHandler)(nil)

func (s *SigCheckHandler) Check(ctx weave.Context, store weave.KVStore, tx weave.Tx) (*weave.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &weave.CheckResult{}, nil
}

func (s *SigCheckHandler) Deliver(ctx weave.Context, store weave.KVStore, tx weave.Tx) (*weave.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &weave.DeliverResult{}, nil
}
