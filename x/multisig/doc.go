/*
Package multisig implements a wallet shared by a fixed set of owners.

A wallet is created once with its owners and the number of confirmations
required to act. Any outgoing action is first submitted as a proposal,
confirmed by the owners, and executed when the quorum is reached.
Execution moves the proposal value out of the wallet account and may
dispatch an encoded message on behalf of the wallet.

All state transitions are implemented by the Authority type. Handlers only
translate messages into Authority calls and its events into result tags.

Execution is irreversible. A proposal is marked executed before the
executor runs, so a failed execution leaves it executed and it cannot be
retried.

Funds reach a wallet either through DepositMsg or through a plain cash
transfer to the wallet address. Both emit a deposit event, the latter when
DepositObserver is registered with the cash handlers.
*/
package multisig
