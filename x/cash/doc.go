/*
Package cash implements the single denomination account balances that
back multisig wallet deposits and value transfers.

Balances are stored under the owner address. Any extension that needs to
move funds receives a Controller, so the bucket layout stays private to
this package.
*/
package cash
