/*
Package x contains the helpers shared by the extensions of the wallet
application.

Extensions implement common functionality (Handler, Decorator,
etc.) and are combined together by cmd/msigd/app to construct the
application. Every handler receives an Authenticator and never asks
x/sigs directly, so a proposal payload dispatched as a subcall is
authenticated only by the wallet condition.
*/
package x
