/*
Package x contains the extensions the ledger is composed of.

Extensions implement common functionality (Handler, Decorator, Initializer)
and are combined together by the app package. Authentication is abstracted
behind the Authenticator interface defined here, so that an extension never
depends on how signatures were verified.

Sub-packages:

	sigs    verifies ed25519 transaction signatures
	cash    holds single denomination wallets and moves funds
	utils   logging, recovery, savepoint and metrics decorators
	invest  proposals, escrowed investments and revenue distribution
*/
package x
