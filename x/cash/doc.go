/*
Package cash holds single denomination wallets.

A wallet is stored under the address of its owner and holds a non-negative
balance. Funds are moved only through the Controller, which guarantees that
a source never goes below zero and that a destination never overflows.
*/
package cash
