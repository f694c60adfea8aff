/*
Package utils contains decorators shared by all transactions.

Logging reports every transaction with its duration, Recovery turns panics
into errors, Savepoint runs a transaction inside a cache wrap that is written
only on success, ActionTagger tags results with the message path and Metrics
exports transaction counts and latency to prometheus.
*/
package utils
