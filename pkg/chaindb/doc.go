// Package chaindb is a client for the ChainDB ledger service. A ChainDB
// value binds a server address, a logical database and the caller's
// credentials; every request carries the access key derived from them.
//
// Accounts and transfers are thin request/response wrappers: balances,
// name uniqueness and transfer history are enforced by the server and
// surfaced as *ServerError values. Tables are caller-defined models stored
// as contract transactions. GetTable returns the latest stored value, or a
// fresh default when nothing has been written yet, and Persist always
// overwrites (last write wins).
package chaindb
