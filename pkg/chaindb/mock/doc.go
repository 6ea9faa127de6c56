// Package mock provides an in-memory ChainDB server. It enforces the rules
// the real service applies (unique user names, balance checks on transfers,
// append-only contract history) so SDK code can be exercised without a
// running node, either directly through Backend or over HTTP via Handler.
package mock
