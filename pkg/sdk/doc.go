// Package sdk bootstraps a ChainDB connection from environment variables.
// CHAINDB_RUNTIME_MODE selects between the HTTP client ("http"), an
// in-memory server ("mock"), or the first of the two that is configured
// ("auto", the default). Mock mode can be preloaded from the seed file named
// by CHAINDB_MOCK_SEED so applications run unchanged without a node.
package sdk
