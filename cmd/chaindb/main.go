// Command chaindb is a command-line client for ChainDB servers.
package main

import (
	"github.com/joho/godotenv"

	"github.com/chaindb/chaindb_sdk_go/internal/cli"
)

func main() {
	_ = godotenv.Load()
	cli.Execute()
}
