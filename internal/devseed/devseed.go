// Package devseed loads JSON seed files used to preload the in-memory
// ChainDB backend in mock mode and in the sandbox server.
package devseed

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Seed lists databases to create before serving requests.
type Seed struct {
	Databases []Database `json:"databases"`
}

// Database is addressed by the access key derived from Name, User and Password.
type Database struct {
	Name     string    `json:"name"`
	User     string    `json:"user"`
	Password string    `json:"password"`
	Accounts []Account `json:"accounts"`
	Tables   []Table   `json:"tables"`
}

// Account is created with Units as its opening balance.
type Account struct {
	UserName string `json:"user_name"`
	Password string `json:"password"`
	Units    uint64 `json:"units"`
}

// Table is stored as the first contract transaction of its contract.
type Table struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

// Load reads and validates a seed file.
func Load(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("devseed: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates seed JSON.
func Parse(data []byte) (*Seed, error) {
	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("devseed: decode: %w", err)
	}
	for i, db := range seed.Databases {
		if strings.TrimSpace(db.Name) == "" {
			return nil, fmt.Errorf("devseed: database %d: name is required", i)
		}
		for j, acc := range db.Accounts {
			if strings.TrimSpace(acc.UserName) == "" {
				return nil, fmt.Errorf("devseed: database %q account %d: user_name is required", db.Name, j)
			}
		}
		for j, tbl := range db.Tables {
			if strings.TrimSpace(tbl.Name) == "" {
				return nil, fmt.Errorf("devseed: database %q table %d: name is required", db.Name, j)
			}
			if len(tbl.Value) == 0 || !json.Valid(tbl.Value) {
				return nil, fmt.Errorf("devseed: database %q table %q: value must be valid JSON", db.Name, tbl.Name)
			}
		}
	}
	return &seed, nil
}
