package chaindb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/chaindb/chaindb_sdk_go/internal/chainapi"
	"github.com/chaindb/chaindb_sdk_go/internal/httpx"
)

const (
	opGetTable     = "get table"
	opPersistTable = "persist table"
	opTableHistory = "table history"
)

// Table is a caller-defined model stored under a contract id. Value is owned
// by the caller; a Table must not be mutated from several goroutines without
// external locking.
type Table[T any] struct {
	// Value is the in-memory model. Persist writes it back as is.
	Value T

	name       string
	contractID string
	db         *ChainDB
	present    bool
}

// GetTable loads the latest value stored for name, or newModel() when the
// table has never been written.
func GetTable[T any](ctx context.Context, db *ChainDB, name string, newModel func() T) (*Table[T], error) {
	if err := db.check(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("chaindb: table name is required")
	}
	if newModel == nil {
		return nil, fmt.Errorf("chaindb: table %q: model factory is required", name)
	}

	t := &Table[T]{
		name:       name,
		contractID: db.ContractID(name),
		db:         db,
	}

	rec, err := t.latest(ctx)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		t.Value = newModel()
		return t, nil
	}
	t.Value = rec.Value
	t.present = true
	return t, nil
}

// Name returns the table name.
func (t *Table[T]) Name() string { return t.name }

// ContractID returns the identifier the table is stored under.
func (t *Table[T]) ContractID() string { return t.contractID }

// Exists reports whether the value was loaded from, or written to, the server.
func (t *Table[T]) Exists() bool { return t.present }

func (t *Table[T]) latest(ctx context.Context) (*Record[T], error) {
	body, err := t.db.backend.LastContractTransaction(ctx, t.contractID, t.db.accessKey)
	if err != nil {
		return nil, callError(opGetTable, err)
	}
	tx, err := chainapi.DecodeContract(body)
	if err != nil {
		return nil, decodeError(opGetTable, err)
	}
	return decodeRecord[T](t.contractID, *tx)
}

// Persist writes Value as the newest contract transaction. The server's
// current value is not read first: concurrent writers overwrite each other.
func (t *Table[T]) Persist(ctx context.Context) error {
	if t == nil || t.db == nil {
		return ErrNilClient
	}
	if err := t.db.check(); err != nil {
		return err
	}
	data, err := httpx.MarshalJSON(t.Value)
	if err != nil {
		return fmt.Errorf("chaindb: table %q: encode value: %w", t.name, err)
	}

	body, err := t.db.backend.PostContractTransaction(ctx, ContractTransactionRequest{
		TxType:      TxContract,
		ContractID:  t.contractID,
		DBAccessKey: t.db.accessKey,
		Data:        string(data),
	})
	if err != nil {
		return callError(opPersistTable, err)
	}
	// Older servers reply with an empty or non-envelope body; only an
	// explicit failure is treated as an error.
	if len(bytes.TrimSpace(body)) > 0 {
		if env, err := chainapi.DecodeEnvelope(body); err == nil && !env.Success {
			return &ServerError{Op: opPersistTable, Message: env.ErrorMsg}
		}
	}

	t.present = true
	t.db.logger.Info().
		Str("table", t.name).
		Str("contract_id", t.contractID[:8]).
		Msg("table updated")
	return nil
}

// Reload replaces Value with the latest stored value. A table that has never
// been written keeps its current Value.
func (t *Table[T]) Reload(ctx context.Context) error {
	if t == nil || t.db == nil {
		return ErrNilClient
	}
	rec, err := t.latest(ctx)
	if err != nil {
		return err
	}
	if rec != nil {
		t.Value = rec.Value
		t.present = true
	}
	return nil
}

// History returns up to depth past values in the order the server delivers
// them. A table that was never written yields an empty slice.
func (t *Table[T]) History(ctx context.Context, depth int) ([]T, error) {
	if t == nil || t.db == nil {
		return nil, ErrNilClient
	}
	if err := t.db.check(); err != nil {
		return nil, err
	}
	body, err := t.db.backend.ContractTransactions(ctx, t.contractID, t.db.accessKey, depth)
	if err != nil {
		return nil, callError(opTableHistory, err)
	}
	txs, err := chainapi.DecodeContracts(body)
	if err != nil {
		return nil, decodeError(opTableHistory, err)
	}
	if len(txs) == 1 && txs[0].IsNone() {
		return []T{}, nil
	}

	values := make([]T, 0, len(txs))
	for _, tx := range txs {
		rec, err := decodeRecord[T](t.contractID, tx)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			continue
		}
		values = append(values, rec.Value)
	}
	return values, nil
}

// decodeRecord returns nil for the NONE sentinel, for non-contract records
// and for records of another contract.
func decodeRecord[T any](contractID string, tx chainapi.ContractTransaction) (*Record[T], error) {
	if tx.TxType != chainapi.TxContract || tx.ContractID != contractID {
		return nil, nil
	}
	payload := tx.Payload()
	if len(payload) == 0 {
		payload = []byte("null")
	}
	var value T
	if err := json.Unmarshal(payload, &value); err != nil {
		// Servers that store data inline may hand back a string model as a
		// bare JSON string.
		var inline T
		if len(tx.Data) == 0 || json.Unmarshal(tx.Data, &inline) != nil {
			return nil, fmt.Errorf("%w: decode table value: %v", ErrInvalidResponse, err)
		}
		value = inline
	}
	return &Record[T]{ContractID: tx.ContractID, Timestamp: tx.Timestamp, Value: value}, nil
}
