package chainapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// TxType discriminates the kind of a chain transaction.
type TxType string

const (
	TxNone     TxType = "NONE"
	TxAccount  TxType = "ACCOUNT"
	TxContract TxType = "CONTRACT"
	TxTransfer TxType = "TRANSFER"
)

// ContractTransaction is a contract record as stored on the chain. Data
// holds the model either inline or as a JSON-encoded string.
type ContractTransaction struct {
	TxType      TxType          `json:"tx_type"`
	ContractID  string          `json:"contract_id"`
	DBAccessKey string          `json:"db_access_key,omitempty"`
	Timestamp   int64           `json:"timestamp,omitempty"`
	Data        json.RawMessage `json:"data"`
}

// None is the sentinel returned when no record exists.
func None() ContractTransaction {
	return ContractTransaction{TxType: TxNone, Data: json.RawMessage("null")}
}

// IsNone reports whether tx is the "no data yet" sentinel.
func (tx ContractTransaction) IsNone() bool {
	return tx.TxType == TxNone
}

// Payload returns the model document carried by tx.
func (tx ContractTransaction) Payload() []byte {
	return UnwrapPayload(tx.Data)
}

// DecodeContract parses the latest-record response. Both the bare record
// and an envelope-wrapped record are accepted.
func DecodeContract(body []byte) (*ContractTransaction, error) {
	raw, err := unwrapOptionalEnvelope(body)
	if err != nil {
		return nil, err
	}
	if bytes.Equal(raw, []byte("null")) {
		none := None()
		return &none, nil
	}
	var tx ContractTransaction
	if err := json.Unmarshal(raw, &tx); err != nil {
		return nil, fmt.Errorf("%w: decode contract transaction: %v", ErrMalformed, err)
	}
	if tx.TxType == "" {
		return nil, fmt.Errorf("%w: missing tx_type", ErrMalformed)
	}
	return &tx, nil
}

// DecodeContracts parses a history response (a list of records, bare or
// envelope-wrapped).
func DecodeContracts(body []byte) ([]ContractTransaction, error) {
	raw, err := unwrapOptionalEnvelope(body)
	if err != nil {
		return nil, err
	}
	if bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var txs []ContractTransaction
	if err := json.Unmarshal(raw, &txs); err != nil {
		return nil, fmt.Errorf("%w: decode contract transactions: %v", ErrMalformed, err)
	}
	return txs, nil
}

// ServerFailure is returned by the decoders when an envelope reports failure.
type ServerFailure struct {
	Message string
}

func (f *ServerFailure) Error() string {
	return "chainapi: server reported failure: " + f.Message
}

func unwrapOptionalEnvelope(body []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty body", ErrMalformed)
	}
	if trimmed[0] != '{' {
		return trimmed, nil
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, ok := probe["success"]; !ok {
		return trimmed, nil
	}
	env, err := DecodeEnvelope(trimmed)
	if err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, &ServerFailure{Message: env.ErrorMsg}
	}
	if !env.HasData() {
		return []byte("null"), nil
	}
	return bytes.TrimSpace(env.Data), nil
}
