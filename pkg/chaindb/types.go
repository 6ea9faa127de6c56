package chaindb

import (
	"github.com/chaindb/chaindb_sdk_go/internal/chainapi"
)

// TxType discriminates chain transactions.
type TxType = chainapi.TxType

const (
	TxNone     = chainapi.TxNone
	TxAccount  = chainapi.TxAccount
	TxContract = chainapi.TxContract
	TxTransfer = chainapi.TxTransfer
)

// Account is a user account as returned by the server.
type Account struct {
	ID       string `json:"id"`
	UserName string `json:"user_name"`
	Units    uint64 `json:"units"`
}

// UserAccount is the id-less view of an account.
type UserAccount struct {
	UserName string `json:"user_name"`
	Units    uint64 `json:"units"`
}

// User drops the server-assigned id.
func (a Account) User() UserAccount {
	return UserAccount{UserName: a.UserName, Units: a.Units}
}

// Transfer records a movement of units between two accounts.
type Transfer struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Units uint64 `json:"units"`
}

// CreateAccountOptions carries the optional fields of CreateUserAccount.
type CreateAccountOptions struct {
	Units        *uint64
	PasswordHint string
}

// Record is a decoded contract transaction for a table.
type Record[T any] struct {
	ContractID string
	Timestamp  int64
	Value      T
}

// CreateUserAccountRequest is the body of POST /create_user_account.
type CreateUserAccountRequest struct {
	DBAccessKey  string  `json:"db_access_key"`
	UserName     string  `json:"user_name"`
	Password     string  `json:"password"`
	PasswordHint *string `json:"password_hint"`
	Units        *uint64 `json:"units"`
}

// TransferUnitsRequest is the body of POST /transfer_units.
type TransferUnitsRequest struct {
	DBAccessKey string `json:"db_access_key"`
	From        string `json:"from"`
	To          string `json:"to"`
	Units       uint64 `json:"units"`
}

// ContractTransactionRequest is the body of POST /post_contract_transaction.
// Data is the JSON encoding of the table model, sent as a string.
type ContractTransactionRequest struct {
	TxType      TxType `json:"tx_type"`
	ContractID  string `json:"contract_id"`
	DBAccessKey string `json:"db_access_key"`
	Data        string `json:"data"`
}
