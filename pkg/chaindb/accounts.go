package chaindb

import (
	"context"
	"errors"
	"fmt"

	"github.com/chaindb/chaindb_sdk_go/internal/chainapi"
)

const (
	opCreateUserAccount       = "create user account"
	opGetUserAccount          = "get user account"
	opGetUserAccountByID      = "get user account by id"
	opCheckUserName           = "check user name"
	opTransferUnits           = "transfer units"
	opGetTransferByUserID     = "get transfer by user id"
	opGetAllTransfersByUserID = "get all transfers by user id"
)

// CreateUserAccount registers userName in the connected database. The
// server rejects names already in use with ErrNameTaken.
func (db *ChainDB) CreateUserAccount(ctx context.Context, userName, password string, opts *CreateAccountOptions) (*Account, error) {
	if err := db.check(); err != nil {
		return nil, err
	}
	req := CreateUserAccountRequest{
		DBAccessKey: db.accessKey,
		UserName:    userName,
		Password:    password,
	}
	if opts != nil {
		if opts.Units != nil {
			units := *opts.Units
			req.Units = &units
		}
		if opts.PasswordHint != "" {
			hint := opts.PasswordHint
			req.PasswordHint = &hint
		}
	}
	body, err := db.backend.CreateUserAccount(ctx, req)
	return decodeRequired[Account](opCreateUserAccount, body, err)
}

// GetUserAccount fetches an account by its credentials.
func (db *ChainDB) GetUserAccount(ctx context.Context, userName, password string) (*Account, error) {
	if err := db.check(); err != nil {
		return nil, err
	}
	body, err := db.backend.GetUserAccount(ctx, userName, password, db.accessKey)
	return decodeRequired[Account](opGetUserAccount, body, err)
}

// GetUserAccountByID fetches an account by its server-assigned id.
func (db *ChainDB) GetUserAccountByID(ctx context.Context, id string) (*Account, error) {
	if err := db.check(); err != nil {
		return nil, err
	}
	body, err := db.backend.GetUserAccountByID(ctx, id, db.accessKey)
	return decodeRequired[Account](opGetUserAccountByID, body, err)
}

// CheckUserName asks the server whether userName is free and returns its
// message. A taken name is reported as ErrNameTaken.
func (db *ChainDB) CheckUserName(ctx context.Context, userName string) (string, error) {
	if err := db.check(); err != nil {
		return "", err
	}
	body, err := db.backend.CheckUserName(ctx, userName, db.accessKey)
	env, err := decodeEnvelope(opCheckUserName, body, err)
	if err != nil {
		return "", err
	}
	var msg string
	if err := env.DecodeData(&msg); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidResponse, opCheckUserName, err)
	}
	return msg, nil
}

// NameTaken reports whether userName is already registered.
func (db *ChainDB) NameTaken(ctx context.Context, userName string) (bool, error) {
	_, err := db.CheckUserName(ctx, userName)
	if errors.Is(err, ErrNameTaken) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// TransferUnits moves units from one account to another. Balance checks
// happen on the server; an overdraft fails with ErrInsufficientUnits.
func (db *ChainDB) TransferUnits(ctx context.Context, from, to string, units uint64) error {
	if err := db.check(); err != nil {
		return err
	}
	body, err := db.backend.TransferUnits(ctx, TransferUnitsRequest{
		DBAccessKey: db.accessKey,
		From:        from,
		To:          to,
		Units:       units,
	})
	_, err = decodeEnvelope(opTransferUnits, body, err)
	return err
}

// GetTransferByUserID returns the most recent transfer involving id.
func (db *ChainDB) GetTransferByUserID(ctx context.Context, id string) (*Transfer, error) {
	if err := db.check(); err != nil {
		return nil, err
	}
	body, err := db.backend.GetTransferByUserID(ctx, id, db.accessKey)
	return decodeRequired[Transfer](opGetTransferByUserID, body, err)
}

// GetAllTransfersByUserID returns every transfer involving id in the order
// the server delivers them.
func (db *ChainDB) GetAllTransfersByUserID(ctx context.Context, id string) ([]Transfer, error) {
	if err := db.check(); err != nil {
		return nil, err
	}
	body, err := db.backend.GetAllTransfersByUserID(ctx, id, db.accessKey)
	env, err := decodeEnvelope(opGetAllTransfersByUserID, body, err)
	if err != nil {
		return nil, err
	}
	var transfers []Transfer
	if err := env.DecodeData(&transfers); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidResponse, opGetAllTransfersByUserID, err)
	}
	return transfers, nil
}

// decodeEnvelope turns a backend result into a successful envelope or an
// error. Transport errors whose body is a failed envelope become ServerErrors.
func decodeEnvelope(op string, body []byte, callErr error) (*chainapi.Envelope, error) {
	if callErr != nil {
		return nil, callError(op, callErr)
	}
	env, err := chainapi.DecodeEnvelope(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidResponse, op, err)
	}
	if !env.Success {
		return nil, &ServerError{Op: op, Message: env.ErrorMsg}
	}
	return env, nil
}

func decodeRequired[T any](op string, body []byte, callErr error) (*T, error) {
	env, err := decodeEnvelope(op, body, callErr)
	if err != nil {
		return nil, err
	}
	if !env.HasData() {
		return nil, fmt.Errorf("%w: %s: missing data", ErrInvalidResponse, op)
	}
	var out T
	if err := env.DecodeData(&out); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidResponse, op, err)
	}
	return &out, nil
}
