package mock

import (
	"context"
	"errors"

	"github.com/chaindb/chaindb_sdk_go/internal/chainapi"
	"github.com/chaindb/chaindb_sdk_go/internal/httpx"
	"github.com/chaindb/chaindb_sdk_go/pkg/chaindb"
)

// Backend adapts m to chaindb.Backend. Responses are encoded exactly as the
// HTTP server encodes them.
func (m *Mock) Backend() chaindb.Backend {
	return &backend{m: m}
}

type backend struct {
	m *Mock
}

// envelope encodes value or a server failure. Other errors are returned as is.
func envelope(value any, err error) ([]byte, error) {
	var se *chaindb.ServerError
	if errors.As(err, &se) {
		return chainapi.Fail(se.Message)
	}
	if err != nil {
		return nil, err
	}
	return chainapi.OK(value)
}

func record(value any, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	return httpx.MarshalJSON(value)
}

func (b *backend) LastContractTransaction(ctx context.Context, contractID, accessKey string) ([]byte, error) {
	return record(b.m.LastContract(ctx, accessKey, contractID))
}

func (b *backend) ContractTransactions(ctx context.Context, contractID, accessKey string, depth int) ([]byte, error) {
	return record(b.m.Contracts(ctx, accessKey, contractID, depth))
}

func (b *backend) PostContractTransaction(ctx context.Context, req chaindb.ContractTransactionRequest) ([]byte, error) {
	return envelope(nil, b.m.PostContract(ctx, req))
}

func (b *backend) CreateUserAccount(ctx context.Context, req chaindb.CreateUserAccountRequest) ([]byte, error) {
	return envelope(b.m.CreateAccount(ctx, req))
}

func (b *backend) GetUserAccount(ctx context.Context, userName, password, accessKey string) ([]byte, error) {
	return envelope(b.m.Account(ctx, accessKey, userName, password))
}

func (b *backend) GetUserAccountByID(ctx context.Context, id, accessKey string) ([]byte, error) {
	return envelope(b.m.AccountByID(ctx, accessKey, id))
}

func (b *backend) CheckUserName(ctx context.Context, userName, accessKey string) ([]byte, error) {
	return envelope(b.m.CheckUserName(ctx, accessKey, userName))
}

func (b *backend) TransferUnits(ctx context.Context, req chaindb.TransferUnitsRequest) ([]byte, error) {
	return envelope(nil, b.m.Transfer(ctx, req))
}

func (b *backend) GetTransferByUserID(ctx context.Context, id, accessKey string) ([]byte, error) {
	return envelope(b.m.LastTransfer(ctx, accessKey, id))
}

func (b *backend) GetAllTransfersByUserID(ctx context.Context, id, accessKey string) ([]byte, error) {
	return envelope(b.m.Transfers(ctx, accessKey, id))
}
