package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chaindb/chaindb_sdk_go/internal/chainapi"
	"github.com/chaindb/chaindb_sdk_go/internal/devseed"
	"github.com/chaindb/chaindb_sdk_go/pkg/chaindb"
)

type account struct {
	chaindb.Account
	password string
	hint     string
}

type database struct {
	accounts  map[string]*account
	byName    map[string]string
	transfers []chaindb.Transfer
	contracts map[string][]chainapi.ContractTransaction
}

func newDatabase() *database {
	return &database{
		accounts:  make(map[string]*account),
		byName:    make(map[string]string),
		contracts: make(map[string][]chainapi.ContractTransaction),
	}
}

// Mock is an in-memory ChainDB server. Databases are keyed by access key and
// created on first write.
type Mock struct {
	mu     sync.RWMutex
	dbs    map[string]*database
	now    func() time.Time
	newID  func() string
	scheme chaindb.KeyScheme
}

// Option configures the mock instance.
type Option func(*Mock)

// WithClock overrides the clock used for contract timestamps.
func WithClock(fn func() time.Time) Option {
	return func(m *Mock) {
		if fn != nil {
			m.now = fn
		}
	}
}

// WithIDGenerator overrides account id generation.
func WithIDGenerator(fn func() string) Option {
	return func(m *Mock) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// WithKeyScheme sets the derivation used when applying seeds.
func WithKeyScheme(s chaindb.KeyScheme) Option {
	return func(m *Mock) {
		m.scheme = s
	}
}

// New creates an empty mock server.
func New(opts ...Option) *Mock {
	m := &Mock{
		dbs:   make(map[string]*database),
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// MsgBalanceOverflow rejects transfers that would push the recipient past
// the largest representable balance.
const MsgBalanceOverflow = "Recipient balance would overflow"

func fail(msg string) error {
	return &chaindb.ServerError{Message: msg}
}

// db returns the database for accessKey. Callers hold m.mu.
func (m *Mock) db(accessKey string, create bool) *database {
	d := m.dbs[accessKey]
	if d == nil && create {
		d = newDatabase()
		m.dbs[accessKey] = d
	}
	return d
}

// Seed preloads databases, accounts and tables.
func (m *Mock) Seed(seed *devseed.Seed) error {
	if seed == nil {
		return nil
	}
	ctx := context.Background()
	for _, sdb := range seed.Databases {
		creds := chaindb.Credentials{Database: sdb.Name, User: sdb.User, Password: sdb.Password}
		key := m.scheme.AccessKey(creds)
		for _, acc := range sdb.Accounts {
			units := acc.Units
			if _, err := m.CreateAccount(ctx, chaindb.CreateUserAccountRequest{
				DBAccessKey: key,
				UserName:    acc.UserName,
				Password:    acc.Password,
				Units:       &units,
			}); err != nil {
				return fmt.Errorf("mock chaindb: seed account %q: %w", acc.UserName, err)
			}
		}
		for _, tbl := range sdb.Tables {
			if err := m.PostContract(ctx, chaindb.ContractTransactionRequest{
				TxType:      chaindb.TxContract,
				ContractID:  m.scheme.ContractID(creds, tbl.Name),
				DBAccessKey: key,
				Data:        string(tbl.Value),
			}); err != nil {
				return fmt.Errorf("mock chaindb: seed table %q: %w", tbl.Name, err)
			}
		}
	}
	return nil
}

// CreateAccount registers a new account with an opening balance.
func (m *Mock) CreateAccount(ctx context.Context, req chaindb.CreateUserAccountRequest) (chaindb.Account, error) {
	if err := ctx.Err(); err != nil {
		return chaindb.Account{}, err
	}
	if strings.TrimSpace(req.UserName) == "" {
		return chaindb.Account{}, fail("User name is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	d := m.db(req.DBAccessKey, true)
	if _, taken := d.byName[req.UserName]; taken {
		return chaindb.Account{}, fail(chaindb.MsgNameTaken)
	}
	acc := &account{
		Account:  chaindb.Account{ID: m.newID(), UserName: req.UserName},
		password: req.Password,
	}
	if req.Units != nil {
		acc.Units = *req.Units
	}
	if req.PasswordHint != nil {
		acc.hint = *req.PasswordHint
	}
	d.accounts[acc.ID] = acc
	d.byName[acc.UserName] = acc.ID
	return acc.Account, nil
}

// Account looks an account up by credentials.
func (m *Mock) Account(ctx context.Context, accessKey, userName, password string) (chaindb.Account, error) {
	if err := ctx.Err(); err != nil {
		return chaindb.Account{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	d := m.db(accessKey, false)
	if d == nil {
		return chaindb.Account{}, fail(chaindb.MsgUserNotFound)
	}
	id, ok := d.byName[userName]
	if !ok {
		return chaindb.Account{}, fail(chaindb.MsgUserNotFound)
	}
	acc := d.accounts[id]
	if acc.password != password {
		return chaindb.Account{}, fail(chaindb.MsgInvalidCredentials)
	}
	return acc.Account, nil
}

// AccountByID looks an account up by id.
func (m *Mock) AccountByID(ctx context.Context, accessKey, id string) (chaindb.Account, error) {
	if err := ctx.Err(); err != nil {
		return chaindb.Account{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	d := m.db(accessKey, false)
	if d == nil || d.accounts[id] == nil {
		return chaindb.Account{}, fail(chaindb.MsgUserNotFound)
	}
	return d.accounts[id].Account, nil
}

// CheckUserName fails with MsgNameTaken when userName is registered.
func (m *Mock) CheckUserName(ctx context.Context, accessKey, userName string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	if d := m.db(accessKey, false); d != nil {
		if _, taken := d.byName[userName]; taken {
			return "", fail(chaindb.MsgNameTaken)
		}
	}
	return chaindb.MsgNameAvailable, nil
}

// Transfer moves units between two accounts of the same database.
func (m *Mock) Transfer(ctx context.Context, req chaindb.TransferUnitsRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	d := m.db(req.DBAccessKey, false)
	if d == nil {
		return fail(chaindb.MsgUserNotFound)
	}
	from, to := d.accounts[req.From], d.accounts[req.To]
	if from == nil || to == nil {
		return fail(chaindb.MsgUserNotFound)
	}
	if from.Units < req.Units {
		return fail(chaindb.MsgInsufficientUnits)
	}
	if from != to && to.Units > math.MaxUint64-req.Units {
		return fail(MsgBalanceOverflow)
	}
	from.Units -= req.Units
	to.Units += req.Units
	d.transfers = append(d.transfers, chaindb.Transfer{From: req.From, To: req.To, Units: req.Units})
	return nil
}

// Transfers returns the transfers involving id, newest first.
func (m *Mock) Transfers(ctx context.Context, accessKey, id string) ([]chaindb.Transfer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []chaindb.Transfer{}
	d := m.db(accessKey, false)
	if d == nil {
		return out, nil
	}
	for i := len(d.transfers) - 1; i >= 0; i-- {
		tr := d.transfers[i]
		if tr.From == id || tr.To == id {
			out = append(out, tr)
		}
	}
	return out, nil
}

// LastTransfer returns the most recent transfer involving id.
func (m *Mock) LastTransfer(ctx context.Context, accessKey, id string) (chaindb.Transfer, error) {
	all, err := m.Transfers(ctx, accessKey, id)
	if err != nil {
		return chaindb.Transfer{}, err
	}
	if len(all) == 0 {
		return chaindb.Transfer{}, fail(chaindb.MsgNoTransfers)
	}
	return all[0], nil
}

// PostContract appends a contract transaction. Existing values are never
// inspected: the newest write wins.
func (m *Mock) PostContract(ctx context.Context, req chaindb.ContractTransactionRequest) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if req.TxType != chaindb.TxContract {
		return fail(fmt.Sprintf("Unsupported transaction type %q", req.TxType))
	}
	if strings.TrimSpace(req.ContractID) == "" {
		return fail("Contract id is required")
	}
	data, err := json.Marshal(req.Data)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	d := m.db(req.DBAccessKey, true)
	d.contracts[req.ContractID] = append(d.contracts[req.ContractID], chainapi.ContractTransaction{
		TxType:     chainapi.TxContract,
		ContractID: req.ContractID,
		Timestamp:  m.now().UnixMilli(),
		Data:       data,
	})
	return nil
}

// LastContract returns the newest transaction of contractID or the NONE sentinel.
func (m *Mock) LastContract(ctx context.Context, accessKey, contractID string) (chainapi.ContractTransaction, error) {
	txs, err := m.Contracts(ctx, accessKey, contractID, 1)
	if err != nil {
		return chainapi.ContractTransaction{}, err
	}
	return txs[0], nil
}

// Contracts returns up to depth transactions of contractID, newest first.
// depth <= 0 returns the full history. A contract without transactions
// yields a single NONE sentinel.
func (m *Mock) Contracts(ctx context.Context, accessKey, contractID string, depth int) ([]chainapi.ContractTransaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	d := m.db(accessKey, false)
	if d == nil || len(d.contracts[contractID]) == 0 {
		return []chainapi.ContractTransaction{chainapi.None()}, nil
	}
	history := d.contracts[contractID]
	n := len(history)
	if depth > 0 && depth < n {
		n = depth
	}
	out := make([]chainapi.ContractTransaction, 0, n)
	for i := len(history) - 1; i >= 0 && len(out) < n; i-- {
		tx := history[i]
		tx.Data = append(json.RawMessage(nil), tx.Data...)
		out = append(out, tx)
	}
	return out, nil
}
