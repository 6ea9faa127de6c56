package chaindb

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/chaindb/chaindb_sdk_go/internal/httpx"
)

// RetryPolicy controls transport retries. See WithRetryPolicy.
type RetryPolicy = httpx.RetryPolicy

// ReadRetryPolicy retries transient failures up to three times. Writes are
// not idempotent, so use it only on clients that read.
var ReadRetryPolicy = httpx.ReadRetryPolicy

// Backend performs the raw ChainDB calls. Every method returns the
// undecoded response body.
type Backend interface {
	LastContractTransaction(ctx context.Context, contractID, accessKey string) ([]byte, error)
	ContractTransactions(ctx context.Context, contractID, accessKey string, depth int) ([]byte, error)
	PostContractTransaction(ctx context.Context, req ContractTransactionRequest) ([]byte, error)
	CreateUserAccount(ctx context.Context, req CreateUserAccountRequest) ([]byte, error)
	GetUserAccount(ctx context.Context, userName, password, accessKey string) ([]byte, error)
	GetUserAccountByID(ctx context.Context, id, accessKey string) ([]byte, error)
	CheckUserName(ctx context.Context, userName, accessKey string) ([]byte, error)
	TransferUnits(ctx context.Context, req TransferUnitsRequest) ([]byte, error)
	GetTransferByUserID(ctx context.Context, id, accessKey string) ([]byte, error)
	GetAllTransfersByUserID(ctx context.Context, id, accessKey string) ([]byte, error)
}

// Option configures Connect.
type Option func(*config)

type config struct {
	httpOpts []httpx.Option
	scheme   KeyScheme
	logger   *zerolog.Logger
	backend  Backend
}

// WithHTTPClient overrides the underlying *http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *config) {
		c.httpOpts = append(c.httpOpts, httpx.WithHTTPClient(h))
	}
}

// WithHeaders adds default headers to every request.
func WithHeaders(h http.Header) Option {
	return func(c *config) {
		c.httpOpts = append(c.httpOpts, httpx.WithHeaders(h))
	}
}

// WithRetryPolicy enables transport retries. The default is a single attempt.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *config) {
		c.httpOpts = append(c.httpOpts, httpx.WithRetryPolicy(p))
	}
}

// WithTracing emits an OpenTelemetry client span per request.
func WithTracing() Option {
	return func(c *config) {
		c.httpOpts = append(c.httpOpts, httpx.WithTracing())
	}
}

// WithLogger sets the logger used for request and table logs.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) {
		c.logger = &l
	}
}

// WithKeyScheme selects the access key and contract id derivation.
func WithKeyScheme(s KeyScheme) Option {
	return func(c *config) {
		c.scheme = s
	}
}

// WithBackend replaces the HTTP backend, e.g. with an in-memory mock.
func WithBackend(b Backend) Option {
	return func(c *config) {
		c.backend = b
	}
}

// ChainDB is a connection to one logical database. It is immutable and safe
// for concurrent use.
type ChainDB struct {
	server    string
	creds     Credentials
	accessKey string
	scheme    KeyScheme
	backend   Backend
	logger    zerolog.Logger
}

// Connect binds credentials to a server. An empty server selects
// DefaultServer. No request is made.
func Connect(server, database, user, password string, opts ...Option) (*ChainDB, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	server = strings.TrimSpace(server)
	if server == "" {
		server = DefaultServer
	}

	l := log.Logger
	if cfg.logger != nil {
		l = *cfg.logger
	}

	backend := cfg.backend
	if backend == nil {
		httpClient, err := httpx.NewClient(server, append([]httpx.Option{httpx.WithLogger(l)}, cfg.httpOpts...)...)
		if err != nil {
			return nil, fmt.Errorf("chaindb: init HTTP client: %w", err)
		}
		backend = &httpBackend{client: httpClient}
	}

	creds := Credentials{Database: database, User: user, Password: password}
	return &ChainDB{
		server:    server,
		creds:     creds,
		accessKey: cfg.scheme.AccessKey(creds),
		scheme:    cfg.scheme,
		backend:   backend,
		logger:    l.With().Str("component", "chaindb").Str("database", database).Logger(),
	}, nil
}

// Server returns the base address requests are sent to.
func (db *ChainDB) Server() string { return db.server }

// Database returns the logical database name.
func (db *ChainDB) Database() string { return db.creds.Database }

// Credentials returns a copy of the connection credentials.
func (db *ChainDB) Credentials() Credentials { return db.creds }

// AccessKey returns the derived per-database access key.
func (db *ChainDB) AccessKey() string { return db.accessKey }

// KeyScheme returns the derivation scheme in use.
func (db *ChainDB) KeyScheme() KeyScheme { return db.scheme }

// ContractID returns the identifier a table name maps to in this database.
func (db *ChainDB) ContractID(table string) string {
	return db.scheme.ContractID(db.creds, table)
}

// WithDatabase returns a copy bound to another database with the same
// credentials and transport.
func (db *ChainDB) WithDatabase(database string) *ChainDB {
	clone := *db
	clone.creds.Database = database
	clone.accessKey = db.scheme.AccessKey(clone.creds)
	clone.logger = db.logger.With().Str("database", database).Logger()
	return &clone
}

func (db *ChainDB) check() error {
	if db == nil || db.backend == nil {
		return ErrNilClient
	}
	return nil
}

type httpBackend struct {
	client *httpx.Client
}

func joinPath(route string, segments ...string) string {
	var b strings.Builder
	b.WriteString(route)
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

func (b *httpBackend) LastContractTransaction(ctx context.Context, contractID, accessKey string) ([]byte, error) {
	return b.client.GetJSON(ctx, joinPath(PathLastContractTransaction, contractID, accessKey))
}

func (b *httpBackend) ContractTransactions(ctx context.Context, contractID, accessKey string, depth int) ([]byte, error) {
	return b.client.GetJSON(ctx, joinPath(PathContractTransactions, contractID, accessKey, strconv.Itoa(depth)))
}

func (b *httpBackend) PostContractTransaction(ctx context.Context, req ContractTransactionRequest) ([]byte, error) {
	return b.client.PostJSON(ctx, PathPostContractTransaction, req)
}

func (b *httpBackend) CreateUserAccount(ctx context.Context, req CreateUserAccountRequest) ([]byte, error) {
	return b.client.PostJSON(ctx, PathCreateUserAccount, req)
}

func (b *httpBackend) GetUserAccount(ctx context.Context, userName, password, accessKey string) ([]byte, error) {
	return b.client.GetJSON(ctx, joinPath(PathGetUserAccount, userName, password, accessKey))
}

func (b *httpBackend) GetUserAccountByID(ctx context.Context, id, accessKey string) ([]byte, error) {
	return b.client.GetJSON(ctx, joinPath(PathGetUserAccountByID, id, accessKey))
}

func (b *httpBackend) CheckUserName(ctx context.Context, userName, accessKey string) ([]byte, error) {
	return b.client.GetJSON(ctx, joinPath(PathCheckUserName, userName, accessKey))
}

func (b *httpBackend) TransferUnits(ctx context.Context, req TransferUnitsRequest) ([]byte, error) {
	return b.client.PostJSON(ctx, PathTransferUnits, req)
}

func (b *httpBackend) GetTransferByUserID(ctx context.Context, id, accessKey string) ([]byte, error) {
	return b.client.GetJSON(ctx, joinPath(PathGetTransferByUserID, id, accessKey))
}

func (b *httpBackend) GetAllTransfersByUserID(ctx context.Context, id, accessKey string) ([]byte, error) {
	return b.client.GetJSON(ctx, joinPath(PathGetAllTransfersByUserID, id, accessKey))
}
