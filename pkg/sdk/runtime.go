package sdk

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/chaindb/chaindb_sdk_go/internal/devseed"
	"github.com/chaindb/chaindb_sdk_go/pkg/chaindb"
	"github.com/chaindb/chaindb_sdk_go/pkg/chaindb/mock"
)

// Environment variables read by NewFromEnv.
const (
	EnvMode     = "CHAINDB_RUNTIME_MODE"
	EnvURL      = "CHAINDB_API_URL"
	EnvDatabase = "CHAINDB_DATABASE"
	EnvUser     = "CHAINDB_USER"
	EnvPassword = "CHAINDB_PASSWORD"
	EnvMockSeed = "CHAINDB_MOCK_SEED"
)

// Runtime modes.
const (
	ModeAuto = "auto"
	ModeHTTP = "http"
	ModeMock = "mock"
)

// NewFromEnv connects using the CHAINDB_* environment variables and returns
// the resolved mode ("http" or "mock"). opts are passed to chaindb.Connect.
func NewFromEnv(opts ...chaindb.Option) (*chaindb.ChainDB, string, error) {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv(EnvMode)))
	serverURL := strings.TrimSpace(os.Getenv(EnvURL))
	database := strings.TrimSpace(os.Getenv(EnvDatabase))
	user := os.Getenv(EnvUser)
	password := os.Getenv(EnvPassword)

	if database == "" {
		return nil, "", fmt.Errorf("sdk: %s is required", EnvDatabase)
	}

	switch mode {
	case "", ModeAuto:
		if serverURL != "" {
			return newHTTP(serverURL, database, user, password, opts)
		}
		return newMock(database, user, password, opts)
	case ModeHTTP:
		if serverURL == "" {
			return nil, "", fmt.Errorf("sdk: HTTP mode requires %s", EnvURL)
		}
		return newHTTP(serverURL, database, user, password, opts)
	case ModeMock:
		return newMock(database, user, password, opts)
	default:
		return nil, "", fmt.Errorf("sdk: unsupported %s value %q", EnvMode, mode)
	}
}

func newHTTP(serverURL, database, user, password string, opts []chaindb.Option) (*chaindb.ChainDB, string, error) {
	db, err := chaindb.Connect(serverURL, database, user, password, opts...)
	if err != nil {
		return nil, "", fmt.Errorf("sdk: init HTTP client: %w", err)
	}
	return db, ModeHTTP, nil
}

func newMock(database, user, password string, opts []chaindb.Option) (*chaindb.ChainDB, string, error) {
	// Probe the options for a key scheme so seeded data lands under the
	// same access key the client derives.
	probe, err := chaindb.Connect("", database, user, password, opts...)
	if err != nil {
		return nil, "", fmt.Errorf("sdk: init mock client: %w", err)
	}
	m := mock.New(mock.WithKeyScheme(probe.KeyScheme()))

	if path := strings.TrimSpace(os.Getenv(EnvMockSeed)); path != "" {
		seed, err := devseed.Load(path)
		if err != nil {
			return nil, "", fmt.Errorf("sdk: load seed: %w", err)
		}
		if err := m.Seed(seed); err != nil {
			return nil, "", fmt.Errorf("sdk: apply seed: %w", err)
		}
		log.Debug().Str("path", path).Int("databases", len(seed.Databases)).Msg("mock seed applied")
	}

	db, err := chaindb.Connect("", database, user, password, append(opts, chaindb.WithBackend(m.Backend()))...)
	if err != nil {
		return nil, "", fmt.Errorf("sdk: init mock client: %w", err)
	}
	return db, ModeMock, nil
}
