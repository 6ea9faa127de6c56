package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/chaindb/chaindb_sdk_go/pkg/chaindb"
)

const (
	keyConfig   = "config"
	keyServer   = "server"
	keyDatabase = "database"
	keyUser     = "user"
	keyPassword = "password"
	keyScheme   = "key-scheme"
	keyOutput   = "output"
	keyLogLevel = "log-level"
	keyLogType  = "log-type"
)

// settings is the resolved connection configuration.
type settings struct {
	Server   string
	Database string
	User     string
	Password string
	Scheme   chaindb.KeyScheme
	Output   string
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "chaindb", "config.yaml")
}

// loadConfig merges the config file, if present, under flags and env.
func (a *app) loadConfig() error {
	path := strings.TrimSpace(a.v.GetString(keyConfig))
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	a.v.SetConfigFile(path)
	if err := a.v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	return nil
}

// resolve reads the effective settings. The password falls back to the
// keyring entry for server, database and user.
func (a *app) resolve() (settings, error) {
	s := settings{
		Server:   strings.TrimSpace(a.v.GetString(keyServer)),
		Database: strings.TrimSpace(a.v.GetString(keyDatabase)),
		User:     strings.TrimSpace(a.v.GetString(keyUser)),
		Password: a.v.GetString(keyPassword),
		Output:   strings.ToLower(strings.TrimSpace(a.v.GetString(keyOutput))),
	}
	scheme, err := chaindb.ParseKeyScheme(a.v.GetString(keyScheme))
	if err != nil {
		return settings{}, err
	}
	s.Scheme = scheme

	switch s.Output {
	case outputTable, outputJSON:
	default:
		return settings{}, fmt.Errorf("unsupported output format %q", s.Output)
	}
	if s.Database == "" {
		return settings{}, errors.New("no database configured: pass --database or run chaindb login")
	}
	if s.User == "" {
		return settings{}, errors.New("no user configured: pass --user or run chaindb login")
	}

	if s.Password == "" {
		ring, err := a.openKeyring()
		if err != nil {
			return settings{}, fmt.Errorf("open keyring: %w", err)
		}
		pw, err := loadPassword(ring, s.Server, s.Database, s.User)
		if err != nil {
			return settings{}, err
		}
		s.Password = pw
	}
	return s, nil
}

// saveConfig writes the non-secret connection settings to path.
func saveConfig(path string, s settings) error {
	if path == "" {
		return errors.New("no config path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	w := viper.New()
	w.Set(keyServer, s.Server)
	w.Set(keyDatabase, s.Database)
	w.Set(keyUser, s.User)
	w.Set(keyScheme, s.Scheme.String())
	return w.WriteConfigAs(path)
}
