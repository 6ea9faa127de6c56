package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/99designs/keyring"
)

const (
	keyringService = "chaindb"
	// envKeyringPassword unlocks the file keyring without a prompt.
	envKeyringPassword = "CHAINDB_KEYRING_PASSWORD"
)

type keyringOpener func() (keyring.Keyring, error)

// openSystemKeyring opens the native credential store, falling back to an
// encrypted file under the user config directory.
func openSystemKeyring() (keyring.Keyring, error) {
	cfg := keyring.Config{
		ServiceName:      keyringService,
		KeychainName:     keyringService,
		PassPrefix:       keyringService,
		WinCredPrefix:    keyringService,
		FilePasswordFunc: keyring.TerminalPrompt,
	}
	if dir, err := os.UserConfigDir(); err == nil {
		cfg.FileDir = filepath.Join(dir, "chaindb", "keyring")
	}
	if pw := os.Getenv(envKeyringPassword); pw != "" {
		cfg.FilePasswordFunc = keyring.FixedStringPrompt(pw)
	}
	return keyring.Open(cfg)
}

func credentialKey(server, database, user string) string {
	return fmt.Sprintf("%s|%s|%s", server, database, user)
}

func savePassword(ring keyring.Keyring, server, database, user, password string) error {
	return ring.Set(keyring.Item{
		Key:         credentialKey(server, database, user),
		Data:        []byte(password),
		Label:       "ChainDB " + database + " (" + user + ")",
		Description: "ChainDB database password",
	})
}

func loadPassword(ring keyring.Keyring, server, database, user string) (string, error) {
	item, err := ring.Get(credentialKey(server, database, user))
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "", fmt.Errorf("no password stored for %s on %s: pass --password or run chaindb login", user, database)
	}
	if err != nil {
		return "", err
	}
	return string(item.Data), nil
}

// removePassword deletes the stored password. A missing entry is not an error.
func removePassword(ring keyring.Keyring, server, database, user string) error {
	err := ring.Remove(credentialKey(server, database, user))
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil
	}
	return err
}
