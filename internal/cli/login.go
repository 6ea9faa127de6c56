package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/chaindb/chaindb_sdk_go/pkg/chaindb"
)

func (a *app) newLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Save connection settings and store the password in the keyring",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := settings{
				Server:   strings.TrimSpace(a.v.GetString(keyServer)),
				Database: strings.TrimSpace(a.v.GetString(keyDatabase)),
				User:     strings.TrimSpace(a.v.GetString(keyUser)),
				Password: a.v.GetString(keyPassword),
			}
			scheme, err := chaindb.ParseKeyScheme(a.v.GetString(keyScheme))
			if err != nil {
				return err
			}
			s.Scheme = scheme
			if s.Database == "" || s.User == "" {
				return errors.New("login requires --database and --user")
			}
			if s.Password == "" {
				pw, err := pterm.DefaultInteractiveTextInput.WithMask("*").Show("Password")
				if err != nil {
					return err
				}
				s.Password = pw
			}
			if _, err := chaindb.Connect(s.Server, s.Database, s.User, s.Password, chaindb.WithKeyScheme(s.Scheme)); err != nil {
				return err
			}

			ring, err := a.openKeyring()
			if err != nil {
				return fmt.Errorf("open keyring: %w", err)
			}
			if err := savePassword(ring, s.Server, s.Database, s.User, s.Password); err != nil {
				return fmt.Errorf("store password: %w", err)
			}
			path := a.v.GetString(keyConfig)
			if err := saveConfig(path, s); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			success(cmd.OutOrStdout(), "logged in to %s as %s on %s", s.Database, s.User, s.Server)
			return nil
		},
	}
}

func (a *app) newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored password for the configured database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			server := strings.TrimSpace(a.v.GetString(keyServer))
			database := strings.TrimSpace(a.v.GetString(keyDatabase))
			user := strings.TrimSpace(a.v.GetString(keyUser))
			if database == "" || user == "" {
				return errors.New("nothing to log out from: no database or user configured")
			}
			ring, err := a.openKeyring()
			if err != nil {
				return fmt.Errorf("open keyring: %w", err)
			}
			if err := removePassword(ring, server, database, user); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "removed stored password for %s on %s", user, database)
			return nil
		},
	}
}
