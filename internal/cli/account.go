package cli

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/chaindb/chaindb_sdk_go/pkg/chaindb"
)

// connect resolves settings and opens a connection.
func (a *app) connect() (*chaindb.ChainDB, settings, error) {
	s, err := a.resolve()
	if err != nil {
		return nil, settings{}, err
	}
	opts := append([]chaindb.Option{chaindb.WithKeyScheme(s.Scheme)}, a.options...)
	db, err := chaindb.Connect(s.Server, s.Database, s.User, s.Password, opts...)
	if err != nil {
		return nil, settings{}, err
	}
	return db, s, nil
}

func accountRows(accounts ...chaindb.Account) func() []table.Row {
	return func() []table.Row {
		rows := make([]table.Row, 0, len(accounts))
		for _, acc := range accounts {
			rows = append(rows, table.Row{acc.ID, acc.UserName, acc.Units})
		}
		return rows
	}
}

var accountHeader = table.Row{"ID", "User name", "Units"}

func (a *app) newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage user accounts",
	}

	var (
		accountPassword string
		units           uint64
		hint            string
	)
	create := &cobra.Command{
		Use:   "create <user-name>",
		Short: "Create a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := a.connect()
			if err != nil {
				return err
			}
			opts := &chaindb.CreateAccountOptions{PasswordHint: hint}
			if cmd.Flags().Changed("units") {
				opts.Units = &units
			}
			acc, err := db.CreateUserAccount(cmd.Context(), args[0], accountPassword, opts)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), s.Output, acc, accountHeader, accountRows(*acc))
		},
	}
	create.Flags().StringVar(&accountPassword, "account-password", "", "password of the new account")
	create.Flags().Uint64Var(&units, "units", 0, "opening balance")
	create.Flags().StringVar(&hint, "hint", "", "password hint")
	_ = create.MarkFlagRequired("account-password")

	var getPassword string
	get := &cobra.Command{
		Use:   "get <user-name>",
		Short: "Fetch an account by its credentials",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := a.connect()
			if err != nil {
				return err
			}
			acc, err := db.GetUserAccount(cmd.Context(), args[0], getPassword)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), s.Output, acc, accountHeader, accountRows(*acc))
		},
	}
	get.Flags().StringVar(&getPassword, "account-password", "", "password of the account")
	_ = get.MarkFlagRequired("account-password")

	getByID := &cobra.Command{
		Use:   "get-by-id <id>",
		Short: "Fetch an account by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := a.connect()
			if err != nil {
				return err
			}
			acc, err := db.GetUserAccountByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), s.Output, acc, accountHeader, accountRows(*acc))
		},
	}

	checkName := &cobra.Command{
		Use:   "check-name <user-name>",
		Short: "Check whether a user name is available",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := a.connect()
			if err != nil {
				return err
			}
			taken, err := db.NameTaken(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			result := struct {
				UserName  string `json:"user_name"`
				Available bool   `json:"available"`
			}{args[0], !taken}
			return render(cmd.OutOrStdout(), s.Output, result, table.Row{"User name", "Available"}, func() []table.Row {
				return []table.Row{{result.UserName, strconv.FormatBool(result.Available)}}
			})
		},
	}

	cmd.AddCommand(create, get, getByID, checkName)
	return cmd
}

func transferRows(transfers ...chaindb.Transfer) func() []table.Row {
	return func() []table.Row {
		rows := make([]table.Row, 0, len(transfers))
		for _, tr := range transfers {
			rows = append(rows, table.Row{tr.From, tr.To, tr.Units})
		}
		return rows
	}
}

var transferHeader = table.Row{"From", "To", "Units"}

func (a *app) newTransferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Move units between accounts",
	}

	send := &cobra.Command{
		Use:   "send <from-id> <to-id> <units>",
		Short: "Transfer units from one account to another",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			units, err := strconv.ParseUint(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid units %q: %w", args[2], err)
			}
			db, _, err := a.connect()
			if err != nil {
				return err
			}
			if err := db.TransferUnits(cmd.Context(), args[0], args[1], units); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "transferred %d units", units)
			return nil
		},
	}

	last := &cobra.Command{
		Use:   "last <account-id>",
		Short: "Show the latest transfer involving an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := a.connect()
			if err != nil {
				return err
			}
			tr, err := db.GetTransferByUserID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), s.Output, tr, transferHeader, transferRows(*tr))
		},
	}

	list := &cobra.Command{
		Use:   "list <account-id>",
		Short: "List all transfers involving an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := a.connect()
			if err != nil {
				return err
			}
			transfers, err := db.GetAllTransfersByUserID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), s.Output, transfers, transferHeader, transferRows(transfers...))
		},
	}

	cmd.AddCommand(send, last, list)
	return cmd
}
