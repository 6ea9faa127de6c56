package cli

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/chaindb/chaindb_sdk_go/pkg/chaindb"
)

func emptyDocument() json.RawMessage { return json.RawMessage("null") }

func (a *app) newTableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Read and write tables",
	}

	get := &cobra.Command{
		Use:   "get <name>",
		Short: "Print the latest value of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := a.connect()
			if err != nil {
				return err
			}
			t, err := chaindb.GetTable(cmd.Context(), db, args[0], emptyDocument)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), t.Value)
		},
	}

	set := &cobra.Command{
		Use:   "set <name> [json|-]",
		Short: "Write a JSON document as the newest value of a table",
		Long:  "Write a JSON document as the newest value of a table. The document is read from stdin when omitted or given as \"-\".",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var doc []byte
			if len(args) == 2 && args[1] != "-" {
				doc = []byte(args[1])
			} else {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				doc = data
			}
			doc = []byte(strings.TrimSpace(string(doc)))
			if !json.Valid(doc) {
				return errors.New("value is not valid JSON")
			}

			db, _, err := a.connect()
			if err != nil {
				return err
			}
			t, err := chaindb.GetTable(cmd.Context(), db, args[0], emptyDocument)
			if err != nil {
				return err
			}
			t.Value = json.RawMessage(doc)
			if err := t.Persist(cmd.Context()); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "table %s updated", args[0])
			return nil
		},
	}

	var depth int
	history := &cobra.Command{
		Use:   "history <name>",
		Short: "List past values of a table, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := a.connect()
			if err != nil {
				return err
			}
			t, err := chaindb.GetTable(cmd.Context(), db, args[0], emptyDocument)
			if err != nil {
				return err
			}
			values, err := t.History(cmd.Context(), depth)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), s.Output, values, table.Row{"#", "Value"}, func() []table.Row {
				rows := make([]table.Row, 0, len(values))
				for i, v := range values {
					rows = append(rows, table.Row{i + 1, string(v)})
				}
				return rows
			})
		},
	}
	history.Flags().IntVar(&depth, "depth", 10, "maximum number of values to list")

	cmd.AddCommand(get, set, history)
	return cmd
}

