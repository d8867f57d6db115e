package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/stubforce/stubforce/internal/envelope"
)

func newQueryCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "query <soql>",
		Short: "Run a query against the configured store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			result, apiErr := rt.svc.Query(cmd.Context(), args[0])
			if apiErr != nil {
				return fmt.Errorf("%s: %s", apiErr.ErrorCode, apiErr.Message)
			}

			if asJSON {
				return renderJSON(cmd.OutOrStdout(), result)
			}
			return renderTable(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the raw wire-format envelope")
	return cmd
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderTable(w io.Writer, result envelope.QueryResult) error {
	if len(result.Records) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	fields := result.Records[0].Fields
	headerRow := make(table.Row, len(fields))
	for i, f := range fields {
		headerRow[i] = f.Name
	}
	t.AppendHeader(headerRow)

	for _, rec := range result.Records {
		row := make(table.Row, len(rec.Fields))
		for i, f := range rec.Fields {
			row[i] = formatValue(f.Value)
		}
		t.AppendRow(row)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", result.TotalSize)
	return nil
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	return fmt.Sprintf("%v", v)
}
