package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newDescribeCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "describe <object>",
		Short: "Show an object's field metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			result, apiErr := rt.svc.Describe(args[0])
			if apiErr != nil {
				return fmt.Errorf("%s: %s", apiErr.ErrorCode, apiErr.Message)
			}

			if asJSON {
				return renderJSON(cmd.OutOrStdout(), result)
			}

			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "%s (%s)\n", result.Name, result.Label)

			t := table.NewWriter()
			t.SetOutputMirror(w)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Field", "Type", "Nullable", "Createable", "Updateable"})
			for _, f := range result.Fields {
				t.AppendRow(table.Row{f.Name, f.Type, f.Nullable, f.Createable, f.Updateable})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the raw describe document")
	return cmd
}

func newObjectsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "objects",
		Short: "List queryable objects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.close()

			list := rt.svc.Objects()
			if asJSON {
				return renderJSON(cmd.OutOrStdout(), list)
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Object", "Label", "Fields"})
			for _, o := range list.SObjects {
				t.AppendRow(table.Row{o.Name, o.Label, o.FieldsCount})
			}
			t.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the raw object listing")
	return cmd
}
