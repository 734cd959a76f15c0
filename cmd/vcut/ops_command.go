package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"vcut/internal/effects"
)

func newOpsCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "ops",
		Short:       "List the operations accepted by 'vcut effect'",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		Args:        usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := cases.Title(language.Und)
			ops := effects.All()
			rows := make([][]string, 0, len(ops))
			for _, op := range ops {
				params := "-"
				if op.Custom() {
					params = strings.Join(op.Params(), ", ")
				}
				rows = append(rows, []string{title.String(op.Category), op.Name, op.Description, op.Template, params})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				"",
				[]string{"Category", "Operation", "Description", "Filter", "Parameters"},
				rows,
				nil,
			))
			return nil
		},
	}
}
