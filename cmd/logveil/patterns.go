package logveil

import (
	"encoding/json"
	"os"

	"github.com/logveil/logveil/internal/patterns"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "List the builtin redaction patterns in application order",
		RunE:  runPatterns,
	}
	rootCmd.AddCommand(cmd)
}

func runPatterns(_ *cobra.Command, _ []string) error {
	defs := patterns.BuiltinDefinitions()

	if flagJSON {
		type entry struct {
			Label  string `json:"label"`
			Marker string `json:"marker"`
			Expr   string `json:"expr"`
		}
		entries := make([]entry, 0, len(defs))
		for _, d := range defs {
			entries = append(entries, entry{Label: string(d.Label), Marker: d.Label.Marker(), Expr: d.Expr})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("LABEL", "MARKER", "EXPRESSION")
	for _, d := range defs {
		_ = table.Append([]string{string(d.Label), d.Label.Marker(), d.Expr})
	}
	return table.Render()
}
