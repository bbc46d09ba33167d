package logveil

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/logveil/logveil/internal/profiles"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func init() {
	var dir string
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List available redaction profiles",
		RunE: func(_ *cobra.Command, _ []string) error {
			manager := profiles.NewManager()
			if dir != "" {
				if err := manager.LoadDir(dir); err != nil {
					return err
				}
			}
			if flagJSON {
				type entry struct {
					Name        string   `json:"name"`
					Description string   `json:"description"`
					Format      string   `json:"format"`
					Filenames   []string `json:"filename_patterns,omitempty"`
				}
				var entries []entry
				for _, name := range manager.Names() {
					p, _ := manager.Get(name)
					entries = append(entries, entry{p.Name, p.Description, p.Format, p.FilenamePatterns})
				}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			table := tablewriter.NewWriter(os.Stdout)
			table.Header("NAME", "FORMAT", "MATCHES", "DESCRIPTION")
			for _, name := range manager.Names() {
				p, _ := manager.Get(name)
				_ = table.Append([]string{p.Name, p.Format, strings.Join(p.FilenamePatterns, " "), p.Description})
			}
			return table.Render()
		},
	}
	cmd.Flags().StringVar(&dir, "profiles-dir", "", "load additional profiles from this directory")
	rootCmd.AddCommand(cmd)
}
