package logveil

import (
	"fmt"
	"os"

	"github.com/logveil/logveil/internal/update"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update logveil to the latest release",
		RunE: func(_ *cobra.Command, _ []string) error {
			latest, newer, err := update.Check(version, false)
			if err != nil {
				return fmt.Errorf("update check: %w", err)
			}
			if !newer {
				fmt.Fprintln(os.Stdout, "logveil is up to date (v"+version+")")
				return nil
			}
			fmt.Fprintf(os.Stdout, "updating v%s -> v%s\n", version, latest)
			if err := selfUpdate(); err != nil {
				return fmt.Errorf("self update: %w", err)
			}
			fmt.Fprintln(os.Stdout, "done")
			return nil
		},
	}
	rootCmd.AddCommand(cmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the logveil version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println("logveil v" + version)
		},
	}
	rootCmd.AddCommand(versionCmd)
}
