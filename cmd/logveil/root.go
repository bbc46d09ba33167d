package logveil

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
)

var (
	flagJSON            bool
	flagNoColor         bool
	flagThreads         int
	flagNoCache         bool
	flagDefaultExcludes bool
	flagNoUpdateCheck   bool
	flagSelfUpdate      bool

	version = "2.0.0"
)

// rootCmd is the base Cobra command for the LogVeil CLI.
var rootCmd = &cobra.Command{
	Use:           "logveil",
	Short:         "Redact sensitive data from log files",
	Long:          "LogVeil rewrites log lines, replacing IPs, emails, tokens and other sensitive values with stable redaction markers before the logs leave your machine.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the LogVeil CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

// logger builds the CLI-wide hclog logger. Level comes from LOGVEIL_LOG_LEVEL
// when set; warnings only otherwise.
func logger() hclog.Logger {
	level := hclog.Warn
	if v := os.Getenv("LOGVEIL_LOG_LEVEL"); v != "" {
		level = hclog.LevelFromString(v)
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "logveil",
		Level:  level,
		Output: os.Stderr,
		Color:  hclog.AutoColor,
	})
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().IntVar(&flagThreads, "threads", 0, "worker count (0 = GOMAXPROCS)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "disable the incremental content cache")
	rootCmd.PersistentFlags().BoolVar(&flagDefaultExcludes, "default-excludes", true, "apply built-in exclude list (node_modules, dist, .git, etc.)")
	rootCmd.PersistentFlags().BoolVar(&flagNoUpdateCheck, "no-update-check", false, "disable update check")
	rootCmd.PersistentFlags().BoolVar(&flagSelfUpdate, "self-update", false, "update logveil to the latest release")
}
