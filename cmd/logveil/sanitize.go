package logveil

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/logveil/logveil/internal/agent"
	"github.com/logveil/logveil/internal/config"
	"github.com/logveil/logveil/internal/files"
	"github.com/logveil/logveil/internal/patterns"
	"github.com/logveil/logveil/internal/profiles"
	"github.com/logveil/logveil/internal/report"
	"github.com/logveil/logveil/internal/sanitize"
	"github.com/logveil/logveil/internal/update"
	"github.com/spf13/cobra"
)

var (
	flagOut              string
	flagInPlace          bool
	flagSuffix           string
	flagInclude          string
	flagExclude          string
	flagMaxBytes         int64
	flagProfile          string
	flagProfilesDir      string
	flagEntropy          bool
	flagEntropyThreshold float64
	flagTrace            string
	flagStats            bool
	flagCopy             bool
	flagAddIgnore        bool
)

func init() {
	cmd := &cobra.Command{
		Use:   "sanitize [path]",
		Short: "Sanitize a log file, a directory tree, or stdin",
		Long:  "Sanitize redacts sensitive values from the given file or directory. Pass \"-\" (or pipe input) to sanitize stdin to stdout.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSanitize,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVarP(&flagOut, "out", "o", "", "write outputs under this directory, mirroring the tree")
	cmd.Flags().BoolVar(&flagInPlace, "in-place", false, "overwrite inputs atomically")
	cmd.Flags().StringVar(&flagSuffix, "suffix", "", "output name suffix when not in-place (default .sanitized)")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs")
	cmd.Flags().Int64Var(&flagMaxBytes, "max-bytes", 64<<20, "skip files larger than this")
	cmd.Flags().StringVar(&flagProfile, "profile", "", "pin a redaction profile for every file")
	cmd.Flags().StringVar(&flagProfilesDir, "profiles-dir", "", "load additional profiles from this directory")
	cmd.Flags().BoolVar(&flagEntropy, "entropy", false, "also redact high-entropy tokens")
	cmd.Flags().Float64Var(&flagEntropyThreshold, "entropy-threshold", 0, "Shannon entropy threshold (0 = default)")
	cmd.Flags().StringVar(&flagTrace, "trace", "", "append redaction records to this JSONL file")
	cmd.Flags().BoolVar(&flagStats, "stats", false, "print a per-pattern summary after the run")
	cmd.Flags().BoolVar(&flagCopy, "copy", false, "copy stdin output to the clipboard instead of stdout")
	cmd.Flags().BoolVar(&flagAddIgnore, "add-ignore", false, "add logveil artifacts to .gitignore in the root")
}

func runSanitize(cmd *cobra.Command, args []string) error {
	path := "."
	if len(args) == 1 {
		path = args[0]
	}
	if path == "-" || (len(args) == 0 && !report.IsTerminal(os.Stdin)) {
		return sanitizeStdin()
	}

	abs, _ := filepath.Abs(path)
	root := abs
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		root = filepath.Dir(abs)
	}

	// Load configs: CLI > local > global > .env
	var gcfg, lcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	}
	if c, err := config.LoadLocal(root); err == nil {
		lcfg = c
	}
	lcfg = config.LoadDotEnv(root, lcfg)

	log := logger()
	manager := profiles.NewManager()
	if dir := pickString(flagProfilesDir, lcfg.ProfilesDir, gcfg.ProfilesDir); dir != "" {
		if err := manager.LoadDir(dir); err != nil {
			return fmt.Errorf("load profiles: %w", err)
		}
	}

	var pinned *profiles.Profile
	if name := pickString(flagProfile, lcfg.Profile, gcfg.Profile); name != "" {
		p, ok := manager.Get(name)
		if !ok {
			return fmt.Errorf("unknown profile %q (have: %s)", name, strings.Join(manager.Names(), ", "))
		}
		pinned = p
	}

	noColor := pickBool(flagNoColor, lcfg.NoColor, gcfg.NoColor) || !report.IsTerminal(os.Stdout)

	cfg := agent.Config{
		Root:             abs,
		OutDir:           pickString(flagOut, lcfg.OutDir, gcfg.OutDir),
		Suffix:           flagSuffix,
		InPlace:          flagInPlace,
		IncludeGlobs:     pickString(flagInclude, lcfg.Include, gcfg.Include),
		ExcludeGlobs:     pickString(flagExclude, lcfg.Exclude, gcfg.Exclude),
		MaxBytes:         pickInt64(flagMaxBytes, lcfg.MaxBytes, gcfg.MaxBytes),
		Threads:          pickInt(flagThreads, lcfg.Threads, gcfg.Threads),
		NoCache:          flagNoCache,
		DefaultExcludes:  flagDefaultExcludes,
		Entropy:          pickBool(flagEntropy, lcfg.Entropy, gcfg.Entropy),
		EntropyThreshold: pickFloat(flagEntropyThreshold, lcfg.EntropyThreshold, gcfg.EntropyThreshold),
		Profile:          pinned,
		Manager:          manager,
		TracePath:        pickString(flagTrace, lcfg.TraceFile, gcfg.TraceFile),
		Logger:           log,
	}

	if !flagJSON {
		if !flagNoUpdateCheck {
			if latest, newer, _ := update.Check(version, false); newer && latest != "" {
				fmt.Fprintf(os.Stderr, "(new version available: v%s)  run 'logveil update' to upgrade\n", latest)
			}
		}
		if flagSelfUpdate {
			if err := selfUpdate(); err == nil {
				fmt.Fprintln(os.Stderr, "updated to latest; re-run command")
				return nil
			}
		}
	}

	res, err := agent.Run(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("sanitize error: %w", err)
	}

	if flagAddIgnore {
		for _, a := range files.LocalArtifacts() {
			_ = files.AppendIgnore(root, a)
		}
	}

	if flagJSON {
		return writeJSONSummary(os.Stdout, res)
	}
	report.PrintFaults(os.Stderr, res.Faults)
	if flagStats || res.Stats.Total() > 0 {
		report.PrintSummary(os.Stdout, res.Stats, report.PrintOptions{
			NoColor:  noColor,
			Duration: res.Duration,
			Files:    res.FilesProcessed,
			Lines:    res.LinesProcessed,
		})
	}
	if res.FilesSkipped > 0 {
		fmt.Fprintf(os.Stderr, "%d file(s) skipped (unchanged, oversized, or unreadable)\n", res.FilesSkipped)
	}
	return nil
}

// sanitizeStdin redacts stdin to stdout (or the clipboard) line by line.
func sanitizeStdin() error {
	stats := sanitize.NewStats()
	opts := []sanitize.Option{sanitize.WithStats(stats)}
	if flagEntropy {
		ec := patterns.DefaultEntropyConfig()
		if flagEntropyThreshold > 0 {
			ec.Threshold = flagEntropyThreshold
		}
		opts = append(opts, sanitize.WithEntropy(ec))
	}
	var eng *sanitize.Engine
	if flagProfile != "" {
		manager := profiles.NewManager()
		if flagProfilesDir != "" {
			if err := manager.LoadDir(flagProfilesDir); err != nil {
				return fmt.Errorf("load profiles: %w", err)
			}
		}
		p, ok := manager.Get(flagProfile)
		if !ok {
			return fmt.Errorf("unknown profile %q", flagProfile)
		}
		eng = p.Engine(logger().Named("patterns"), opts...)
	} else {
		eng = sanitize.New(nil, opts...)
	}

	var out strings.Builder
	sc := bufio.NewScanner(os.Stdin)
	sc.Buffer(make([]byte, 64*1024), 4<<20)
	for sc.Scan() {
		clean, faults := eng.Sanitize(sc.Text())
		report.PrintFaults(os.Stderr, faults)
		out.WriteString(clean)
		out.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	if flagCopy {
		if err := clipboard.WriteAll(out.String()); err != nil {
			return fmt.Errorf("clipboard: %w", err)
		}
		fmt.Fprintln(os.Stderr, "sanitized output copied to clipboard")
	} else {
		_, _ = os.Stdout.WriteString(out.String())
	}
	if flagStats {
		report.PrintSummary(os.Stderr, stats, report.PrintOptions{NoColor: true})
	}
	return nil
}

func writeJSONSummary(w *os.File, res agent.Result) error {
	counts := map[string]int{}
	for label, n := range res.Stats.Counts() {
		counts[string(label)] = n
	}
	faults := make([]string, 0, len(res.Faults))
	for _, f := range res.Faults {
		faults = append(faults, f.Error())
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"files_processed": res.FilesProcessed,
		"files_skipped":   res.FilesSkipped,
		"lines_processed": res.LinesProcessed,
		"redactions":      counts,
		"total":           res.Stats.Total(),
		"duration_ms":     res.Duration.Milliseconds(),
		"faults":          faults,
	})
}
