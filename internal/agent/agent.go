package agent

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/logveil/logveil/internal/cache"
	"github.com/logveil/logveil/internal/patterns"
	"github.com/logveil/logveil/internal/profiles"
	"github.com/logveil/logveil/internal/sanitize"
	"github.com/logveil/logveil/internal/trace"
	"github.com/logveil/logveil/internal/types"
)

// Config controls a file-processing run.
type Config struct {
	Root            string // file or directory
	OutDir          string // empty = write next to input
	Suffix          string // appended to output names when not in-place
	InPlace         bool   // atomically overwrite inputs
	IncludeGlobs    string // comma-separated doublestar globs
	ExcludeGlobs    string
	MaxBytes        int64
	Threads         int // 0 = GOMAXPROCS
	NoCache         bool
	DefaultExcludes bool
	Entropy         bool
	// EntropyThreshold overrides the default Shannon threshold when > 0.
	EntropyThreshold float64

	// Profile pins one profile for every file; nil selects per file via
	// Manager (and falls back to the builtin registry).
	Profile *profiles.Profile
	Manager *profiles.Manager

	TracePath string
	Logger    hclog.Logger
	Progress  func()
}

// Result summarizes one run.
type Result struct {
	FilesProcessed int
	FilesSkipped   int
	LinesProcessed int
	Stats          *sanitize.Stats
	Faults         []sanitize.PatternFault
	Duration       time.Duration
}

const defaultSuffix = ".sanitized"

// Run sanitizes the file or directory at cfg.Root. Directory runs walk the
// tree, skip unchanged inputs via the content cache, and fan files out to a
// worker pool. Per-file errors are logged and skipped; only setup errors
// fail the run.
func Run(ctx context.Context, cfg Config) (Result, error) {
	var res Result
	started := time.Now()

	if cfg.Logger == nil {
		cfg.Logger = hclog.NewNullLogger()
	}
	if cfg.Suffix == "" {
		cfg.Suffix = defaultSuffix
	}
	if cfg.Threads <= 0 {
		cfg.Threads = runtime.GOMAXPROCS(0)
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 64 << 20
	}

	info, err := os.Stat(cfg.Root)
	if err != nil {
		return res, fmt.Errorf("stat %s: %w", cfg.Root, err)
	}

	stats := sanitize.NewStats()
	res.Stats = stats

	var tl *trace.Log
	if cfg.TracePath != "" {
		tl = trace.New(cfg.TracePath)
	}

	if !info.IsDir() {
		fr, err := processFile(cfg, filepath.Base(cfg.Root), cfg.Root, stats, tl)
		if err != nil {
			return res, err
		}
		res.FilesProcessed = 1
		res.LinesProcessed = fr.lines
		res.Faults = fr.faults
		res.Duration = time.Since(started)
		return res, nil
	}

	var db cache.DB
	if !cfg.NoCache {
		db, _ = cache.Load(cfg.Root)
	} else {
		db.Entries = map[string]string{}
	}

	type job struct {
		rel  string
		abs  string
		hash string
	}
	jobs := make(chan job)
	var mu sync.Mutex // guards res counters, faults, and cache updates
	updated := map[string]string{}

	var wg sync.WaitGroup
	for i := 0; i < cfg.Threads; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				fr, err := processFile(cfg, j.rel, j.abs, stats, tl)
				mu.Lock()
				if err != nil {
					cfg.Logger.Warn("skipping file", "path", j.rel, "error", err)
					res.FilesSkipped++
				} else {
					res.FilesProcessed++
					res.LinesProcessed += fr.lines
					res.Faults = append(res.Faults, fr.faults...)
					if j.hash != "" {
						updated[j.rel] = j.hash
					}
				}
				mu.Unlock()
				if cfg.Progress != nil {
					cfg.Progress()
				}
			}
		}()
	}

	walkErr := walk(ctx, cfg, func(rel, abs string, data []byte) {
		h := cache.Hash(data)
		if !cfg.NoCache && db.Entries[rel] == h {
			mu.Lock()
			res.FilesSkipped++
			mu.Unlock()
			return
		}
		jobs <- job{rel: rel, abs: abs, hash: h}
	})
	close(jobs)
	wg.Wait()
	if walkErr != nil {
		return res, walkErr
	}

	if !cfg.NoCache && len(updated) > 0 {
		for k, v := range updated {
			db.Entries[k] = v
		}
		_ = cache.Save(cfg.Root, db)
	}

	res.Duration = time.Since(started)
	return res, nil
}

type fileResult struct {
	lines  int
	faults []sanitize.PatternFault
}

// engineFor picks the engine for one input path: pinned profile, then the
// manager's filename match, then the builtin registry.
func engineFor(cfg Config, rel string, stats *sanitize.Stats) *sanitize.Engine {
	opts := []sanitize.Option{sanitize.WithStats(stats)}
	if cfg.Entropy {
		ec := patterns.DefaultEntropyConfig()
		if cfg.EntropyThreshold > 0 {
			ec.Threshold = cfg.EntropyThreshold
		}
		opts = append(opts, sanitize.WithEntropy(ec))
	}
	p := cfg.Profile
	if p == nil && cfg.Manager != nil {
		p = cfg.Manager.ForPath(rel)
	}
	if p != nil {
		return p.Engine(cfg.Logger.Named("patterns"), opts...)
	}
	return sanitize.New(nil, opts...)
}

func processFile(cfg Config, rel, abs string, stats *sanitize.Stats, tl *trace.Log) (fileResult, error) {
	var fr fileResult
	eng := engineFor(cfg, rel, stats)

	outPath, err := outputPath(cfg, rel, abs)
	if err != nil {
		return fr, err
	}

	lines, recs, faults, err := SanitizeFile(eng, abs, outPath, rel, tl != nil)
	if err != nil {
		return fr, err
	}
	fr.lines = lines
	fr.faults = faults
	if tl != nil {
		if err := tl.Append(recs); err != nil {
			cfg.Logger.Warn("trace append failed", "error", err)
		}
	}
	return fr, nil
}

func outputPath(cfg Config, rel, abs string) (string, error) {
	if cfg.InPlace {
		return abs, nil
	}
	if cfg.OutDir != "" {
		out := filepath.Join(cfg.OutDir, rel)
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return "", err
		}
		return out, nil
	}
	return abs + cfg.Suffix, nil
}

// SanitizeFile streams inPath line by line through eng into outPath. The
// output is written to a temp file in the destination directory and renamed
// into place, so a crash mid-run never leaves a half-written (and therefore
// half-redacted) file behind. When traced is true one Redaction per replaced
// span is returned.
func SanitizeFile(eng *sanitize.Engine, inPath, outPath, source string, traced bool) (int, []types.Redaction, []sanitize.PatternFault, error) {
	in, err := os.Open(inPath)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("open %s: %w", inPath, err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(outPath), filepath.Base(outPath)+".tmp*")
	if err != nil {
		return 0, nil, nil, fmt.Errorf("create temp: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	w := bufio.NewWriter(tmp)
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 64*1024), 4<<20)

	var recs []types.Redaction
	var faults []sanitize.PatternFault
	lines := 0
	for sc.Scan() {
		lines++
		var out string
		if traced {
			var lineRecs []types.Redaction
			var lineFaults []sanitize.PatternFault
			out, lineRecs, lineFaults = eng.SanitizeWithTrace(sc.Text(), source, lines)
			recs = append(recs, lineRecs...)
			faults = append(faults, lineFaults...)
		} else {
			var lineFaults []sanitize.PatternFault
			out, lineFaults = eng.Sanitize(sc.Text())
			faults = append(faults, lineFaults...)
		}
		if _, err := w.WriteString(out); err != nil {
			return lines, recs, faults, err
		}
		if err := w.WriteByte('\n'); err != nil {
			return lines, recs, faults, err
		}
	}
	if err := sc.Err(); err != nil {
		return lines, recs, faults, fmt.Errorf("read %s: %w", inPath, err)
	}
	if err := w.Flush(); err != nil {
		return lines, recs, faults, err
	}
	if err := tmp.Close(); err != nil {
		return lines, recs, faults, err
	}
	if err := os.Rename(tmp.Name(), outPath); err != nil {
		return lines, recs, faults, fmt.Errorf("replace %s: %w", outPath, err)
	}
	return lines, recs, faults, nil
}
