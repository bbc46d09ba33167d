package report

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/logveil/logveil/internal/sanitize"
	"github.com/logveil/logveil/internal/types"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"
)

// PrintOptions carries run metadata for the summary footer.
type PrintOptions struct {
	NoColor  bool
	Duration time.Duration
	Files    int
	Lines    int
}

var (
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	countStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// PrintSummary renders per-label redaction counts as a table, highest counts
// first, followed by a totals footer.
func PrintSummary(w io.Writer, stats *sanitize.Stats, opts PrintOptions) {
	counts := stats.Counts()
	if len(counts) == 0 {
		fmt.Fprintln(w, "No sensitive data found ✅")
	} else {
		type row struct {
			label types.Label
			n     int
		}
		rows := make([]row, 0, len(counts))
		for label, n := range counts {
			rows = append(rows, row{label, n})
		}
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].n == rows[j].n {
				return rows[i].label < rows[j].label
			}
			return rows[i].n > rows[j].n
		})

		table := tablewriter.NewWriter(w)
		table.Header("PATTERN", "REDACTIONS")
		for _, r := range rows {
			label := string(r.label)
			count := strconv.Itoa(r.n)
			if !opts.NoColor {
				label = labelStyle.Render(label)
				count = countStyle.Render(count)
			}
			_ = table.Append([]string{label, count})
		}
		_ = table.Render()
	}

	footer := fmt.Sprintf("Redactions: %d", stats.Total())
	if opts.Files > 0 {
		footer += fmt.Sprintf("  Files: %d", opts.Files)
	}
	if opts.Lines > 0 {
		footer += fmt.Sprintf("  Lines: %d", opts.Lines)
	}
	if opts.Duration > 0 {
		footer += fmt.Sprintf("  Duration: %.2fs", opts.Duration.Seconds())
	}
	if !opts.NoColor {
		footer = footerStyle.Render(footer)
	}
	fmt.Fprintln(w, footer)
}

// PrintFaults reports contained pattern faults to w, one per line.
func PrintFaults(w io.Writer, faults []sanitize.PatternFault) {
	for _, f := range faults {
		fmt.Fprintln(w, "warning:", f.Error())
	}
}

// IsTerminal reports whether f is attached to a TTY; callers use it to
// disable color for piped output.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
