package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/logveil/logveil/internal/sanitize"
	"github.com/logveil/logveil/internal/types"
)

func TestPrintSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, sanitize.NewStats(), PrintOptions{NoColor: true})
	out := buf.String()
	if !strings.Contains(out, "No sensitive data found") {
		t.Fatalf("missing empty message:\n%s", out)
	}
	if !strings.Contains(out, "Redactions: 0") {
		t.Fatalf("missing footer:\n%s", out)
	}
}

func TestPrintSummaryTable(t *testing.T) {
	st := sanitize.NewStats()
	st.Add(types.LabelIP, 7)
	st.Add(types.LabelEmail, 2)
	var buf bytes.Buffer
	PrintSummary(&buf, st, PrintOptions{
		NoColor:  true,
		Duration: 1500 * time.Millisecond,
		Files:    3,
		Lines:    120,
	})
	out := buf.String()
	for _, want := range []string{"ip", "7", "email", "2", "Redactions: 9", "Files: 3", "Lines: 120", "Duration: 1.50s"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
	// highest count first
	if strings.Index(out, "ip") > strings.Index(out, "email") {
		t.Fatalf("rows not sorted by count:\n%s", out)
	}
}

func TestPrintFaults(t *testing.T) {
	var buf bytes.Buffer
	PrintFaults(&buf, []sanitize.PatternFault{{Label: types.LabelJWT}})
	if !strings.Contains(buf.String(), "warning:") || !strings.Contains(buf.String(), "jwt") {
		t.Fatalf("fault output: %q", buf.String())
	}
}
