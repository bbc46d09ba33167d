package trace

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/logveil/logveil/internal/types"
)

// Record is one trace entry. Original is always masked before writing so the
// trace log never persists the values the engine just removed.
type Record struct {
	Timestamp time.Time   `json:"timestamp"`
	Source    string      `json:"source,omitempty"`
	Line      int         `json:"line,omitempty"`
	Label     types.Label `json:"label"`
	Original  string      `json:"original"`
	Replaced  string      `json:"replaced"`
}

// Log is an append-only JSONL redaction trace.
type Log struct {
	path string
}

// New returns a Log writing to path. The file is created on first append.
func New(path string) *Log {
	return &Log{path: path}
}

// Path returns the backing file path.
func (l *Log) Path() string { return l.path }

// Append writes one record per redaction. Permissions are owner-only since
// even masked values describe where secrets live.
func (l *Log) Append(recs []types.Redaction) error {
	if len(recs) == 0 {
		return nil
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open trace log: %w", err)
	}
	defer f.Close()

	now := time.Now()
	enc := json.NewEncoder(f)
	for _, r := range recs {
		rec := Record{
			Timestamp: now,
			Source:    r.Source,
			Line:      r.Line,
			Label:     r.Label,
			Original:  types.Mask(r.Original),
			Replaced:  r.Replaced,
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("write trace record: %w", err)
		}
	}
	return nil
}

// Load reads every decodable record in the log, oldest first. Malformed
// lines are skipped rather than failing the whole read.
func (l *Log) Load() ([]Record, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open trace log: %w", err)
	}
	defer f.Close()

	var records []Record
	dec := json.NewDecoder(f)
	for dec.More() {
		var rec Record
		if err := dec.Decode(&rec); err != nil {
			break
		}
		records = append(records, rec)
	}
	return records, nil
}
