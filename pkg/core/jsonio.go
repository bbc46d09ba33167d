package core

import (
	"encoding/json"
	"io"
)

// MarshalTrace pretty-prints redaction records as JSON for humans or
// pipelines.
func MarshalTrace(w io.Writer, recs []Redaction) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}

// UnmarshalTrace decodes redaction records JSON, useful for ingestion tests.
func UnmarshalTrace(r io.Reader) ([]Redaction, error) {
	var recs []Redaction
	if err := json.NewDecoder(r).Decode(&recs); err != nil {
		return nil, err
	}
	return recs, nil
}
