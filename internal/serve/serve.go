package serve

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/logveil/logveil/internal/patterns"
	"github.com/logveil/logveil/internal/profiles"
	"github.com/logveil/logveil/internal/sanitize"
	"github.com/logveil/logveil/internal/types"
)

// Handler implements the sanitization HTTP API.
type Handler struct {
	manager *profiles.Manager
	logger  hclog.Logger
	started time.Time

	mu         sync.Mutex
	requests   int
	redactions int
}

// New creates a Handler backed by manager.
func New(manager *profiles.Manager, logger hclog.Logger) *Handler {
	if manager == nil {
		manager = profiles.NewManager()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Handler{manager: manager, logger: logger, started: time.Now()}
}

// Register mounts routes on the given mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/sanitize", h.sanitize)
	mux.HandleFunc("GET /v1/patterns", h.patterns)
	mux.HandleFunc("GET /v1/profiles", h.profiles)
	mux.HandleFunc("GET /v1/stats", h.stats)
	mux.HandleFunc("GET /health", h.health)
}

type sanitizeRequest struct {
	Text             string  `json:"text"`
	Profile          string  `json:"profile,omitempty"`
	Entropy          bool    `json:"entropy,omitempty"`
	EntropyThreshold float64 `json:"entropy_threshold,omitempty"`
	Trace            bool    `json:"trace,omitempty"`
}

type sanitizeResponse struct {
	SanitizedText    string            `json:"sanitized_text"`
	RedactionCount   int               `json:"redaction_count"`
	ProcessingTimeMS float64           `json:"processing_time_ms"`
	Trace            []types.Redaction `json:"trace,omitempty"`
}

func (h *Handler) sanitize(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 8<<20))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "failed to read body: "+err.Error())
		return
	}
	defer r.Body.Close()

	var req sanitizeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json: "+err.Error())
		return
	}

	stats := sanitize.NewStats()
	opts := []sanitize.Option{sanitize.WithStats(stats)}
	if req.Entropy {
		cfg := patterns.DefaultEntropyConfig()
		if req.EntropyThreshold > 0 {
			cfg.Threshold = req.EntropyThreshold
		}
		opts = append(opts, sanitize.WithEntropy(cfg))
	}

	var eng *sanitize.Engine
	if req.Profile != "" {
		p, ok := h.manager.Get(req.Profile)
		if !ok {
			writeErr(w, http.StatusNotFound, fmt.Sprintf("unknown profile %q", req.Profile))
			return
		}
		eng = p.Engine(h.logger.Named("patterns"), opts...)
	} else {
		eng = sanitize.New(nil, opts...)
	}

	started := time.Now()
	lines := strings.Split(req.Text, "\n")
	var recs []types.Redaction
	for i, line := range lines {
		if req.Trace {
			clean, lineRecs, _ := eng.SanitizeWithTrace(line, "api", i+1)
			lines[i] = clean
			recs = append(recs, lineRecs...)
		} else {
			clean, _ := eng.Sanitize(line)
			lines[i] = clean
		}
	}

	total := stats.Total()
	h.mu.Lock()
	h.requests++
	h.redactions += total
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, sanitizeResponse{
		SanitizedText:    strings.Join(lines, "\n"),
		RedactionCount:   total,
		ProcessingTimeMS: float64(time.Since(started).Microseconds()) / 1000.0,
		Trace:            recs,
	})
}

func (h *Handler) patterns(w http.ResponseWriter, _ *http.Request) {
	reg := patterns.Default()
	type entry struct {
		Label  string `json:"label"`
		Marker string `json:"marker"`
	}
	entries := make([]entry, 0, reg.Len())
	for _, label := range reg.Labels() {
		entries = append(entries, entry{Label: string(label), Marker: label.Marker()})
	}
	writeJSON(w, http.StatusOK, map[string]any{"patterns": entries})
}

func (h *Handler) profiles(w http.ResponseWriter, _ *http.Request) {
	type entry struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Format      string `json:"format"`
	}
	var entries []entry
	for _, name := range h.manager.Names() {
		p, _ := h.manager.Get(name)
		entries = append(entries, entry{Name: p.Name, Description: p.Description, Format: p.Format})
	}
	writeJSON(w, http.StatusOK, map[string]any{"profiles": entries})
}

func (h *Handler) stats(w http.ResponseWriter, _ *http.Request) {
	h.mu.Lock()
	requests, redactions := h.requests, h.redactions
	h.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"requests_processed": requests,
		"total_redactions":   redactions,
		"uptime_seconds":     time.Since(h.started).Seconds(),
		"available_profiles": h.manager.Names(),
	})
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
