package serve

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	New(nil, nil).Register(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func postSanitize(t *testing.T, srv *httptest.Server, body any) (int, sanitizeResponse) {
	t.Helper()
	b, _ := json.Marshal(body)
	resp, err := http.Post(srv.URL+"/v1/sanitize", "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var out sanitizeResponse
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestSanitizeEndpoint(t *testing.T) {
	srv := newTestServer(t)
	status, out := postSanitize(t, srv, sanitizeRequest{
		Text: "login from 10.1.2.3\nuser ops@example.com",
	})
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if out.SanitizedText != "login from [REDACTED_IP]\nuser [REDACTED_EMAIL]" {
		t.Fatalf("sanitized_text = %q", out.SanitizedText)
	}
	if out.RedactionCount != 2 {
		t.Fatalf("redaction_count = %d", out.RedactionCount)
	}
	if out.ProcessingTimeMS < 0 {
		t.Fatalf("processing_time_ms = %f", out.ProcessingTimeMS)
	}
}

func TestSanitizeEndpointTrace(t *testing.T) {
	srv := newTestServer(t)
	status, out := postSanitize(t, srv, sanitizeRequest{Text: "from 10.0.0.9", Trace: true})
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if len(out.Trace) != 1 || out.Trace[0].Line != 1 {
		t.Fatalf("trace = %+v", out.Trace)
	}
	if strings.Contains(out.Trace[0].Original, "10.0.0.9") {
		t.Fatalf("trace holds raw value: %+v", out.Trace[0])
	}
}

func TestSanitizeEndpointUnknownProfile(t *testing.T) {
	srv := newTestServer(t)
	status, _ := postSanitize(t, srv, sanitizeRequest{Text: "x", Profile: "nope"})
	if status != http.StatusNotFound {
		t.Fatalf("status = %d", status)
	}
}

func TestSanitizeEndpointInvalidJSON(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Post(srv.URL+"/v1/sanitize", "application/json", strings.NewReader("{nope"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestSanitizeEndpointEntropy(t *testing.T) {
	srv := newTestServer(t)
	status, out := postSanitize(t, srv, sanitizeRequest{
		Text:             "token=xK9mQ2vL8pR4nT7jW3bZ6cF1dG5hY0aS",
		Entropy:          true,
		EntropyThreshold: 3.5,
	})
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if !strings.Contains(out.SanitizedText, "[REDACTED_SECRET]") {
		t.Fatalf("entropy token survived: %q", out.SanitizedText)
	}
}

func TestPatternsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/v1/patterns")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body struct {
		Patterns []struct {
			Label  string `json:"label"`
			Marker string `json:"marker"`
		} `json:"patterns"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if len(body.Patterns) == 0 {
		t.Fatal("no patterns listed")
	}
	if body.Patterns[0].Label != "uuid" || body.Patterns[0].Marker != "[REDACTED_UUID]" {
		t.Fatalf("first pattern = %+v", body.Patterns[0])
	}
}

func TestHealthAndStats(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health status = %d", resp.StatusCode)
	}

	_, _ = postSanitize(t, srv, sanitizeRequest{Text: "from 10.0.0.1"})

	resp, err = http.Get(srv.URL + "/v1/stats")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var stats struct {
		Requests   int `json:"requests_processed"`
		Redactions int `json:"total_redactions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats.Requests != 1 || stats.Redactions != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}
