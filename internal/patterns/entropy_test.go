package patterns

import (
	"testing"
)

func TestEntropy(t *testing.T) {
	if got := Entropy(""); got != 0 {
		t.Fatalf("empty string entropy = %f, want 0", got)
	}
	if got := Entropy("aaaaaaaa"); got != 0 {
		t.Fatalf("uniform string entropy = %f, want 0", got)
	}
	// "ab" repeated: exactly 1 bit per char
	if got := Entropy("abababab"); got != 1.0 {
		t.Fatalf("two-symbol entropy = %f, want 1.0", got)
	}
	low := Entropy("hello world hello")
	high := Entropy("x9K2mQ8vL4pR7nT3")
	if high <= low {
		t.Fatalf("expected random-looking token to score higher: %f <= %f", high, low)
	}
}

func TestEntropyDetectorFlagsSecrets(t *testing.T) {
	d := NewEntropyDetector(EntropyConfig{Threshold: 3.5, MinLength: 12})
	line := `export API_KEY="xK9mQ2vL8pR4nT7jW3bZ6cF1dG5hY0aS" level=info`
	hits := d.Detect(line)
	if len(hits) == 0 {
		t.Fatal("expected at least one entropy hit")
	}
	found := false
	for _, h := range hits {
		if h.Token == `API_KEY="xK9mQ2vL8pR4nT7jW3bZ6cF1dG5hY0aS"` || h.Token == `"xK9mQ2vL8pR4nT7jW3bZ6cF1dG5hY0aS"` {
			found = true
		}
	}
	if !found {
		t.Fatalf("key token not flagged; hits: %+v", hits)
	}
}

func TestEntropyDetectorSkipsShortAndPlainTokens(t *testing.T) {
	d := NewEntropyDetector(EntropyConfig{})
	if hits := d.Detect("short ab12"); hits != nil {
		t.Fatalf("short tokens flagged: %+v", hits)
	}
	if hits := d.Detect("connection established successfully again"); hits != nil {
		t.Fatalf("plain words flagged: %+v", hits)
	}
}

func TestEntropyDetectorSkipsMarkers(t *testing.T) {
	d := NewEntropyDetector(EntropyConfig{Threshold: 1.0, MinLength: 4})
	if hits := d.Detect("[REDACTED_SHA256] done"); len(hits) != 0 {
		t.Fatalf("marker flagged as secret: %+v", hits)
	}
}

func TestNewEntropyDetectorDefaults(t *testing.T) {
	d := NewEntropyDetector(EntropyConfig{})
	def := DefaultEntropyConfig()
	if d.cfg.Threshold != def.Threshold || d.cfg.MinLength != def.MinLength {
		t.Fatalf("defaults not applied: %+v", d.cfg)
	}
}
