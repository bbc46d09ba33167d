package patterns

import (
	"math"
	"regexp"
	"strings"

	"github.com/logveil/logveil/internal/types"
)

// EntropyConfig tunes the Shannon-entropy secret detector.
type EntropyConfig struct {
	Threshold float64 `yaml:"threshold"`
	MinLength int     `yaml:"min_length"`
}

// DefaultEntropyConfig matches the tuning the builtin profiles ship with.
func DefaultEntropyConfig() EntropyConfig {
	return EntropyConfig{Threshold: 4.2, MinLength: 12}
}

// Entropy returns the Shannon entropy of s in bits per character.
func Entropy(s string) float64 {
	if s == "" {
		return 0
	}
	count := map[rune]int{}
	n := 0
	for _, r := range s {
		count[r]++
		n++
	}
	h := 0.0
	for _, c := range count {
		p := float64(c) / float64(n)
		h += -p * math.Log2(p)
	}
	return h
}

var (
	reToken     = regexp.MustCompile(`\S+`)
	reTrimEdges = regexp.MustCompile(`^["'\[\(]+|["'\]\)]+$`)
	reTrimPunct = regexp.MustCompile(`[,;:]+$`)
)

// EntropyHit is one token flagged as a likely secret.
type EntropyHit struct {
	Token string
	Score float64
}

// EntropyDetector flags high-entropy tokens that look like secrets but match
// no builtin shape. It is stateless and safe for concurrent use.
type EntropyDetector struct {
	cfg EntropyConfig
}

// NewEntropyDetector builds a detector, applying defaults for zero fields.
func NewEntropyDetector(cfg EntropyConfig) *EntropyDetector {
	def := DefaultEntropyConfig()
	if cfg.Threshold <= 0 {
		cfg.Threshold = def.Threshold
	}
	if cfg.MinLength <= 0 {
		cfg.MinLength = def.MinLength
	}
	return &EntropyDetector{cfg: cfg}
}

// Detect returns the whitespace-delimited tokens of line whose entropy
// crosses the threshold. Tokens already holding a redaction marker are
// skipped so repeated passes stay stable. The returned Token is the raw
// token as it appears in line, suitable for literal replacement.
func (d *EntropyDetector) Detect(line string) []EntropyHit {
	var hits []EntropyHit
	for _, tok := range reToken.FindAllString(line, -1) {
		if strings.Contains(tok, types.MarkerPrefix) {
			continue
		}
		clean := reTrimEdges.ReplaceAllString(tok, "")
		clean = reTrimPunct.ReplaceAllString(clean, "")
		if len(clean) < d.cfg.MinLength {
			continue
		}
		if score := Entropy(clean); score >= d.cfg.Threshold {
			hits = append(hits, EntropyHit{Token: tok, Score: score})
		}
	}
	return hits
}
