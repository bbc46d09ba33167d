// Package sanitize implements the line redaction engine: pattern
// substitution in a fixed order, per-pattern fault isolation, optional
// entropy-based secret detection, structured document redaction, and match
// statistics.
package sanitize
