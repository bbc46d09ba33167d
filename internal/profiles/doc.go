// Package profiles maps classes of log files (nginx, structured JSON, plain
// text) to redaction settings: extra patterns, key-path rules, and entropy
// tuning. Profiles extend the builtin registry; they cannot remove or mutate
// the fixed builtin pattern set.
package profiles
