// Package config loads logveil's YAML file configuration and LOGVEIL_*
// environment overrides. Merge precedence is CLI flag > environment > local
// file > global file.
package config
