// Package core provides a small, stable facade over LogVeil's internal
// pipeline for external integrations. It deliberately re-exports a narrow API
// surface so embedding tools can depend on a stable import path without
// reaching into internal implementation packages.
//
// Example:
//
//	cfg := core.Config{Root: "/var/log/app", Threads: 0}
//	res, err := core.Sanitize(context.Background(), cfg)
//	if err != nil { /* handle */ }
//	fmt.Println(res.FilesProcessed)
package core
