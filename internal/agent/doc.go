// Package agent is the file pipeline: it walks log trees, streams each file
// through the sanitize engine line by line, and writes results with atomic
// replacement. An xxhash content cache skips inputs unchanged since the last
// run.
package agent
