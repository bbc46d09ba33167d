// Package serve exposes the sanitize engine over HTTP for services that
// cannot link the library directly.
package serve
