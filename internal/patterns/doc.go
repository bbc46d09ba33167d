// Package patterns holds the fixed set of sensitive-data matchers and the
// Shannon-entropy secret detector. The registry is built once and immutable;
// application order encodes specificity precedence.
package patterns
