// Package reading suggests hiragana readings for Japanese words offline
// using a morphological analyzer.
package reading
