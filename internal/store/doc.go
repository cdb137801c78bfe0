// Package store persists vocabulary words and their latest quiz outcome in
// a sqlite database.
package store
