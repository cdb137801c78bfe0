// Package vocab defines the vocabulary entry shared by the store, the quiz
// session and the user interfaces.
package vocab
