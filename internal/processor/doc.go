// Package processor wires the vocabulary store, the quiz session and the
// optional AI and speech collaborators together for each command-line mode:
// adding and importing words, listing tags and statistics, exporting to
// Anki, and running the quiz in the terminal or the window.
package processor
