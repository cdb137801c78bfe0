// Package quiz implements the flashcard session: the question queue with its
// incorrect-first refill and spaced requeue, two-step answer grading and the
// tag filter.
package quiz
