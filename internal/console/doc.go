// Package console runs the quiz in a terminal. Answers are read line by
// line, and lines starting with a colon are commands:
//
//	:q          quit
//	:tag NAME   quiz only words tagged NAME (no name removes the filter)
//	:tags       list the tags in use
//	:say        read the sentence aloud
package console
