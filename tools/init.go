// Package tools groups small stateless helpers behind exported method
// sets, called as tools.<group>.Method().
// Which methods exist per group can be seen in the matching .go file.
package tools

var (
	Parse   parseFunctions
	Convert convertFunctions
)

type (
	// Text parsing: command markers and reviewer mentions.
	parseFunctions byte

	// Reviewer list conversion: split, merge, dedupe.
	convertFunctions byte
)
