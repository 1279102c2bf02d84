package command

import "strings"

// MaxArgs bounds the number of tokens taken from a command line.
const MaxArgs = 6

// Args is a tokenized command line.
type Args struct {
	Tokens []string
	// Truncated reports that tokens beyond MaxArgs were dropped.
	Truncated bool
}

// Tokenize splits a command line on whitespace into at most MaxArgs tokens.
func Tokenize(raw string) Args {
	fields := strings.Fields(raw)
	if len(fields) > MaxArgs {
		return Args{Tokens: fields[:MaxArgs], Truncated: true}
	}
	return Args{Tokens: fields}
}

// Get returns the i-th token and whether it was present.
func (a Args) Get(i int) (string, bool) {
	if i < 0 || i >= len(a.Tokens) {
		return "", false
	}
	return a.Tokens[i], true
}
