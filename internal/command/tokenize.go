package command

import "github.com/google/shlex"

// Tokenize splits a command line into words, honoring double/single quotes
// and backslash escapes. Grounded on the prior use of
// shlex.Split to tokenize command lines before exec'ing them.
func Tokenize(line string) ([]string, error) {
	return shlex.Split(line)
}
