package getopt

import "strings"

// Consume collects the values of one option occurrence from tokens, starting
// at pos. It stops when the arity is full, at "--", at a token s resolves to
// an option, or at the end of the stream, and returns the index of the first
// token it did not take.
//
// Surrounding double quotes are stripped. With a separator set, a token is
// split while fewer than Max-1 values are held, so "k=v=x" fills a
// two-value arity as "k" and "v=x".
func Consume(s Schema, tokens []string, pos int, a Arity) (values []string, next int) {
	next = pos
	if !a.TakesValues() {
		return nil, next
	}
	for next < len(tokens) && !a.Full(len(values)) {
		tok := tokens[next]
		if tok == "--" || isKnown(s, tok) {
			break
		}
		values = appendSplit(values, unquote(tok), a)
		next++
	}
	return values, next
}

func appendSplit(values []string, v string, a Arity) []string {
	if a.Separator == 0 {
		return append(values, v)
	}
	sep := string(a.Separator)
	for a.Max < 0 || len(values) < a.Max-1 {
		before, after, found := strings.Cut(v, sep)
		if !found {
			break
		}
		values = append(values, before)
		v = after
	}
	return append(values, v)
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' && !strings.Contains(s[1:len(s)-1], `"`) {
		return s[1 : len(s)-1]
	}
	return s
}
