// Package fuzzy provides typo-tolerant matching of option names.
// Used by getopt to attach a "did you mean" suggestion to unrecognized options.
package fuzzy

import (
	"sort"
	"strings"
)

// Matcher ranks candidate names by edit distance to an input.
type Matcher struct {
	maxDistance int
	minLength   int
}

// NewMatcher creates a matcher accepting candidates within maxDistance edits.
func NewMatcher(maxDistance int) *Matcher {
	return &Matcher{
		maxDistance: maxDistance,
		minLength:   2, // single characters are too ambiguous to suggest
	}
}

// Match is a ranked candidate.
type Match struct {
	Value    string
	Distance int
	Score    float64 // 0.0 to 1.0, higher is better
}

// Best returns the best candidate for input, or "" when nothing is close enough.
func (m *Matcher) Best(input string, candidates []string) string {
	matches := m.Matches(input, candidates)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Value
}

// Matches returns every candidate within the distance limit, best first.
// Candidates equal to input are skipped.
func (m *Matcher) Matches(input string, candidates []string) []Match {
	if len(input) < m.minLength {
		return nil
	}

	lower := strings.ToLower(input)
	var matches []Match
	for _, candidate := range candidates {
		if candidate == input {
			continue
		}
		cl := strings.ToLower(candidate)
		d := m.distance(lower, cl)
		if d > m.maxDistance {
			continue
		}
		matches = append(matches, Match{
			Value:    candidate,
			Distance: d,
			Score:    m.score(lower, cl, d),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score == matches[j].Score {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].Score > matches[j].Score
	})
	return matches
}

// score blends edit distance with prefix and length similarity.
func (m *Matcher) score(input, candidate string, d int) float64 {
	longest := max(len(input), len(candidate))
	if longest == 0 {
		return 1.0
	}

	s := 1.0 - float64(d)/float64(longest)

	if p := commonPrefix(input, candidate); p > 0 {
		s += float64(p) / float64(min(len(input), len(candidate))) * 0.3
	}

	diff := len(input) - len(candidate)
	if diff < 0 {
		diff = -diff
	}
	s += (1.0 - float64(diff)/float64(longest)) * 0.2

	return min(s, 1.0)
}

// distance is the Levenshtein distance between a and b, cut off at
// maxDistance+1 as soon as the result cannot fall back under the limit.
func (m *Matcher) distance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	diff := len(a) - len(b)
	if diff < 0 {
		diff = -diff
	}
	if diff > m.maxDistance {
		return m.maxDistance + 1
	}

	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	cur := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}

	for i := 1; i <= len(b); i++ {
		cur[0] = i
		rowMin := i
		for j := 1; j <= len(a); j++ {
			cost := 1
			if a[j-1] == b[i-1] {
				cost = 0
			}
			cur[j] = min(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
			rowMin = min(rowMin, cur[j])
		}
		if rowMin > m.maxDistance {
			return m.maxDistance + 1
		}
		prev, cur = cur, prev
	}

	return prev[len(a)]
}

func commonPrefix(a, b string) int {
	n := min(len(a), len(b))
	for i := range n {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

// Suggest returns the closest candidate to input within maxDistance edits.
func Suggest(input string, candidates []string, maxDistance int) string {
	return NewMatcher(maxDistance).Best(input, candidates)
}

// SuggestN returns up to n candidates, best first.
func SuggestN(input string, candidates []string, maxDistance, n int) []string {
	matches := NewMatcher(maxDistance).Matches(input, candidates)
	out := make([]string, 0, min(len(matches), n))
	for _, match := range matches {
		if len(out) == n {
			break
		}
		out = append(out, match.Value)
	}
	return out
}
