package extract

import (
	"sort"
	"strings"
)

// maxScanDepth bounds how deep recovery descends into spans that failed
// to parse.
const maxScanDepth = 8

type span struct {
	start, end int // s[start:end] is the candidate
}

func (sp span) len() int { return sp.end - sp.start }

// closerFor maps an opener to its closer.
func closerFor(open byte) byte {
	if open == '[' {
		return ']'
	}
	return '}'
}

// matchFrom walks s from the opener at start and returns the index just past
// its balancing closer. String literals and escapes are honored, and nested
// brackets of either kind must balance. It returns -1 when the span is
// unbalanced or runs off the end of the text.
func matchFrom(s string, start int) int {
	var (
		stack    []byte
		inString bool
		escaped  bool
	)
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{', '[':
			stack = append(stack, closerFor(c))
		case '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != c {
				return -1
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return i + 1
			}
		}
	}
	return -1
}

// balancedSpans collects the disjoint balanced spans in s[lo:hi] that start
// with one of the openers. Text between spans is treated as prose: quotes
// there do not open strings.
func balancedSpans(s string, lo, hi int, openers string) []span {
	var spans []span
	sub := s[:hi]
	for i := lo; i < hi; i++ {
		if strings.IndexByte(openers, s[i]) < 0 {
			continue
		}
		end := matchFrom(sub, i)
		if end < 0 {
			continue
		}
		spans = append(spans, span{start: i, end: end})
		i = end - 1
	}
	return spans
}

// bestSpan returns the largest span in s[lo:hi] that accept approves. Spans
// that balance but do not parse are searched for smaller payloads inside
// them.
func bestSpan(s string, lo, hi int, openers string, accept func(string) bool, depth int) (span, bool) {
	spans := balancedSpans(s, lo, hi, openers)
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].len() > spans[j].len() })

	var rejected []span
	for _, sp := range spans {
		if accept(s[sp.start:sp.end]) {
			return sp, true
		}
		rejected = append(rejected, sp)
	}

	if depth >= maxScanDepth {
		return span{}, false
	}

	var (
		best  span
		found bool
	)
	for _, sp := range rejected {
		if sp.len() <= 2 || (found && sp.len() <= best.len()) {
			continue
		}
		if inner, ok := bestSpan(s, sp.start+1, sp.end-1, openers, accept, depth+1); ok {
			if !found || inner.len() > best.len() {
				best, found = inner, true
			}
		}
	}
	return best, found
}
