package manifest

import "strings"

// stringState tracks whether a scan position sits inside a TOML
// multiline string, which suppresses comment and key detection on
// continuation lines.
type stringState int

const (
	stateNone stringState = iota
	stateMultiBasic
	stateMultiLiteral
)

// scanLine reports the index of an unquoted # comment in line, or -1,
// together with the string state carried into the next line.
func scanLine(line string, state stringState) (int, stringState) {
	i := 0
	for i < len(line) {
		switch state {
		case stateMultiBasic:
			end := closingTripleQuote(line[i:])
			if end < 0 {
				return -1, state
			}
			i += end + 3
			state = stateNone
			continue
		case stateMultiLiteral:
			end := strings.Index(line[i:], "'''")
			if end < 0 {
				return -1, state
			}
			i += end + 3
			state = stateNone
			continue
		}
		switch {
		case line[i] == '#':
			return i, state
		case strings.HasPrefix(line[i:], `"""`):
			state = stateMultiBasic
			i += 3
		case strings.HasPrefix(line[i:], "'''"):
			state = stateMultiLiteral
			i += 3
		case line[i] == '"':
			i = skipBasicString(line, i)
		case line[i] == '\'':
			i = skipLiteralString(line, i)
		default:
			i++
		}
	}
	return -1, state
}

// closingTripleQuote finds an unescaped """ delimiter in s. An odd run of
// preceding backslashes escapes the first quote.
func closingTripleQuote(s string) int {
	for from := 0; ; {
		idx := strings.Index(s[from:], `"""`)
		if idx < 0 {
			return -1
		}
		abs := from + idx
		backslashes := 0
		for i := abs - 1; i >= 0 && s[i] == '\\'; i-- {
			backslashes++
		}
		if backslashes%2 == 0 {
			return abs
		}
		from = abs + 1
	}
}

// skipBasicString advances past a single-line basic string opened at i.
func skipBasicString(line string, i int) int {
	for j := i + 1; j < len(line); j++ {
		switch line[j] {
		case '\\':
			j++
		case '"':
			return j + 1
		}
	}
	return len(line)
}

// skipLiteralString advances past a single-line literal string opened at i.
func skipLiteralString(line string, i int) int {
	for j := i + 1; j < len(line); j++ {
		if line[j] == '\'' {
			return j + 1
		}
	}
	return len(line)
}
