// Package versionsort compares strings the way `sort -V` orders file names:
// digit runs compare as numbers, so "file2" sorts before "file10".
package versionsort

import (
	"regexp"
	"strings"
)

// extensionPattern matches trailing suffixes such as ".tar.gz" or ".c~".
var extensionPattern = regexp.MustCompile(`(?:\.[A-Za-z~][A-Za-z0-9~]*)*$`)

// Compare returns -1, 0 or +1. It is a strict total order: only identical
// strings compare equal.
func Compare(a, b string) int {
	if a == b {
		return 0
	}
	if c := compareRuns(stripExtension(a), stripExtension(b)); c != 0 {
		return c
	}
	if c := compareRuns(a, b); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// Less reports whether a sorts before b.
func Less(a, b string) bool {
	return Compare(a, b) < 0
}

func stripExtension(s string) string {
	loc := extensionPattern.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return s[:loc[0]]
}

// compareRuns alternates between non-digit runs, compared byte-wise with
// weight, and digit runs, compared numerically.
func compareRuns(a, b string) int {
	for a != "" || b != "" {
		var ra, rb string
		ra, a = splitRun(a, false)
		rb, b = splitRun(b, false)
		if c := compareText(ra, rb); c != 0 {
			return c
		}

		ra, a = splitRun(a, true)
		rb, b = splitRun(b, true)
		if c := compareNumbers(ra, rb); c != 0 {
			return c
		}
	}
	return 0
}

// splitRun returns the leading run of digits (or non-digits) and the rest.
func splitRun(s string, digits bool) (string, string) {
	i := 0
	for i < len(s) && isDigit(s[i]) == digits {
		i++
	}
	return s[:i], s[i:]
}

func compareText(a, b string) int {
	for i := 0; i < len(a) || i < len(b); i++ {
		wa, wb := weightAt(a, i), weightAt(b, i)
		if wa != wb {
			if wa < wb {
				return -1
			}
			return 1
		}
	}
	return 0
}

// weightAt ranks the byte at i: '~' lowest, then the end of the run,
// then letters, then every other byte.
func weightAt(s string, i int) int {
	if i >= len(s) {
		return 0
	}
	c := s[i]
	switch {
	case c == '~':
		return -1
	case isLetter(c):
		return int(c)
	default:
		return int(c) + 256
	}
}

// compareNumbers compares digit runs by value without converting them, so
// runs longer than any integer type still order correctly.
func compareNumbers(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
