package viewfilter

import (
	"cmp"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var names = struct {
	sync.Mutex
	c *collate.Collator
}{c: collate.New(language.English, collate.IgnoreCase)}

// CompareNames orders display names alphabetically, ignoring case.
func CompareNames(a, b string) int {
	names.Lock()
	defer names.Unlock()
	return names.c.CompareString(a, b)
}

// CompareDesignators orders designators such as "9", "10" or "1.10"
// numerically: runs of digits compare as numbers, so "2" sorts before "10".
// Empty designators sort lowest.
func CompareDesignators(a, b string) int {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	case b == "":
		return 1
	}

	ta, tb := tokenize(a), tokenize(b)
	for i := 0; i < len(ta) && i < len(tb); i++ {
		if c := compareToken(ta[i], tb[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(ta), len(tb))
}

// CompareMissingLowest compares optional counts; nil is below any value.
func CompareMissingLowest(a, b *int64) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return cmp.Compare(*a, *b)
	}
}

// Descending flips a comparator.
func Descending[T any](c Comparator[T]) Comparator[T] {
	return func(a, b T) int {
		return c(b, a)
	}
}

func tokenize(s string) []string {
	var tokens []string
	start := 0
	prevDigit := false
	for i, r := range s {
		digit := r >= '0' && r <= '9'
		if i > 0 && digit != prevDigit {
			tokens = append(tokens, s[start:i])
			start = i
		}
		prevDigit = digit
	}
	return append(tokens, s[start:])
}

func compareToken(a, b string) int {
	da, db := isDigits(a), isDigits(b)
	switch {
	case da && db:
		a, b = strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
		if c := cmp.Compare(len(a), len(b)); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case da:
		return -1
	case db:
		return 1
	default:
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
