package aggregation

import (
	"regexp"
	"unicode/utf8"
)

const (
	DefaultLabelLimit = 25
	ellipsis          = "..."
)

var titlePrefix = regexp.MustCompile(`^Title \d+: `)

// LabelTransform maps an entity name to a chart label.
type LabelTransform func(string) string

func Identity(name string) string {
	return name
}

// StripTitlePrefix turns "Title 49: Transportation" into "Transportation".
func StripTitlePrefix(name string) string {
	return titlePrefix.ReplaceAllString(name, "")
}

// TruncateLabel elides labels longer than limit runes so that the result,
// ellipsis included, is exactly limit runes long. Charts keep full labels,
// this is for renderers with little room.
func TruncateLabel(label string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(label) <= limit {
		return label
	}
	if limit <= len(ellipsis) {
		return string([]rune(label)[:limit])
	}
	return string([]rune(label)[:limit-len(ellipsis)]) + ellipsis
}
