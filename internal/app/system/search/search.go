// Package search builds the case-insensitive match used by user search.
//
// By default the search text is matched as a literal substring: regex
// metacharacters are escaped. Pattern mode passes the text through as a
// regular expression for deployments that want that behaviour.
package search

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Mode selects how search text is turned into a regex.
type Mode string

const (
	// Literal escapes the text so it matches as a plain substring.
	Literal Mode = "literal"
	// Pattern uses the text as a regular expression, unescaped.
	Pattern Mode = "pattern"
)

// ParseMode maps a config value to a Mode. Anything other than "pattern"
// (case-insensitive) is Literal.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(Pattern)) {
		return Pattern
	}
	return Literal
}

// Blank reports whether text has nothing to search for.
func Blank(text string) bool {
	return strings.TrimSpace(text) == ""
}

// Regex returns a case-insensitive regex for the trimmed text.
func Regex(text string, mode Mode) primitive.Regex {
	p := strings.TrimSpace(text)
	if mode != Pattern {
		p = regexp.QuoteMeta(p)
	}
	return primitive.Regex{Pattern: p, Options: "i"}
}

// AnyField returns an $or clause matching text against any of fields, or nil
// when text is blank.
func AnyField(text string, mode Mode, fields ...string) bson.A {
	if Blank(text) || len(fields) == 0 {
		return nil
	}
	re := Regex(text, mode)
	or := make(bson.A, 0, len(fields))
	for _, f := range fields {
		or = append(or, bson.M{f: bson.M{"$regex": re}})
	}
	return or
}
