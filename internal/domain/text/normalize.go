// Package text folds Spanish catalog words and queries to a canonical form.
//
// The stemming is deliberately narrow: it only collapses regular plurals and a small
// table of irregular or commonly misspelled forms, so titles and queries meet on the
// same tokens without over-stripping singular words such as "aros", "lados" or "anos".
package text

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// irregular maps exact words to their canonical form. Identity entries pin words
// that look like plurals but are catalog terms in their own right.
var irregular = map[string]string{
	"aroos":    "aros",
	"runass":   "runas",
	"runas":    "runas",
	"taroot":   "tarot",
	"tarot":    "tarot",
	"tigre":    "tigre",
	"ojotigre": "ojo de tigre",
}

// Words ending vowel+ros/dos/nos are singular nouns, not plurals.
var notPlural = []*regexp.Regexp{
	regexp.MustCompile(`[aeiou]ros$`),
	regexp.MustCompile(`[aeiou]dos$`),
	regexp.MustCompile(`[aeiou]nos$`),
}

var stopwords = map[string]struct{}{
	"a": {}, "al": {}, "con": {}, "de": {}, "del": {}, "e": {}, "el": {}, "en": {},
	"la": {}, "las": {}, "lo": {}, "los": {}, "o": {}, "para": {}, "por": {}, "que": {},
	"se": {}, "sin": {}, "su": {}, "sus": {}, "u": {}, "un": {}, "una": {}, "unas": {},
	"uno": {}, "unos": {}, "y": {},
}

// Fold lower-cases s, trims it and strips combining diacritical marks.
func Fold(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Normalize folds a single word and collapses it to its singular canonical form.
func Normalize(word string) string {
	w := Fold(word)
	if canon, ok := irregular[w]; ok {
		return canon
	}
	if strings.HasSuffix(w, "s") && utf8.RuneCountInString(w) > 3 && !matchesAny(w, notPlural) {
		return w[:len(w)-1]
	}
	return w
}

// IsStopword reports whether a folded word carries no search meaning.
func IsStopword(word string) bool {
	_, ok := stopwords[word]
	return ok
}

// Tokenize splits a query on whitespace and returns its normalized, meaningful tokens
// in query order.
func Tokenize(query string) []string {
	fields := strings.Fields(query)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		n := Normalize(f)
		if n == "" || IsStopword(n) || IsStopword(Fold(f)) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Words splits folded text into alphanumeric words.
func Words(s string) []string {
	return strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func matchesAny(s string, res []*regexp.Regexp) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
