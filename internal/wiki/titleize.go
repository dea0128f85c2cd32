package wiki

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var whitespaceRun = regexp.MustCompile(`[ \t\n\v\f\r]+`)

// Titleize turns a string into a page title: runs of whitespace become an
// underscore, the characters , . / ? ; | : are dropped, and the first
// character is upper-cased. Resolution by id does not use it.
func Titleize(title string) string {
	title = whitespaceRun.ReplaceAllString(title, "_")
	title = strings.Map(func(r rune) rune {
		if strings.ContainsRune(",./?;|:", r) {
			return -1
		}
		return r
	}, title)

	if title == "" {
		return title
	}
	first, size := utf8.DecodeRuneInString(title)
	return string(unicode.ToUpper(first)) + title[size:]
}
