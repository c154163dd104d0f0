package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizeDesignation folds an asteroid designation into a canonical
// comparable form: "2021 DE" and "2021DE" and " 2021 de " all normalize
// identically.
func NormalizeDesignation(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// MatchDesignation reports whether the designation contains any of the
// normalized matcher fragments.
func MatchDesignation(name string, matchers []string) bool {
	name = NormalizeDesignation(name)
	for _, m := range matchers {
		if strings.Contains(name, m) {
			return true
		}
	}
	return false
}
