package repair

import "regexp"

var htmlTag = regexp.MustCompile(`<[^>]+>`)

// HTMLMatcher strips HTML tags. There is no allow-list: anything shaped
// like <...> goes.
type HTMLMatcher struct{}

// NewHTMLMatcher returns an HTMLMatcher
func NewHTMLMatcher() *HTMLMatcher {
	return &HTMLMatcher{}
}

// Find returns the tags present in text
func (m *HTMLMatcher) Find(text string) []string {
	return htmlTag.FindAllString(text, -1)
}

// Rewrite removes every tag, then normalizes whitespace line by line
func (m *HTMLMatcher) Rewrite(s string) (string, bool) {
	if !htmlTag.MatchString(s) {
		return s, false
	}
	return StripHTML(s), true
}

// StripHTML removes tags unconditionally and normalizes whitespace. It is
// also used on values imported from CSV.
func StripHTML(s string) string {
	for htmlTag.MatchString(s) {
		s = htmlTag.ReplaceAllString(s, "")
	}
	return squeezeBlankLines(collapseSpaces(s, true))
}
