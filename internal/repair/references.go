package repair

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
)

// DefaultExtension is the file extension targeted when none is configured
const DefaultExtension = "csv"

// Dialect is one escaping convention of a broken image-style reference
type Dialect int

const (
	// UnescapedBang is ![name.csv](url) where the ! is not escaped
	UnescapedBang Dialect = iota
	// EscapedBang is \![name.csv](url)
	EscapedBang
	// FullyEscaped is \!\[name\.csv\]\(url\) with escapes inside name and url
	FullyEscaped
)

func (d Dialect) String() string {
	switch d {
	case UnescapedBang:
		return "unescaped"
	case EscapedBang:
		return "escaped-bang"
	case FullyEscaped:
		return "fully-escaped"
	}
	return fmt.Sprintf("dialect(%d)", int(d))
}

// Reference is one broken reference found in a text
type Reference struct {
	Dialect Dialect
	Broken  string
	Fixed   string
}

// escapedLiteral matches one backslash escape inside a fully escaped name or
// url. A single left-to-right pass resolves \\ exactly once.
var escapedLiteral = regexp.MustCompile(`\\([\\_().:/])`)

type dialectPattern struct {
	dialect  Dialect
	re       *regexp2.Regexp
	unescape bool
}

// ReferenceMatcher turns image-style references to files with a given
// extension back into plain links
type ReferenceMatcher struct {
	extension string
	patterns  []dialectPattern
}

// NewReferenceMatcher compiles the dialect patterns for ext (without the dot).
// An empty ext selects DefaultExtension.
func NewReferenceMatcher(ext string) *ReferenceMatcher {
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext == "" {
		ext = DefaultExtension
	}
	quoted := regexp2.Escape(ext)

	// the lookbehind keeps \![...] for the escaped-bang dialect
	unescaped := `(?<!\\)!\[([^\]]+\.` + quoted + `[^\]]*)\]\(([^\)]+)\)`
	escapedBang := `\\!\[([^\]]+\.` + quoted + `[^\]]*)\]\(([^\)]+)\)`
	// lazy, leftmost: the nearest \]\( and \) close the name and url
	fullyEscaped := `\\!\\\[(.*?\.` + quoted + `.*?)\\\]\\\((.*?)\\\)`

	return &ReferenceMatcher{
		extension: ext,
		patterns: []dialectPattern{
			{dialect: UnescapedBang, re: regexp2.MustCompile(unescaped, regexp2.None)},
			{dialect: EscapedBang, re: regexp2.MustCompile(escapedBang, regexp2.None)},
			{dialect: FullyEscaped, re: regexp2.MustCompile(fullyEscaped, regexp2.None), unescape: true},
		},
	}
}

// Extension returns the targeted extension
func (m *ReferenceMatcher) Extension() string {
	return m.extension
}

// Find lists every broken reference in text, dialect by dialect, each
// dialect left to right
func (m *ReferenceMatcher) Find(text string) []Reference {
	if text == "" {
		return nil
	}
	var refs []Reference
	for _, p := range m.patterns {
		match, err := p.re.FindStringMatch(text)
		for err == nil && match != nil {
			refs = append(refs, Reference{
				Dialect: p.dialect,
				Broken:  match.String(),
				Fixed:   p.link(match),
			})
			match, err = p.re.FindNextMatch(match)
		}
	}
	return refs
}

// Rewrite replaces every broken reference with a plain link. Passes repeat
// until nothing matches so the output never needs a second rewrite.
func (m *ReferenceMatcher) Rewrite(s string) (string, bool) {
	matched := false
	for {
		out := s
		for _, p := range m.patterns {
			replaced, err := p.re.ReplaceFunc(out, func(match regexp2.Match) string {
				return p.link(&match)
			}, -1, -1)
			if err != nil {
				continue
			}
			out = replaced
		}
		if out == s {
			return s, matched
		}
		matched = true
		s = out
	}
}

func (p dialectPattern) link(match *regexp2.Match) string {
	name := match.GroupByNumber(1).String()
	url := match.GroupByNumber(2).String()
	if p.unescape {
		name = unescapeLiterals(name)
		url = unescapeLiterals(url)
	}
	return "[" + name + "](" + url + ")"
}

func unescapeLiterals(s string) string {
	return escapedLiteral.ReplaceAllString(s, "$1")
}
