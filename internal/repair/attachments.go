package repair

import "regexp"

var (
	// [![attachment](url)](index.php?/attachments/get/42)
	nestedAttachmentLink = regexp.MustCompile(`\[!\[attachment\]\([^)]+\)\]\(index\.php\?/attachments/get/\d+\)`)
	// ![attachment](url)
	bareAttachmentImage = regexp.MustCompile(`!\[attachment\]\([^)]+\)`)
)

// AttachmentMatcher deletes attachment references left behind by imports
type AttachmentMatcher struct {
	patterns []*regexp.Regexp
}

// NewAttachmentMatcher returns a matcher for nested attachment links and bare
// attachment images
func NewAttachmentMatcher() *AttachmentMatcher {
	return &AttachmentMatcher{
		patterns: []*regexp.Regexp{nestedAttachmentLink, bareAttachmentImage},
	}
}

// Find returns every attachment reference in text
func (m *AttachmentMatcher) Find(text string) []string {
	var found []string
	for _, re := range m.patterns {
		found = append(found, re.FindAllString(text, -1)...)
		text = re.ReplaceAllString(text, "")
	}
	return found
}

// Rewrite removes the matched spans and tidies the whitespace they leave
func (m *AttachmentMatcher) Rewrite(s string) (string, bool) {
	matched := false
	for {
		out := s
		for _, re := range m.patterns {
			out = re.ReplaceAllString(out, "")
		}
		if out == s {
			break
		}
		matched = true
		s = out
	}
	if !matched {
		return s, false
	}
	return squeezeBlankLines(collapseSpaces(s, false)), true
}
