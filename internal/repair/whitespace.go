package repair

import (
	"regexp"
	"strings"
)

var (
	spaceRun      = regexp.MustCompile(` +`)
	spaceOrTabRun = regexp.MustCompile(`[ \t]+`)
	blankLineRun  = regexp.MustCompile(`\n{3,}`)
)

// collapseSpaces squeezes runs of blanks inside each line. With trimLines
// each line is also trimmed and tabs count as blanks.
func collapseSpaces(s string, trimLines bool) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if trimLines {
			lines[i] = spaceOrTabRun.ReplaceAllString(strings.TrimSpace(line), " ")
		} else {
			lines[i] = spaceRun.ReplaceAllString(line, " ")
		}
	}
	return strings.Join(lines, "\n")
}

// squeezeBlankLines keeps at most one empty line between paragraphs and
// trims the result
func squeezeBlankLines(s string) string {
	return strings.TrimSpace(blankLineRun.ReplaceAllString(s, "\n\n"))
}
