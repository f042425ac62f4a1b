// Package draft pulls guideline updates and post examples out of free-text
// model replies.
package draft

import (
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// UpdateStart and UpdateEnd delimit a guideline update inside a reply.
	UpdateStart = "GUIDELINE UPDATE:"
	UpdateEnd   = "END GUIDELINE UPDATE"

	// minSectionLen is the rune count a fallback section must exceed.
	minSectionLen = 50

	sectionSeparator = "\n\n"
)

var (
	updatePattern  = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(UpdateStart) + `(.*?)` + regexp.QuoteMeta(UpdateEnd))
	// blankLines treats every Unicode whitespace rune as blank, including
	// the C0 separators \x1c-\x1f and NEL.
	blankLines     = regexp.MustCompile(`\n[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]*\n`)
	examplePattern = regexp.MustCompile(`(?s)POST EXAMPLE:\s*(.*?)\s*END POST EXAMPLE`)
)

// Extract returns the draft that results from applying reply to current.
//
// The last delimited update in reply wins and is appended to current. When
// reply carries no update and current is empty, the long paragraphs of the
// reply become the draft. Otherwise current is returned unchanged.
func Extract(reply, current string) string {
	if matches := updatePattern.FindAllStringSubmatch(reply, -1); len(matches) > 0 {
		latest := strings.TrimSpace(matches[len(matches)-1][1])
		if current != "" {
			return current + sectionSeparator + latest
		}
		return latest
	}

	if current != "" {
		return current
	}

	var kept []string
	for _, section := range blankLines.Split(reply, -1) {
		if utf8.RuneCountInString(strings.TrimFunc(section, isBlank)) > minSectionLen {
			kept = append(kept, section)
		}
	}
	return strings.Join(kept, sectionSeparator)
}

func isBlank(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// HasUpdate reports whether reply contains at least one delimited update.
func HasUpdate(reply string) bool {
	return updatePattern.MatchString(reply)
}

// ExtractPostExamples returns every POST EXAMPLE block of reply in order.
func ExtractPostExamples(reply string) []string {
	matches := examplePattern.FindAllStringSubmatch(reply, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// MergeExamples appends the examples of found that existing does not
// already contain. existing is never modified.
func MergeExamples(existing, found []string) []string {
	merged := slices.Clone(existing)
	if merged == nil {
		merged = []string{}
	}
	for _, ex := range found {
		if !slices.Contains(merged, ex) {
			merged = append(merged, ex)
		}
	}
	return merged
}
