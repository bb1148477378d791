package docs

import (
	"strings"
)

// ExtractSections splits markdown into "## " sections.
// Text before the first heading is dropped, deeper headings stay in the body
// and a repeated title keeps only the last body.
func ExtractSections(content string) Sections {
	var sections Sections
	var title string
	var body []string
	open := false

	flush := func() {
		if open && title != "" {
			sections.Set(title, strings.TrimSpace(strings.Join(body, "\n")))
		}
	}

	for _, line := range strings.Split(content, "\n") {
		if isSectionHeading(line) {
			flush()
			title = strings.TrimSpace(line[len(sectionPrefix):])
			body = body[:0]
			open = true
			continue
		}
		if open && title != "" {
			body = append(body, line)
		}
	}
	flush()

	return sections
}

// isSectionHeading matches "^## (.+)"
func isSectionHeading(line string) bool {
	return strings.HasPrefix(line, sectionPrefix) && len(line) > len(sectionPrefix)
}

// FormatSection renders a section back as "## title\nbody"
func FormatSection(title, body string) string {
	return sectionPrefix + title + "\n" + body
}
