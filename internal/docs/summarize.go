package docs

import "strings"

// Summarize reduces content to roughly maxLines lines.
//
// Content at or under the budget is returned unchanged. Otherwise headings,
// "- **" list items and bold lines are always kept, plain lines outside code
// blocks are kept while the budget lasts. Every fenced block after the second
// is dropped whole, fences included.
func Summarize(content string, maxLines int) string {
	lines := strings.Split(content, "\n")
	if len(lines) <= maxLines {
		return content
	}

	kept := make([]string, 0, maxLines)
	inCodeBlock := false
	codeBlocks := 0

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, codeFence) {
			inCodeBlock = !inCodeBlock
			if inCodeBlock {
				codeBlocks++
			}
			if codeBlocks > keptCodeBlocks {
				continue
			}
		} else if inCodeBlock && codeBlocks > keptCodeBlocks {
			continue
		}

		if isSummaryMarker(line, trimmed) || (!inCodeBlock && len(kept) < maxLines) {
			kept = append(kept, line)
		}
	}

	return strings.Join(kept, "\n")
}

func isSummaryMarker(line, trimmed string) bool {
	return strings.HasPrefix(line, "#") ||
		strings.HasPrefix(line, "- **") ||
		strings.HasPrefix(trimmed, "**")
}
