// Package answer post-processes raw model output into a presentable answer.
package answer

import "strings"

// thinkingTags are reasoning delimiters emitted by some local models.
// Only the delimiter tokens are removed; enclosed content stays inline.
var thinkingTags = []string{"<think>", "</think>"}

// preambleLabels are labels some models prepend to the final answer. Everything
// up to and including the last occurrence of each label is discarded.
var preambleLabels = []string{"คำตอบสรุป:", "Answer:", "สรุป:"}

// Clean strips thinking delimiters and preamble labels from raw model output
// and trims surrounding whitespace. Empty input yields empty output.
func Clean(raw string) string {
	if raw == "" {
		return ""
	}
	text := raw
	for _, tag := range thinkingTags {
		text = strings.ReplaceAll(text, tag, "")
	}
	for _, label := range preambleLabels {
		if i := strings.LastIndex(text, label); i >= 0 {
			text = text[i+len(label):]
		}
	}
	return strings.TrimSpace(text)
}
