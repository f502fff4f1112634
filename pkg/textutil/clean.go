// Package textutil prepares model output for speech synthesis.
package textutil

import (
	"regexp"
	"strings"
)

var (
	boldRe    = regexp.MustCompile(`\*\*([^*]*)\*\*`)
	italicRe  = regexp.MustCompile(`\*([^*]*)\*`)
	dunderRe  = regexp.MustCompile(`__([^_]*)__`)
	underRe   = regexp.MustCompile(`_([^_]*)_`)
	codeRe    = regexp.MustCompile("`([^`]*)`")
	headerRe  = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	bulletRe  = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	spacesRe  = regexp.MustCompile(`\s+`)
	emojiRe   = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}\x{2600}-\x{27BF}\x{FE0F}\x{2190}-\x{21FF}]`)
)

// CleanForSpeech strips markdown markup and emoji so the synthesizer does
// not read asterisks and hashtags out loud, then collapses whitespace.
func CleanForSpeech(text string) string {
	text = boldRe.ReplaceAllString(text, "$1")
	text = italicRe.ReplaceAllString(text, "$1")
	text = dunderRe.ReplaceAllString(text, "$1")
	text = underRe.ReplaceAllString(text, "$1")
	text = codeRe.ReplaceAllString(text, "$1")
	text = headerRe.ReplaceAllString(text, "")
	text = bulletRe.ReplaceAllString(text, "")
	text = emojiRe.ReplaceAllString(text, "")
	text = spacesRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
