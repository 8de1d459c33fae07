package openai

import "unicode/utf8"

// maxAnalysisInput bounds the text sent to the analyzer model.
const maxAnalysisInput = 8000

// truncateText limits s to max runes, cutting cleanly at a rune boundary.
func truncateText(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}

// isLetter returns true if the rune is an ASCII letter.
func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
