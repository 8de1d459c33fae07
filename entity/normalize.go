package entity

import "strings"

// NormalizeName canonicalizes a name for index lookup: lowercase, periods
// stripped, whitespace collapsed to single spaces, ends trimmed.
func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, ".", "")
	return strings.Join(strings.Fields(name), " ")
}
