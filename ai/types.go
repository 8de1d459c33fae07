package ai

// MentionKinds defines the valid categories for detected mentions.
// These kinds are used by text analyzers to classify entity references.
var MentionKinds = []string{
	"person",
	"subject",
	"location",
}

// ValidMentionKind reports whether kind is one of MentionKinds.
func ValidMentionKind(kind string) bool {
	for _, k := range MentionKinds {
		if k == kind {
			return true
		}
	}
	return false
}
