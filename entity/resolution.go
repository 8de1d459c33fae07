package entity

import "github.com/JedouEdu/digiEduHack-hackathon/core"

// Resolution is the outcome of one resolver call: either a match against a
// cached entity or an explicit miss. A miss is a normal outcome, never an
// error; callers that want a canonical record for the missed value mint one
// with NewEntity.
type Resolution struct {
	match    core.EntityMatch
	resolved bool
}

// Resolved wraps a successful match.
func Resolved(match core.EntityMatch) Resolution {
	return Resolution{match: match, resolved: true}
}

// Unresolved records a miss for the given source value.
func Unresolved(sourceValue string) Resolution {
	return Resolution{
		match: core.EntityMatch{
			MatchMethod: core.MatchNew,
			Confidence:  core.ConfidenceLow,
			SourceValue: sourceValue,
		},
	}
}

// IsResolved reports whether a cached entity was found.
func (r Resolution) IsResolved() bool {
	return r.resolved
}

// Match returns the underlying match record. For an unresolved outcome this
// is the NEW-method record with an empty entity ID.
func (r Resolution) Match() core.EntityMatch {
	return r.match
}

// NewEntity mints a canonical record for a value the resolver could not
// match. The ID is content-addressed from (type, region, value), so
// reprocessing the same file yields the same entity.
func NewEntity(entityType core.EntityType, sourceValue, regionID string) *core.Entity {
	return &core.Entity{
		ID:     core.NewEntityID(entityType, regionID, sourceValue),
		Type:   entityType,
		Region: regionID,
		Name:   sourceValue,
	}
}
