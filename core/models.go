package core

import (
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// EntityType identifies one of the six canonical entity kinds tracked by the
// warehouse dimension tables.
type EntityType string

const (
	EntityTeacher EntityType = "teacher"
	EntityStudent EntityType = "student"
	EntityParent  EntityType = "parent"
	EntityRegion  EntityType = "region"
	EntitySubject EntityType = "subject"
	EntitySchool  EntityType = "school"
)

// EntityTypes lists all canonical entity kinds in a stable order.
var EntityTypes = []EntityType{
	EntityTeacher,
	EntityStudent,
	EntityParent,
	EntityRegion,
	EntitySubject,
	EntitySchool,
}

// Valid reports whether t is one of the canonical entity kinds.
func (t EntityType) Valid() bool {
	switch t {
	case EntityTeacher, EntityStudent, EntityParent, EntityRegion, EntitySubject, EntitySchool:
		return true
	}
	return false
}

// Confidence is a coarse bucket derived from a continuous similarity score.
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// ConfidenceFromRelevance maps a relevance score onto a confidence tier.
// Scores >= 0.80 are HIGH, >= 0.65 MEDIUM, everything below LOW.
func ConfidenceFromRelevance(score float64) Confidence {
	switch {
	case score >= 0.80:
		return ConfidenceHigh
	case score >= 0.65:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// MatchMethod records which resolution strategy produced an entity match.
type MatchMethod string

const (
	MatchIDExact   MatchMethod = "ID_EXACT"
	MatchNameExact MatchMethod = "NAME_EXACT"
	MatchFuzzy     MatchMethod = "FUZZY"
	MatchEmbedding MatchMethod = "EMBEDDING"
	MatchNew       MatchMethod = "NEW"
)

// EntityMatch is the outcome of a single entity resolution call.
// It is created once and never mutated.
type EntityMatch struct {
	EntityID        string
	EntityName      string
	EntityType      EntityType
	SimilarityScore float64
	MatchMethod     MatchMethod
	Confidence      Confidence
	SourceValue     string
}

// Entity is a canonical dimension record for one real-world referent.
type Entity struct {
	ID         string
	Type       EntityType
	Region     string
	Name       string
	SourceIDs  []string  // identifiers the entity is known by in source systems
	Vector     []float32 // embedding of the display name, optional
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// MappingStatus classifies how confidently a source column was mapped
// to a canonical concept.
type MappingStatus string

const (
	MappingAuto          MappingStatus = "AUTO"
	MappingLowConfidence MappingStatus = "LOW_CONFIDENCE"
	MappingUnknown       MappingStatus = "UNKNOWN"
)

// ConceptCandidate is one scored concept in a column mapping's candidate list.
type ConceptCandidate struct {
	ConceptKey string
	Score      float64
}

// ColumnMapping maps one source column to a canonical concept.
// ConceptKey is empty when Status is MappingUnknown.
type ColumnMapping struct {
	SourceColumn string
	ConceptKey   string
	Score        float64
	Status       MappingStatus
	Candidates   []ConceptCandidate // top candidates, kept for explainability
}

// ObservedMention is an entity mention detected in free-form text,
// kept on the observation record for audit.
type ObservedMention struct {
	Text string
	Kind string // person, subject, location
}

// Observation is a free-form text record (document extract, transcript,
// feedback) enriched with detected mentions and sentiment.
type Observation struct {
	RecordID        string
	RegionID        string
	Text            string
	Mentions        []ObservedMention
	SentimentScore  float64 // [-1, 1]
	ContentType     string
	AudioDurationMS int64
	AudioConfidence float64
	AudioLanguage   string
	PageCount       int
	IngestTimestamp time.Time
}

// ObservationTarget links one observation to a resolved entity.
// Re-ingestion appends new rows; targets are never updated in place.
type ObservationTarget struct {
	ObservationID  string
	TargetType     EntityType
	TargetID       string
	RelevanceScore float64
	Confidence     Confidence
}

// FeedbackTarget links one feedback row to a resolved entity. Same shape as
// ObservationTarget but keyed by the feedback row's own identifier.
type FeedbackTarget struct {
	FeedbackID     string
	TargetType     EntityType
	TargetID       string
	RelevanceScore float64
	Confidence     Confidence
}

// IngestStatus is the terminal status of one ingestion call.
type IngestStatus string

const (
	StatusIngested IngestStatus = "INGESTED"
	StatusFailed   IngestStatus = "FAILED"
)

// IngestResult is the record returned to ingestion callers.
type IngestResult struct {
	RecordID         string
	Status           IngestStatus
	TableType        string // empty when the record failed before classification
	RowsLoaded       int
	BytesProcessed   int64
	CacheHit         bool
	ErrorMessage     string
	Warnings         []string
	ProcessingTimeMS int64
	CompletedAt      time.Time
}

// CellKind discriminates the typed cell values of a normalized table.
type CellKind int

const (
	CellNull CellKind = iota
	CellString
	CellNumber
	CellTime
)

// Cell is a single typed value in a normalized table.
type Cell struct {
	Kind CellKind
	Str  string
	Num  float64
	Time time.Time
}

// NullCell returns the null cell value.
func NullCell() Cell { return Cell{Kind: CellNull} }

// StringCell wraps s as a string cell.
func StringCell(s string) Cell { return Cell{Kind: CellString, Str: s} }

// NumberCell wraps n as a numeric cell.
func NumberCell(n float64) Cell { return Cell{Kind: CellNumber, Num: n} }

// TimeCell wraps t as a timestamp cell.
func TimeCell(t time.Time) Cell { return Cell{Kind: CellTime, Time: t} }

// NormalizedTable is the canonical-form output of the normalizer, ready for
// the warehouse collaborator. Column order is significant.
type NormalizedTable struct {
	TableType string
	RegionID  string
	RecordID  string
	Columns   []string
	Rows      [][]Cell
}

// Column returns the values of the named column, or nil when absent.
func (t *NormalizedTable) Column(name string) []Cell {
	for i, col := range t.Columns {
		if col != name {
			continue
		}
		out := make([]Cell, len(t.Rows))
		for r, row := range t.Rows {
			out[r] = row[i]
		}
		return out
	}
	return nil
}

// NewEntityID derives a deterministic content-addressed identifier for an
// entity that could not be resolved. The same (type, region, value) always
// yields the same ID, so reprocessing a file does not mint duplicates.
func NewEntityID(entityType EntityType, region, value string) string {
	return contentHash(string(entityType) + ":" + region + ":" + value)
}

// PseudonymizeID replaces an identifier with a deterministic hash.
// Empty values pass through unchanged.
func PseudonymizeID(value string) string {
	if value == "" {
		return value
	}
	return contentHash(value)
}

// contentHash returns a 16-character hex digest using BLAKE2b.
func contentHash(text string) string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 16 hex chars
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
