package core

import (
	"testing"
)

func TestNewEntityID_Deterministic(t *testing.T) {
	tests := []struct {
		name       string
		entityType EntityType
		region     string
		value      string
	}{
		{
			name:       "teacher name",
			entityType: EntityTeacher,
			region:     "CZ010",
			value:      "Jana Novakova",
		},
		{
			name:       "empty value",
			entityType: EntityStudent,
			region:     "CZ020",
			value:      "",
		},
		{
			name:       "subject without region",
			entityType: EntitySubject,
			region:     "",
			value:      "matematika",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := NewEntityID(tt.entityType, tt.region, tt.value)
			id2 := NewEntityID(tt.entityType, tt.region, tt.value)

			if id1 != id2 {
				t.Errorf("NewEntityID() produced different IDs for same input: %s vs %s", id1, id2)
			}
			if len(id1) != 16 {
				t.Errorf("NewEntityID() length = %d, want 16", len(id1))
			}
		})
	}
}

func TestNewEntityID_Different(t *testing.T) {
	a := NewEntityID(EntityTeacher, "CZ010", "Jana Novakova")
	b := NewEntityID(EntityStudent, "CZ010", "Jana Novakova")
	c := NewEntityID(EntityTeacher, "CZ020", "Jana Novakova")

	if a == b {
		t.Errorf("NewEntityID() same ID across entity types")
	}
	if a == c {
		t.Errorf("NewEntityID() same ID across regions")
	}
}

func TestPseudonymizeID(t *testing.T) {
	p1 := PseudonymizeID("student-42")
	p2 := PseudonymizeID("student-42")
	p3 := PseudonymizeID("student-43")

	if p1 != p2 {
		t.Errorf("PseudonymizeID() not deterministic: %s vs %s", p1, p2)
	}
	if p1 == p3 {
		t.Errorf("PseudonymizeID() collision for different inputs")
	}
	if p1 == "student-42" {
		t.Errorf("PseudonymizeID() returned input unchanged")
	}
	if PseudonymizeID("") != "" {
		t.Errorf("PseudonymizeID() should pass empty values through")
	}
}

func TestConfidenceFromRelevance(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  Confidence
	}{
		{name: "high boundary", score: 0.80, want: ConfidenceHigh},
		{name: "above high", score: 0.95, want: ConfidenceHigh},
		{name: "just below high", score: 0.79, want: ConfidenceMedium},
		{name: "medium boundary", score: 0.65, want: ConfidenceMedium},
		{name: "just below medium", score: 0.64, want: ConfidenceLow},
		{name: "zero", score: 0, want: ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ConfidenceFromRelevance(tt.score); got != tt.want {
				t.Errorf("ConfidenceFromRelevance(%v) = %v, want %v", tt.score, got, tt.want)
			}
		})
	}
}

func TestEntityType_Valid(t *testing.T) {
	for _, et := range EntityTypes {
		if !et.Valid() {
			t.Errorf("EntityType %q should be valid", et)
		}
	}
	if EntityType("principal").Valid() {
		t.Errorf("unknown entity type should not be valid")
	}
	if EntityType("").Valid() {
		t.Errorf("empty entity type should not be valid")
	}
}

func TestNormalizedTable_Column(t *testing.T) {
	table := &NormalizedTable{
		Columns: []string{"student_id", "score"},
		Rows: [][]Cell{
			{StringCell("s1"), NumberCell(1.5)},
			{StringCell("s2"), NullCell()},
		},
	}

	scores := table.Column("score")
	if len(scores) != 2 {
		t.Fatalf("Column() returned %d cells, want 2", len(scores))
	}
	if scores[0].Kind != CellNumber || scores[0].Num != 1.5 {
		t.Errorf("Column()[0] = %+v, want number 1.5", scores[0])
	}
	if scores[1].Kind != CellNull {
		t.Errorf("Column()[1] = %+v, want null", scores[1])
	}

	if table.Column("missing") != nil {
		t.Errorf("Column() for absent column should be nil")
	}
}
