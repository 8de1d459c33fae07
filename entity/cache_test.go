package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JedouEdu/digiEduHack-hackathon/core"
)

func TestNewCache_Indexes(t *testing.T) {
	cache := NewCache("CZ010", []*core.Entity{
		{ID: "T-1", Type: core.EntityTeacher, Name: "Ivan Petrov", SourceIDs: []string{"EMP-1", "EMP-2"}},
		{ID: "S-1", Type: core.EntityStudent, Name: "Eva Mala", Vector: []float32{1, 0}},
		nil,
		{ID: "", Type: core.EntityTeacher, Name: "dropped"},
		{ID: "X-1", Type: "principal", Name: "dropped too"},
	})

	assert.Equal(t, "CZ010", cache.Region())
	assert.Equal(t, 2, cache.Size())

	// Own ID and every source ID resolve
	for _, sid := range []string{"T-1", "EMP-1", "EMP-2"} {
		id, ok := cache.LookupID(core.EntityTeacher, sid)
		assert.True(t, ok, "lookup %q", sid)
		assert.Equal(t, "T-1", id)
	}

	id, ok := cache.LookupName(core.EntityStudent, "eva mala")
	assert.True(t, ok)
	assert.Equal(t, "S-1", id)

	// Every indexed ID has a display name
	assert.Equal(t, "Ivan Petrov", cache.DisplayName("T-1"))
	assert.Equal(t, "Eva Mala", cache.DisplayName("S-1"))

	assert.Len(t, cache.Embeddings(core.EntityStudent), 1)
	assert.Empty(t, cache.Embeddings(core.EntityTeacher))
	assert.Nil(t, cache.NormalizedNames(core.EntityParent))
}

func TestNewCache_NameCollisionLastWriteWins(t *testing.T) {
	cache := NewCache("CZ010", []*core.Entity{
		{ID: "T-1", Type: core.EntityTeacher, Name: "Jan Novak"},
		{ID: "T-2", Type: core.EntityTeacher, Name: "jan novak"},
	})

	id, ok := cache.LookupName(core.EntityTeacher, "jan novak")
	assert.True(t, ok)
	assert.Equal(t, "T-2", id)
}
