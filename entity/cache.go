// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package entity implements the per-region entity cache and the layered
// entity resolver that maps source strings and IDs to canonical entities.
package entity

import (
	"github.com/JedouEdu/digiEduHack-hackathon/core"
)

// Cache is a per-region in-memory index of canonical entities. It is built
// once at the start of a region's ingestion batch and read-only thereafter;
// it must not be mutated concurrently with resolution reads.
type Cache struct {
	region string
	kinds  map[core.EntityType]*kindIndex
	names  map[string]string // entity id -> display name, shared across kinds
}

type kindIndex struct {
	nameIndex  map[string]string    // normalized name -> entity id
	idIndex    map[string]string    // source id -> entity id
	embeddings map[string][]float32 // entity id -> vector, sparse
}

// NewCache builds a cache for one region from canonical entity records.
// Name collisions within a kind are resolved last-write-wins.
func NewCache(region string, entities []*core.Entity) *Cache {
	c := &Cache{
		region: region,
		kinds:  make(map[core.EntityType]*kindIndex),
		names:  make(map[string]string),
	}

	for _, e := range entities {
		if e == nil || !e.Type.Valid() || e.ID == "" {
			continue
		}

		idx := c.kind(e.Type)
		c.names[e.ID] = e.Name

		if norm := NormalizeName(e.Name); norm != "" {
			idx.nameIndex[norm] = e.ID
		}
		idx.idIndex[e.ID] = e.ID
		for _, sid := range e.SourceIDs {
			if sid != "" {
				idx.idIndex[sid] = e.ID
			}
		}
		if len(e.Vector) > 0 {
			idx.embeddings[e.ID] = e.Vector
		}
	}

	return c
}

func (c *Cache) kind(t core.EntityType) *kindIndex {
	idx, ok := c.kinds[t]
	if !ok {
		idx = &kindIndex{
			nameIndex:  make(map[string]string),
			idIndex:    make(map[string]string),
			embeddings: make(map[string][]float32),
		}
		c.kinds[t] = idx
	}
	return idx
}

// Region returns the region this cache was built for.
func (c *Cache) Region() string {
	return c.region
}

// LookupID finds an entity by source identifier within one kind.
func (c *Cache) LookupID(t core.EntityType, sourceID string) (string, bool) {
	idx, ok := c.kinds[t]
	if !ok {
		return "", false
	}
	id, ok := idx.idIndex[sourceID]
	return id, ok
}

// LookupName finds an entity by normalized name within one kind.
func (c *Cache) LookupName(t core.EntityType, normalized string) (string, bool) {
	idx, ok := c.kinds[t]
	if !ok {
		return "", false
	}
	id, ok := idx.nameIndex[normalized]
	return id, ok
}

// NormalizedNames returns the normalized-name index for one kind.
// The returned map must not be modified.
func (c *Cache) NormalizedNames(t core.EntityType) map[string]string {
	idx, ok := c.kinds[t]
	if !ok {
		return nil
	}
	return idx.nameIndex
}

// Embeddings returns the embedding index for one kind.
// The returned map must not be modified.
func (c *Cache) Embeddings(t core.EntityType) map[string][]float32 {
	idx, ok := c.kinds[t]
	if !ok {
		return nil
	}
	return idx.embeddings
}

// DisplayName returns the display name of a cached entity.
func (c *Cache) DisplayName(entityID string) string {
	return c.names[entityID]
}

// Size returns the number of distinct cached entities.
func (c *Cache) Size() int {
	return len(c.names)
}
