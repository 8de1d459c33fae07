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


// Package catalog holds the declarative concept catalog: the table types the
// classifier can recognize and the canonical column concepts the mapper
// assigns. Definitions are loaded from YAML (or the built-in defaults) and
// then embedded once into an immutable Catalog that is safe for concurrent
// readers.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/JedouEdu/digiEduHack-hackathon/ai"
)

// Expected value types a concept can declare.
const (
	TypeString      = "string"
	TypeNumber      = "number"
	TypeDate        = "date"
	TypeCategorical = "categorical"
)

// ColumnRange is a soft validation rule: numeric values of Column outside
// [Min, Max] produce warnings, never failures.
type ColumnRange struct {
	Column string  `yaml:"column"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
}

// TableType is one named category of structured data, with the anchor
// phrases that describe it and its per-type validation rules.
type TableType struct {
	Name            string        `yaml:"name"`
	AnchorPhrases   []string      `yaml:"anchor_phrases"`
	RequiredColumns []string      `yaml:"required_columns,omitempty"`
	Ranges          []ColumnRange `yaml:"ranges,omitempty"`

	// Vector is the embedding of the combined anchor phrases.
	// Populated by Build, empty in a raw definition.
	Vector []float32 `yaml:"-"`
}

// Concept is one canonical column meaning the mapper can assign.
type Concept struct {
	Key          string   `yaml:"key"`
	Description  string   `yaml:"description"`
	ExpectedType string   `yaml:"expected_type"`
	Synonyms     []string `yaml:"synonyms,omitempty"`

	// Vector is the embedding of the description and synonyms.
	// Populated by Build, empty in a raw definition.
	Vector []float32 `yaml:"-"`
}

// Definition is the raw, un-embedded catalog as declared in configuration.
type Definition struct {
	TableTypes []TableType `yaml:"table_types"`
	Concepts   []Concept   `yaml:"concepts"`
}

// Catalog is the embedded catalog. Immutable once built; safe for
// concurrent readers.
type Catalog struct {
	tableTypes []TableType
	concepts   []Concept

	typeIndex    map[string]int
	conceptIndex map[string]int
}

// Build embeds a definition's anchor phrases and concept descriptions in one
// batch call and returns the immutable catalog. Vectors are computed exactly
// once here, never per request.
func Build(ctx context.Context, def *Definition, embedder ai.Embedder) (*Catalog, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(def.TableTypes)+len(def.Concepts))
	for _, tt := range def.TableTypes {
		texts = append(texts, anchorText(tt))
	}
	for _, c := range def.Concepts {
		texts = append(texts, conceptText(c))
	}

	vectors, err := embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed catalog: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embed catalog: got %d vectors for %d texts", len(vectors), len(texts))
	}

	cat := &Catalog{
		tableTypes:   make([]TableType, len(def.TableTypes)),
		concepts:     make([]Concept, len(def.Concepts)),
		typeIndex:    make(map[string]int, len(def.TableTypes)),
		conceptIndex: make(map[string]int, len(def.Concepts)),
	}

	for i, tt := range def.TableTypes {
		tt.Vector = vectors[i]
		cat.tableTypes[i] = tt
		cat.typeIndex[tt.Name] = i
	}
	for i, c := range def.Concepts {
		c.Vector = vectors[len(def.TableTypes)+i]
		cat.concepts[i] = c
		cat.conceptIndex[c.Key] = i
	}

	return cat, nil
}

// TableTypes returns all table types in declaration order.
func (c *Catalog) TableTypes() []TableType {
	return c.tableTypes
}

// Concepts returns all concepts in declaration order.
func (c *Catalog) Concepts() []Concept {
	return c.concepts
}

// TableType looks up a table type by name.
func (c *Catalog) TableType(name string) (TableType, bool) {
	i, ok := c.typeIndex[name]
	if !ok {
		return TableType{}, false
	}
	return c.tableTypes[i], true
}

// Concept looks up a concept by key.
func (c *Catalog) Concept(key string) (Concept, bool) {
	i, ok := c.conceptIndex[key]
	if !ok {
		return Concept{}, false
	}
	return c.concepts[i], true
}

// Validate checks a definition for structural problems before embedding.
func (d *Definition) Validate() error {
	if len(d.TableTypes) == 0 {
		return fmt.Errorf("%w: no table types", ErrInvalidDefinition)
	}
	if len(d.Concepts) == 0 {
		return fmt.Errorf("%w: no concepts", ErrInvalidDefinition)
	}

	names := map[string]bool{}
	for _, tt := range d.TableTypes {
		if tt.Name == "" {
			return fmt.Errorf("%w: table type with empty name", ErrInvalidDefinition)
		}
		if names[tt.Name] {
			return fmt.Errorf("%w: duplicate table type %q", ErrInvalidDefinition, tt.Name)
		}
		names[tt.Name] = true
		if len(tt.AnchorPhrases) == 0 {
			return fmt.Errorf("%w: table type %q has no anchor phrases", ErrInvalidDefinition, tt.Name)
		}
	}

	keys := map[string]bool{}
	for _, c := range d.Concepts {
		if c.Key == "" {
			return fmt.Errorf("%w: concept with empty key", ErrInvalidDefinition)
		}
		if keys[c.Key] {
			return fmt.Errorf("%w: duplicate concept %q", ErrInvalidDefinition, c.Key)
		}
		keys[c.Key] = true
		switch c.ExpectedType {
		case TypeString, TypeNumber, TypeDate, TypeCategorical:
		default:
			return fmt.Errorf("%w: concept %q has unknown expected type %q",
				ErrInvalidDefinition, c.Key, c.ExpectedType)
		}
	}

	return nil
}

// anchorText combines a table type's anchor phrases into one embedding input.
func anchorText(tt TableType) string {
	return strings.Join(tt.AnchorPhrases, ". ")
}

// conceptText combines a concept's description and synonyms into one
// embedding input.
func conceptText(c Concept) string {
	if len(c.Synonyms) == 0 {
		return c.Description
	}
	return c.Description + ". " + strings.Join(c.Synonyms, ", ")
}
