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


package core

import "fmt"

// ValidateEntity validates an Entity according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Type must be a canonical entity kind
//   - Name must not be empty
//
// NOT validated (populated lazily):
//   - Vector (can be empty until embedded)
//   - Region (empty means region-independent, e.g. subjects)
func ValidateEntity(entity *Entity) error {
	if entity == nil {
		return fmt.Errorf("%w: entity is nil", ErrInvalidEntity)
	}

	if entity.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, ErrEmptyEntityID)
	}

	if !entity.Type.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidEntity, ErrInvalidEntityType, entity.Type)
	}

	if entity.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidEntity, ErrEmptyEntityName)
	}

	return nil
}

// ValidateObservation validates an Observation according to domain rules.
//
// Validation rules:
//   - RecordID must not be empty
//   - SentimentScore must be within [-1, 1]
//
// Text is allowed to be empty: audio records with failed transcription still
// produce an auditable observation row.
func ValidateObservation(obs *Observation) error {
	if obs == nil {
		return fmt.Errorf("%w: observation is nil", ErrInvalidObservation)
	}

	if obs.RecordID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidObservation, ErrEmptyRecordID)
	}

	if obs.SentimentScore < -1 || obs.SentimentScore > 1 {
		return fmt.Errorf("%w: %w: %v", ErrInvalidObservation, ErrSentimentOutOfRange, obs.SentimentScore)
	}

	return nil
}
