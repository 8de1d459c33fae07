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

import "errors"

// Domain validation errors
var (
	// ErrInvalidEntity indicates an Entity failed validation.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrInvalidObservation indicates an Observation failed validation.
	ErrInvalidObservation = errors.New("invalid observation")

	// ErrInvalidEntityType indicates an unrecognized EntityType value.
	ErrInvalidEntityType = errors.New("invalid entity type")

	// ErrEmptyEntityID indicates the entity ID field is empty.
	ErrEmptyEntityID = errors.New("entity id cannot be empty")

	// ErrEmptyEntityName indicates the entity Name field is empty.
	ErrEmptyEntityName = errors.New("entity name cannot be empty")

	// ErrEmptyRecordID indicates the observation RecordID field is empty.
	ErrEmptyRecordID = errors.New("record id cannot be empty")

	// ErrSentimentOutOfRange indicates a sentiment score outside [-1, 1].
	ErrSentimentOutOfRange = errors.New("sentiment score must be within [-1, 1]")
)
