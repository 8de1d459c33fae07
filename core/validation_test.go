package core

import (
	"errors"
	"testing"
)

func TestValidateEntity(t *testing.T) {
	tests := []struct {
		name    string
		entity  *Entity
		wantErr error
	}{
		{
			name: "valid entity",
			entity: &Entity{
				ID:   "abc123",
				Type: EntityTeacher,
				Name: "Jana Novakova",
			},
			wantErr: nil,
		},
		{
			name: "valid entity without region",
			entity: &Entity{
				ID:   "abc123",
				Type: EntitySubject,
				Name: "matematika",
			},
			wantErr: nil,
		},
		{
			name: "valid entity without vector",
			entity: &Entity{
				ID:     "abc123",
				Type:   EntitySchool,
				Name:   "ZŠ Komenského",
				Vector: nil,
			},
			wantErr: nil,
		},
		{
			name:    "nil entity",
			entity:  nil,
			wantErr: ErrInvalidEntity,
		},
		{
			name: "empty id",
			entity: &Entity{
				Type: EntityTeacher,
				Name: "Jana Novakova",
			},
			wantErr: ErrEmptyEntityID,
		},
		{
			name: "invalid type",
			entity: &Entity{
				ID:   "abc123",
				Type: "principal",
				Name: "Jana Novakova",
			},
			wantErr: ErrInvalidEntityType,
		},
		{
			name: "empty name",
			entity: &Entity{
				ID:   "abc123",
				Type: EntityTeacher,
			},
			wantErr: ErrEmptyEntityName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntity(tt.entity)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateEntity() error = %v, want nil", err)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateEntity() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidEntity) {
				t.Errorf("ValidateEntity() error should wrap ErrInvalidEntity, got %v", err)
			}
		})
	}
}

func TestValidateObservation(t *testing.T) {
	tests := []struct {
		name    string
		obs     *Observation
		wantErr error
	}{
		{
			name: "valid observation",
			obs: &Observation{
				RecordID:       "rec-1",
				RegionID:       "CZ010",
				Text:           "Vyborna hodina matematiky.",
				SentimentScore: 0.6,
			},
			wantErr: nil,
		},
		{
			name: "empty text is allowed",
			obs: &Observation{
				RecordID: "rec-2",
			},
			wantErr: nil,
		},
		{
			name: "sentiment boundaries are inclusive",
			obs: &Observation{
				RecordID:       "rec-3",
				SentimentScore: -1,
			},
			wantErr: nil,
		},
		{
			name:    "nil observation",
			obs:     nil,
			wantErr: ErrInvalidObservation,
		},
		{
			name: "empty record id",
			obs: &Observation{
				Text: "something",
			},
			wantErr: ErrEmptyRecordID,
		},
		{
			name: "sentiment above range",
			obs: &Observation{
				RecordID:       "rec-4",
				SentimentScore: 1.2,
			},
			wantErr: ErrSentimentOutOfRange,
		},
		{
			name: "sentiment below range",
			obs: &Observation{
				RecordID:       "rec-5",
				SentimentScore: -1.01,
			},
			wantErr: ErrSentimentOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateObservation(tt.obs)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateObservation() error = %v, want nil", err)
				}
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateObservation() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
