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


package storage

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"

	"github.com/JedouEdu/digiEduHack-hackathon/core"
)

// Serializers for the record types that hit disk. Timestamps are stored as
// unix microseconds, vectors as raw float32, everything else varint or
// length-prefixed.

var (
	stringSliceSer = ord.NewSliceSer[string](ord.String)
	vectorSer      = ord.NewSliceSer[float32](raw.Float32)

	timeMUS     = timeSer{}
	mentionMUS  = mentionSer{}
	cellMUS     = cellSer{}
	rowSer      = ord.NewSliceSer[[]core.Cell](ord.NewSliceSer[core.Cell](cellMUS))
	mentionsSer = ord.NewSliceSer[core.ObservedMention](mentionMUS)

	// EntityMUS serializes core.Entity.
	EntityMUS = entitySer{}
	// ObservationMUS serializes core.Observation.
	ObservationMUS = observationSer{}
	// ObservationTargetsMUS serializes a slice of observation targets.
	ObservationTargetsMUS = ord.NewSliceSer[core.ObservationTarget](observationTargetSer{})
	// FeedbackTargetsMUS serializes a slice of feedback targets.
	FeedbackTargetsMUS = ord.NewSliceSer[core.FeedbackTarget](feedbackTargetSer{})
	// NormalizedTableMUS serializes core.NormalizedTable.
	NormalizedTableMUS = normalizedTableSer{}
	// IngestResultMUS serializes core.IngestResult.
	IngestResultMUS = ingestResultSer{}
)

type timeSer struct{}

func (timeSer) Marshal(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func (timeSer) Unmarshal(bs []byte) (time.Time, int, error) {
	us, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(us).UTC(), n, nil
}

func (timeSer) Size(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}

func (timeSer) Skip(bs []byte) (int, error) {
	return varint.Int64.Skip(bs)
}

type entitySer struct{}

func (entitySer) Marshal(e core.Entity, bs []byte) (n int) {
	n = ord.String.Marshal(e.ID, bs)
	n += ord.String.Marshal(string(e.Type), bs[n:])
	n += ord.String.Marshal(e.Region, bs[n:])
	n += ord.String.Marshal(e.Name, bs[n:])
	n += stringSliceSer.Marshal(e.SourceIDs, bs[n:])
	n += vectorSer.Marshal(e.Vector, bs[n:])
	n += timeMUS.Marshal(e.InsertedAt, bs[n:])
	n += timeMUS.Marshal(e.UpdatedAt, bs[n:])
	return n
}

func (entitySer) Unmarshal(bs []byte) (e core.Entity, n int, err error) {
	var (
		m   int
		typ string
	)
	if e.ID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if typ, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	e.Type = core.EntityType(typ)
	n += m
	if e.Region, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	if e.Name, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	if e.SourceIDs, m, err = stringSliceSer.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	if e.Vector, m, err = vectorSer.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	if e.InsertedAt, m, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return e, n + m, err
	}
	n += m
	e.UpdatedAt, m, err = timeMUS.Unmarshal(bs[n:])
	return e, n + m, err
}

func (entitySer) Size(e core.Entity) (size int) {
	size = ord.String.Size(e.ID)
	size += ord.String.Size(string(e.Type))
	size += ord.String.Size(e.Region)
	size += ord.String.Size(e.Name)
	size += stringSliceSer.Size(e.SourceIDs)
	size += vectorSer.Size(e.Vector)
	size += timeMUS.Size(e.InsertedAt)
	size += timeMUS.Size(e.UpdatedAt)
	return size
}

func (s entitySer) Skip(bs []byte) (int, error) {
	_, n, err := s.Unmarshal(bs)
	return n, err
}

type mentionSer struct{}

func (mentionSer) Marshal(m core.ObservedMention, bs []byte) (n int) {
	n = ord.String.Marshal(m.Text, bs)
	n += ord.String.Marshal(m.Kind, bs[n:])
	return n
}

func (mentionSer) Unmarshal(bs []byte) (m core.ObservedMention, n int, err error) {
	var k int
	if m.Text, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	m.Kind, k, err = ord.String.Unmarshal(bs[n:])
	return m, n + k, err
}

func (mentionSer) Size(m core.ObservedMention) int {
	return ord.String.Size(m.Text) + ord.String.Size(m.Kind)
}

func (s mentionSer) Skip(bs []byte) (int, error) {
	_, n, err := s.Unmarshal(bs)
	return n, err
}

type observationSer struct{}

func (observationSer) Marshal(o core.Observation, bs []byte) (n int) {
	n = ord.String.Marshal(o.RecordID, bs)
	n += ord.String.Marshal(o.RegionID, bs[n:])
	n += ord.String.Marshal(o.Text, bs[n:])
	n += mentionsSer.Marshal(o.Mentions, bs[n:])
	n += raw.Float64.Marshal(o.SentimentScore, bs[n:])
	n += ord.String.Marshal(o.ContentType, bs[n:])
	n += varint.Int64.Marshal(o.AudioDurationMS, bs[n:])
	n += raw.Float64.Marshal(o.AudioConfidence, bs[n:])
	n += ord.String.Marshal(o.AudioLanguage, bs[n:])
	n += varint.Int.Marshal(o.PageCount, bs[n:])
	n += timeMUS.Marshal(o.IngestTimestamp, bs[n:])
	return n
}

func (observationSer) Unmarshal(bs []byte) (o core.Observation, n int, err error) {
	var m int
	if o.RecordID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if o.RegionID, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return o, n + m, err
	}
	n += m
	if o.Text, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return o, n + m, err
	}
	n += m
	if o.Mentions, m, err = mentionsSer.Unmarshal(bs[n:]); err != nil {
		return o, n + m, err
	}
	n += m
	if o.SentimentScore, m, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return o, n + m, err
	}
	n += m
	if o.ContentType, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return o, n + m, err
	}
	n += m
	if o.AudioDurationMS, m, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return o, n + m, err
	}
	n += m
	if o.AudioConfidence, m, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return o, n + m, err
	}
	n += m
	if o.AudioLanguage, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return o, n + m, err
	}
	n += m
	if o.PageCount, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return o, n + m, err
	}
	n += m
	o.IngestTimestamp, m, err = timeMUS.Unmarshal(bs[n:])
	return o, n + m, err
}

func (observationSer) Size(o core.Observation) (size int) {
	size = ord.String.Size(o.RecordID)
	size += ord.String.Size(o.RegionID)
	size += ord.String.Size(o.Text)
	size += mentionsSer.Size(o.Mentions)
	size += raw.Float64.Size(o.SentimentScore)
	size += ord.String.Size(o.ContentType)
	size += varint.Int64.Size(o.AudioDurationMS)
	size += raw.Float64.Size(o.AudioConfidence)
	size += ord.String.Size(o.AudioLanguage)
	size += varint.Int.Size(o.PageCount)
	size += timeMUS.Size(o.IngestTimestamp)
	return size
}

func (s observationSer) Skip(bs []byte) (int, error) {
	_, n, err := s.Unmarshal(bs)
	return n, err
}

type observationTargetSer struct{}

func (observationTargetSer) Marshal(t core.ObservationTarget, bs []byte) (n int) {
	n = ord.String.Marshal(t.ObservationID, bs)
	n += ord.String.Marshal(string(t.TargetType), bs[n:])
	n += ord.String.Marshal(t.TargetID, bs[n:])
	n += raw.Float64.Marshal(t.RelevanceScore, bs[n:])
	n += ord.String.Marshal(string(t.Confidence), bs[n:])
	return n
}

func (observationTargetSer) Unmarshal(bs []byte) (t core.ObservationTarget, n int, err error) {
	var (
		m int
		s string
	)
	if t.ObservationID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if s, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return t, n + m, err
	}
	t.TargetType = core.EntityType(s)
	n += m
	if t.TargetID, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return t, n + m, err
	}
	n += m
	if t.RelevanceScore, m, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return t, n + m, err
	}
	n += m
	s, m, err = ord.String.Unmarshal(bs[n:])
	t.Confidence = core.Confidence(s)
	return t, n + m, err
}

func (observationTargetSer) Size(t core.ObservationTarget) (size int) {
	size = ord.String.Size(t.ObservationID)
	size += ord.String.Size(string(t.TargetType))
	size += ord.String.Size(t.TargetID)
	size += raw.Float64.Size(t.RelevanceScore)
	size += ord.String.Size(string(t.Confidence))
	return size
}

func (s observationTargetSer) Skip(bs []byte) (int, error) {
	_, n, err := s.Unmarshal(bs)
	return n, err
}

type feedbackTargetSer struct{}

func (feedbackTargetSer) Marshal(t core.FeedbackTarget, bs []byte) (n int) {
	n = ord.String.Marshal(t.FeedbackID, bs)
	n += ord.String.Marshal(string(t.TargetType), bs[n:])
	n += ord.String.Marshal(t.TargetID, bs[n:])
	n += raw.Float64.Marshal(t.RelevanceScore, bs[n:])
	n += ord.String.Marshal(string(t.Confidence), bs[n:])
	return n
}

func (feedbackTargetSer) Unmarshal(bs []byte) (t core.FeedbackTarget, n int, err error) {
	var (
		m int
		s string
	)
	if t.FeedbackID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if s, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return t, n + m, err
	}
	t.TargetType = core.EntityType(s)
	n += m
	if t.TargetID, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return t, n + m, err
	}
	n += m
	if t.RelevanceScore, m, err = raw.Float64.Unmarshal(bs[n:]); err != nil {
		return t, n + m, err
	}
	n += m
	s, m, err = ord.String.Unmarshal(bs[n:])
	t.Confidence = core.Confidence(s)
	return t, n + m, err
}

func (feedbackTargetSer) Size(t core.FeedbackTarget) (size int) {
	size = ord.String.Size(t.FeedbackID)
	size += ord.String.Size(string(t.TargetType))
	size += ord.String.Size(t.TargetID)
	size += raw.Float64.Size(t.RelevanceScore)
	size += ord.String.Size(string(t.Confidence))
	return size
}

func (s feedbackTargetSer) Skip(bs []byte) (int, error) {
	_, n, err := s.Unmarshal(bs)
	return n, err
}

// cellSer writes the kind tag followed by the payload of that kind only.
type cellSer struct{}

func (cellSer) Marshal(c core.Cell, bs []byte) (n int) {
	n = varint.Int.Marshal(int(c.Kind), bs)
	switch c.Kind {
	case core.CellString:
		n += ord.String.Marshal(c.Str, bs[n:])
	case core.CellNumber:
		n += raw.Float64.Marshal(c.Num, bs[n:])
	case core.CellTime:
		n += timeMUS.Marshal(c.Time, bs[n:])
	}
	return n
}

func (cellSer) Unmarshal(bs []byte) (c core.Cell, n int, err error) {
	var (
		m    int
		kind int
	)
	if kind, n, err = varint.Int.Unmarshal(bs); err != nil {
		return
	}
	c.Kind = core.CellKind(kind)
	switch c.Kind {
	case core.CellString:
		c.Str, m, err = ord.String.Unmarshal(bs[n:])
	case core.CellNumber:
		c.Num, m, err = raw.Float64.Unmarshal(bs[n:])
	case core.CellTime:
		c.Time, m, err = timeMUS.Unmarshal(bs[n:])
	}
	return c, n + m, err
}

func (cellSer) Size(c core.Cell) (size int) {
	size = varint.Int.Size(int(c.Kind))
	switch c.Kind {
	case core.CellString:
		size += ord.String.Size(c.Str)
	case core.CellNumber:
		size += raw.Float64.Size(c.Num)
	case core.CellTime:
		size += timeMUS.Size(c.Time)
	}
	return size
}

func (s cellSer) Skip(bs []byte) (int, error) {
	_, n, err := s.Unmarshal(bs)
	return n, err
}

type normalizedTableSer struct{}

func (normalizedTableSer) Marshal(t core.NormalizedTable, bs []byte) (n int) {
	n = ord.String.Marshal(t.TableType, bs)
	n += ord.String.Marshal(t.RegionID, bs[n:])
	n += ord.String.Marshal(t.RecordID, bs[n:])
	n += stringSliceSer.Marshal(t.Columns, bs[n:])
	n += rowSer.Marshal(t.Rows, bs[n:])
	return n
}

func (normalizedTableSer) Unmarshal(bs []byte) (t core.NormalizedTable, n int, err error) {
	var m int
	if t.TableType, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if t.RegionID, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return t, n + m, err
	}
	n += m
	if t.RecordID, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return t, n + m, err
	}
	n += m
	if t.Columns, m, err = stringSliceSer.Unmarshal(bs[n:]); err != nil {
		return t, n + m, err
	}
	n += m
	t.Rows, m, err = rowSer.Unmarshal(bs[n:])
	return t, n + m, err
}

func (normalizedTableSer) Size(t core.NormalizedTable) (size int) {
	size = ord.String.Size(t.TableType)
	size += ord.String.Size(t.RegionID)
	size += ord.String.Size(t.RecordID)
	size += stringSliceSer.Size(t.Columns)
	size += rowSer.Size(t.Rows)
	return size
}

func (s normalizedTableSer) Skip(bs []byte) (int, error) {
	_, n, err := s.Unmarshal(bs)
	return n, err
}

type ingestResultSer struct{}

func (ingestResultSer) Marshal(r core.IngestResult, bs []byte) (n int) {
	n = ord.String.Marshal(r.RecordID, bs)
	n += ord.String.Marshal(string(r.Status), bs[n:])
	n += ord.String.Marshal(r.TableType, bs[n:])
	n += varint.Int.Marshal(r.RowsLoaded, bs[n:])
	n += varint.Int64.Marshal(r.BytesProcessed, bs[n:])
	n += ord.Bool.Marshal(r.CacheHit, bs[n:])
	n += ord.String.Marshal(r.ErrorMessage, bs[n:])
	n += stringSliceSer.Marshal(r.Warnings, bs[n:])
	n += varint.Int64.Marshal(r.ProcessingTimeMS, bs[n:])
	n += timeMUS.Marshal(r.CompletedAt, bs[n:])
	return n
}

func (ingestResultSer) Unmarshal(bs []byte) (r core.IngestResult, n int, err error) {
	var (
		m int
		s string
	)
	if r.RecordID, n, err = ord.String.Unmarshal(bs); err != nil {
		return
	}
	if s, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	r.Status = core.IngestStatus(s)
	n += m
	if r.TableType, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	if r.RowsLoaded, m, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	if r.BytesProcessed, m, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	if r.CacheHit, m, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	if r.ErrorMessage, m, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	if r.Warnings, m, err = stringSliceSer.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	if r.ProcessingTimeMS, m, err = varint.Int64.Unmarshal(bs[n:]); err != nil {
		return r, n + m, err
	}
	n += m
	r.CompletedAt, m, err = timeMUS.Unmarshal(bs[n:])
	return r, n + m, err
}

func (ingestResultSer) Size(r core.IngestResult) (size int) {
	size = ord.String.Size(r.RecordID)
	size += ord.String.Size(string(r.Status))
	size += ord.String.Size(r.TableType)
	size += varint.Int.Size(r.RowsLoaded)
	size += varint.Int64.Size(r.BytesProcessed)
	size += ord.Bool.Size(r.CacheHit)
	size += ord.String.Size(r.ErrorMessage)
	size += stringSliceSer.Size(r.Warnings)
	size += varint.Int64.Size(r.ProcessingTimeMS)
	size += timeMUS.Size(r.CompletedAt)
	return size
}

func (s ingestResultSer) Skip(bs []byte) (int, error) {
	_, n, err := s.Unmarshal(bs)
	return n, err
}

// MarshalEntity serializes an Entity to bytes.
func MarshalEntity(e *core.Entity) []byte {
	buf := make([]byte, EntityMUS.Size(*e))
	EntityMUS.Marshal(*e, buf)
	return buf
}

// UnmarshalEntity deserializes an Entity from bytes.
func UnmarshalEntity(data []byte) (*core.Entity, error) {
	e, _, err := EntityMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// MarshalObservation serializes an Observation to bytes.
func MarshalObservation(o *core.Observation) []byte {
	buf := make([]byte, ObservationMUS.Size(*o))
	ObservationMUS.Marshal(*o, buf)
	return buf
}

// UnmarshalObservation deserializes an Observation from bytes.
func UnmarshalObservation(data []byte) (*core.Observation, error) {
	o, _, err := ObservationMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// MarshalObservationTargets serializes a target list to bytes.
func MarshalObservationTargets(targets []core.ObservationTarget) []byte {
	buf := make([]byte, ObservationTargetsMUS.Size(targets))
	ObservationTargetsMUS.Marshal(targets, buf)
	return buf
}

// UnmarshalObservationTargets deserializes a target list from bytes.
func UnmarshalObservationTargets(data []byte) ([]core.ObservationTarget, error) {
	targets, _, err := ObservationTargetsMUS.Unmarshal(data)
	return targets, err
}

// MarshalFeedbackTargets serializes a feedback target list to bytes.
func MarshalFeedbackTargets(targets []core.FeedbackTarget) []byte {
	buf := make([]byte, FeedbackTargetsMUS.Size(targets))
	FeedbackTargetsMUS.Marshal(targets, buf)
	return buf
}

// UnmarshalFeedbackTargets deserializes a feedback target list from bytes.
func UnmarshalFeedbackTargets(data []byte) ([]core.FeedbackTarget, error) {
	targets, _, err := FeedbackTargetsMUS.Unmarshal(data)
	return targets, err
}

// MarshalNormalizedTable serializes a NormalizedTable to bytes.
func MarshalNormalizedTable(t *core.NormalizedTable) []byte {
	buf := make([]byte, NormalizedTableMUS.Size(*t))
	NormalizedTableMUS.Marshal(*t, buf)
	return buf
}

// UnmarshalNormalizedTable deserializes a NormalizedTable from bytes.
func UnmarshalNormalizedTable(data []byte) (*core.NormalizedTable, error) {
	t, _, err := NormalizedTableMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// MarshalIngestResult serializes an IngestResult to bytes.
func MarshalIngestResult(r *core.IngestResult) []byte {
	buf := make([]byte, IngestResultMUS.Size(*r))
	IngestResultMUS.Marshal(*r, buf)
	return buf
}

// UnmarshalIngestResult deserializes an IngestResult from bytes.
func UnmarshalIngestResult(data []byte) (*core.IngestResult, error) {
	r, _, err := IngestResultMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &r, nil
}
