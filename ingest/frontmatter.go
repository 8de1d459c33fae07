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


package ingest

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the arrival-metadata envelope prepended to every uploaded
// record as a YAML block between "---" delimiters.
type Frontmatter struct {
	FileID       string `yaml:"file_id"`
	RegionID     string `yaml:"region_id"`
	TextURI      string `yaml:"text_uri"`
	EventID      string `yaml:"event_id"`
	FileCategory string `yaml:"file_category"`

	Original   OriginalMeta   `yaml:"original"`
	Extraction ExtractionMeta `yaml:"extraction"`
	Content    ContentMeta    `yaml:"content"`
	Document   DocumentMeta   `yaml:"document"`
	Audio      AudioMeta      `yaml:"audio"`
}

// OriginalMeta describes the uploaded file before extraction.
type OriginalMeta struct {
	Filename    string `yaml:"filename"`
	ContentType string `yaml:"content_type"`
	SizeBytes   int64  `yaml:"size_bytes"`
	Bucket      string `yaml:"bucket"`
	ObjectPath  string `yaml:"object_path"`
	UploadedAt  string `yaml:"uploaded_at"`
}

// ExtractionMeta describes how text was extracted upstream.
type ExtractionMeta struct {
	Method     string `yaml:"method"`
	Timestamp  string `yaml:"timestamp"`
	Success    bool   `yaml:"success"`
	DurationMS int64  `yaml:"duration_ms"`
}

// ContentMeta carries text metrics computed upstream.
type ContentMeta struct {
	TextLength     int `yaml:"text_length"`
	WordCount      int `yaml:"word_count"`
	CharacterCount int `yaml:"character_count"`
}

// DocumentMeta carries document-specific metrics.
type DocumentMeta struct {
	PageCount  int `yaml:"page_count"`
	SheetCount int `yaml:"sheet_count"`
	SlideCount int `yaml:"slide_count"`
}

// AudioMeta carries transcription-specific metrics.
type AudioMeta struct {
	DurationSeconds float64 `yaml:"duration_seconds"`
	SampleRate      int     `yaml:"sample_rate"`
	Channels        int     `yaml:"channels"`
	Confidence      float64 `yaml:"confidence"`
	Language        string  `yaml:"language"`
}

const frontmatterDelimiter = "---\n"

// ParseFrontmatter splits a raw record into its metadata envelope and the
// remaining text. file_id and region_id are required; a record without a
// usable envelope cannot be ingested at all.
func ParseFrontmatter(raw string) (*Frontmatter, string, error) {
	if !strings.HasPrefix(raw, frontmatterDelimiter) {
		return nil, raw, ErrMissingFrontmatter
	}

	body := raw[len(frontmatterDelimiter):]
	yamlPart, text, found := strings.Cut(body, "\n---\n")
	if !found {
		// Allow an envelope that ends the record
		yamlPart, found = strings.CutSuffix(body, "\n---")
		if !found {
			return nil, raw, fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontmatter)
		}
		text = ""
	}

	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(yamlPart), &fm); err != nil {
		return nil, raw, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
	}

	if fm.FileID == "" {
		return nil, raw, fmt.Errorf("%w: file_id", ErrMissingMetadataField)
	}
	if fm.RegionID == "" {
		return nil, raw, fmt.Errorf("%w: region_id", ErrMissingMetadataField)
	}

	return &fm, strings.TrimSpace(text), nil
}

// ContentType returns the declared MIME type, defaulting to plain text.
func (f *Frontmatter) ContentType() string {
	if f.Original.ContentType == "" {
		return "text/plain"
	}
	return f.Original.ContentType
}

// tabularContentTypes are the declared types routed to the tabular path.
var tabularContentTypes = map[string]bool{
	"text/csv":                      true,
	"text/tab-separated-values":     true,
	"application/json":              true,
	"application/vnd.ms-excel":      true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
}

// freeFormCategories are declared categories that never carry tables.
var freeFormCategories = map[string]bool{
	"audio":    true,
	"video":    true,
	"document": true,
	"text":     true,
}

// IsTabular reports whether the record should be attempted as tabular data.
// Unknown declared types are also attempted, since uploads often arrive
// with a generic content type; the tabular path degrades the record to
// free-form when loading shows it is not a table. Extracted document text
// and transcripts stay free-form.
func (f *Frontmatter) IsTabular() bool {
	if f.FileCategory == "tabular" {
		return true
	}
	if freeFormCategories[f.FileCategory] {
		return false
	}

	ct := f.ContentType()
	if tabularContentTypes[ct] {
		return true
	}
	if (ct == "text/plain" || ct == "application/pdf") && f.Extraction.Method != "" {
		return false
	}
	if strings.HasPrefix(ct, "audio/") || strings.HasPrefix(ct, "video/") {
		return false
	}
	return true
}

// AudioDurationMS returns the transcript duration in milliseconds.
func (f *Frontmatter) AudioDurationMS() int64 {
	return int64(f.Audio.DurationSeconds * 1000)
}
