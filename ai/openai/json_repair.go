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


package openai

import (
	"encoding/json"
	"strings"
)

// repairJSON fixes the one malformation local models produce with any
// regularity: a key missing its opening quote, e.g. `{ kind": "person"}`.
// Anything else passes through untouched.
func repairJSON(s string) string {
	in := []rune(s)
	out := make([]rune, 0, len(in)+16)

	for i := 0; i < len(in); {
		ch := in[i]
		out = append(out, ch)
		i++
		if ch != '{' && ch != ',' {
			continue
		}

		for i < len(in) && (in[i] == ' ' || in[i] == '\n' || in[i] == '\t') {
			out = append(out, in[i])
			i++
		}

		// A key should open with a quote here. A bare letter means the
		// quote may be missing; scan ahead for the `":` that confirms it.
		if i >= len(in) || in[i] == '"' || !isLetter(in[i]) {
			continue
		}

		start := i
		for i < len(in) && (isLetter(in[i]) || in[i] == '_' || in[i] == ' ') {
			i++
		}

		if i+1 < len(in) && in[i] == '"' && in[i+1] == ':' {
			// Reinsert the opening quote, trimming stray edge spaces
			// inside the key.
			out = append(out, '"')
			for j := start; j < i; j++ {
				if in[j] != ' ' || (j > start && j < i-1) {
					out = append(out, in[j])
				}
			}
		} else {
			out = append(out, in[start:i]...)
		}
	}

	return string(out)
}

// salvageMentions recovers the complete mention objects from a response
// that was cut off mid-array, which happens when a model hits its output
// token limit. Everything before the cut is still usable: each complete
// `{...}` element is brace-matched (quote and escape aware) and parsed
// on its own; the truncated trailing element is discarded.
func salvageMentions(s string) []mention {
	body := strings.TrimSpace(s)
	if idx := strings.Index(body, `"mentions"`); idx >= 0 {
		rest := body[idx+len(`"mentions"`):]
		open := strings.IndexByte(rest, '[')
		if open < 0 {
			return nil
		}
		body = rest[open+1:]
	} else {
		body = strings.TrimPrefix(body, "[")
	}

	var mentions []mention
	i := 0
	for i < len(body) {
		c := body[i]
		if c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == ',' {
			i++
			continue
		}
		if c == ']' {
			break
		}
		if c != '{' {
			i++
			continue
		}
		end := matchBrace(body, i)
		if end < 0 {
			// Truncation point, nothing complete past here.
			break
		}
		var m mention
		if err := json.Unmarshal([]byte(body[i:end]), &m); err == nil && m.Text != "" && m.Kind != "" {
			mentions = append(mentions, m)
		}
		i = end
	}
	return mentions
}

// matchBrace returns the index one past the brace closing the object that
// opens at start, or -1 when the object is cut off.
func matchBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for j := start; j < len(s); j++ {
		c := s[j]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return j + 1
			}
		}
	}
	return -1
}
