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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairJSON_MissingKeyQuote(t *testing.T) {
	in := `{"mentions": [{ text": "Pani Novakova", kind": "person"}], "sentiment": 0.5}`
	var result analysis
	require.NoError(t, json.Unmarshal([]byte(repairJSON(in)), &result))
	require.Len(t, result.Mentions, 1)
	assert.Equal(t, "Pani Novakova", result.Mentions[0].Text)
	assert.Equal(t, "person", result.Mentions[0].Kind)
}

func TestRepairJSON_ValidInputUntouched(t *testing.T) {
	in := `{"mentions": [{"text": "3.B", "kind": "class"}], "sentiment": -0.2}`
	assert.Equal(t, in, repairJSON(in))
}

func TestSalvageMentions_TruncatedArray(t *testing.T) {
	// Response cut off mid-object by an output token limit. The complete
	// first mention must survive.
	in := `{"mentions":[{"text":"Pani Novakova","kind":"person"},{"text":"matemati`
	mentions := salvageMentions(in)
	require.Len(t, mentions, 1)
	assert.Equal(t, "Pani Novakova", mentions[0].Text)
	assert.Equal(t, "person", mentions[0].Kind)
}

func TestSalvageMentions_MultipleCompleteBeforeCut(t *testing.T) {
	in := `{"mentions": [
		{"text": "Jana Novakova", "kind": "teacher"},
		{"text": "ZS Kunratice", "kind": "school"},
		{"text": "3.B", "kind`
	mentions := salvageMentions(in)
	require.Len(t, mentions, 2)
	assert.Equal(t, "Jana Novakova", mentions[0].Text)
	assert.Equal(t, "teacher", mentions[0].Kind)
	assert.Equal(t, "ZS Kunratice", mentions[1].Text)
	assert.Equal(t, "school", mentions[1].Kind)
}

func TestSalvageMentions_BareArray(t *testing.T) {
	in := `[{"text": "Petr Svoboda", "kind": "person"}, {"text": "chemi`
	mentions := salvageMentions(in)
	require.Len(t, mentions, 1)
	assert.Equal(t, "Petr Svoboda", mentions[0].Text)
}

func TestSalvageMentions_EscapedQuotesInsideObject(t *testing.T) {
	in := `{"mentions":[{"text":"třída \"3.B\"","kind":"class"},{"text":"zbyt`
	mentions := salvageMentions(in)
	require.Len(t, mentions, 1)
	assert.Equal(t, `třída "3.B"`, mentions[0].Text)
	assert.Equal(t, "class", mentions[0].Kind)
}

func TestSalvageMentions_NothingComplete(t *testing.T) {
	assert.Empty(t, salvageMentions(`{"mentions":[{"text":"Pan`))
	assert.Empty(t, salvageMentions(`not json at all`))
	assert.Empty(t, salvageMentions(""))
}
