/**
 * Copyright 2025 ByteDance Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"bare", `{"a":"b"}`, `{"a":"b"}`, false},
		{"fenced", "```json\n{\"a\":\"b\"}\n```", `{"a":"b"}`, false},
		{"leading prose", "Here you go:\n{\"a\":{\"b\":1}} thanks", `{"a":{"b":1}}`, false},
		{"braces in strings", `{"code":"function f() { return '}' }"}`, `{"code":"function f() { return '}' }"}`, false},
		{"escaped quote", `{"q":"say \"}\" now"}`, `{"q":"say \"}\" now"}`, false},
		{"no object", "nothing here", "", true},
		{"unterminated", `{"a": {"b": 1}`, "", true},
		{"malformed", `{a: 1}`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := ExtractJSONObject(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(raw))
			assert.True(t, json.Valid(raw))
		})
	}
}
