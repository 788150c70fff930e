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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripCodeFence_Variants(t *testing.T) {
	plain := "\"use client\"\n\nexport default function Card() {\n  return <div>hi</div>\n}"
	variants := append([]string{""}, FenceLanguages...)
	for _, lang := range variants {
		t.Run("lang="+lang, func(t *testing.T) {
			wrapped := "```" + lang + "\n" + plain + "\n```"
			assert.Equal(t, StripCodeFence(plain), StripCodeFence(wrapped))
			assert.Equal(t, plain, StripCodeFence("\n  "+wrapped+"\n\n"))
		})
	}
}

func TestStripCodeFence_Edges(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", " \n\t", ""},
		{"not wrapped", "  const a = 1\n", "const a = 1"},
		{"single line", "```const a = 1```", "const a = 1"},
		{"missing close", "```ts\nconst a = 1", "const a = 1"},
		{"crlf", "```tsx\r\nconst a = 1\r\n```", "const a = 1"},
		{"inner fences kept", "```md\na\n```ts\nb\n```\n```", "a\n```ts\nb\n```"},
		{"prose after fence is not an info string", "``` this is prose\nx\n```", "``` this is prose\nx\n```"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripCodeFence(tt.in))
		})
	}
}

func TestStripCodeFence_Idempotent(t *testing.T) {
	in := "```typescript\nexport const x = 1\n```"
	once := StripCodeFence(in)
	assert.Equal(t, once, StripCodeFence(once))
	assert.False(t, strings.HasPrefix(once, "```"))
}
