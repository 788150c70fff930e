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
	"fmt"
	"strings"
)

// ExtractJSONObject returns the first complete JSON object in response,
// after removing an enclosing code fence. Braces inside strings are ignored.
func ExtractJSONObject(response string) (json.RawMessage, error) {
	response = StripCodeFence(response)
	start := strings.IndexByte(response, '{')
	if start < 0 {
		return nil, fmt.Errorf("no JSON object in response")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(response); i++ {
		c := response[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}
		switch c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				raw := json.RawMessage(response[start : i+1])
				if !json.Valid(raw) {
					return nil, fmt.Errorf("malformed JSON object in response")
				}
				return raw, nil
			}
		}
	}
	return nil, fmt.Errorf("unterminated JSON object in response")
}
