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
	"regexp"
	"strings"
)

const fence = "```"

// FenceLanguages are the info strings the generation service is known to
// put after an opening fence.
var FenceLanguages = []string{"tsx", "ts", "typescript", "javascript", "js", "jsx", "json"}

var fenceInfo = regexp.MustCompile(`^[A-Za-z0-9_+.-]*$`)

// StripCodeFence removes one enclosing markdown code fence, with or without
// an info string, and surrounding whitespace. Text that is not wrapped is
// only trimmed.
func StripCodeFence(response string) string {
	response = strings.TrimSpace(response)
	if !strings.HasPrefix(response, fence) {
		return response
	}

	body := strings.TrimPrefix(response, fence)
	nl := strings.IndexByte(body, '\n')
	if nl < 0 {
		// single line: ```code``` or a bare opening fence
		body = strings.TrimSuffix(body, fence)
		return strings.TrimSpace(body)
	}
	info := strings.TrimSpace(body[:nl])
	if !fenceInfo.MatchString(info) {
		return response
	}
	body = body[nl+1:]
	body = strings.TrimRight(body, " \t\r\n")
	body = strings.TrimSuffix(body, fence)
	return strings.TrimSpace(body)
}
