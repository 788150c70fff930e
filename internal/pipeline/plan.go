// Copyright 2025 ByteDance Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/cloudwego/full0/llm"
)

// Plan is the identification stage's output: how the component should be
// wired to a database, a route and data fetching.
type Plan struct {
	Overview      string           `json:"overview" jsonschema:"description=What the component does and what must become dynamic"`
	DatabaseModel DatabaseModel    `json:"database-model-definition"`
	Component     ComponentChanges `json:"modifications-on-main-react-component"`
	APIRoute      Logic            `json:"api-route-logic"`
	DataFetching  Logic            `json:"data-fetching-logic"`
	Summary       string           `json:"summary"`
}

type DatabaseModel struct {
	Overview        string `json:"overview"`
	DatabaseSchema  Text   `json:"database-schema"`
	DrizzleORMModel Text   `json:"drizzle-orm-model"`
}

type ComponentChanges struct {
	Overview string `json:"overview"`
	Steps    Text   `json:"steps"`
}

// Logic describes one optional file. A nil FilePath means the file is not
// needed, whatever the gates say.
type Logic struct {
	Overview string  `json:"overview"`
	FilePath *string `json:"file-path" jsonschema:"nullable"`
	Steps    Text    `json:"steps"`
}

// Path returns the cleaned, project-relative file path.
func (l Logic) Path() (string, bool) {
	if l.FilePath == nil {
		return "", false
	}
	p := strings.TrimSpace(*l.FilePath)
	p = strings.TrimPrefix(p, "@/")
	p = strings.TrimLeft(p, "/")
	if p == "" || p == "null" {
		return "", false
	}
	return path.Clean(p), true
}

// Text is prose the model may send as a string or as a list of strings.
// Lists are joined line by line; any other JSON value is kept verbatim.
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*t = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	case len(b) > 0 && b[0] == '[':
		var items []json.RawMessage
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		lines := make([]string, 0, len(items))
		for _, item := range items {
			var s string
			if json.Unmarshal(item, &s) == nil {
				lines = append(lines, s)
			} else {
				lines = append(lines, string(item))
			}
		}
		*t = Text(strings.Join(lines, "\n"))
	default:
		*t = Text(b)
	}
	return nil
}

func (Text) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string"}
}

func (t Text) String() string { return string(t) }

var (
	planSchemaOnce sync.Once
	planSchema     *jsonschema.Schema
)

// PlanSchema is the JSON Schema of Plan. It drives both the identification
// prompt and the required-key check in ParsePlan.
func PlanSchema() *jsonschema.Schema {
	planSchemaOnce.Do(func() {
		r := &jsonschema.Reflector{
			DoNotReference:             true,
			ExpandedStruct:             true,
			AllowAdditionalProperties:  true,
			RequiredFromJSONSchemaTags: false,
		}
		planSchema = r.Reflect(&Plan{})
	})
	return planSchema
}

// PlanSchemaJSON renders PlanSchema for inclusion in a prompt.
func PlanSchemaJSON() string {
	bs, err := json.MarshalIndent(PlanSchema(), "", "  ")
	if err != nil {
		panic(err)
	}
	return string(bs)
}

// ParsePlan decodes the identification response. Every key the schema
// marks as required must be present, at every level; violations are
// reported as a ContractViolation.
func ParsePlan(response string) (*Plan, error) {
	raw, err := llm.ExtractJSONObject(response)
	if err != nil {
		return nil, &ContractViolation{Contract: "identification", Err: err}
	}
	if missing := missingKeys(raw, PlanSchema(), ""); len(missing) > 0 {
		return nil, &ContractViolation{Contract: "identification", Missing: missing}
	}
	var p Plan
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, &ContractViolation{Contract: "identification", Err: err}
	}
	return &p, nil
}

// missingKeys walks object schemas and collects required keys absent from
// raw, as dotted paths.
func missingKeys(raw json.RawMessage, s *jsonschema.Schema, prefix string) []string {
	if s == nil || s.Type != "object" {
		return nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		if prefix == "" {
			return []string{"<root object>"}
		}
		return []string{strings.TrimSuffix(prefix, ".") + " (not an object)"}
	}

	var missing []string
	for _, key := range s.Required {
		v, ok := obj[key]
		if !ok {
			missing = append(missing, prefix+key)
			continue
		}
		if s.Properties == nil {
			continue
		}
		if child, ok := s.Properties.Get(key); ok {
			missing = append(missing, missingKeys(v, child, prefix+key+".")...)
		}
	}
	sort.Strings(missing)
	return missing
}

// Markdown renders the plan for the terminal.
func (p *Plan) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Plan\n\n%s\n\n", p.Overview)
	fmt.Fprintf(&b, "## Database\n\n%s\n\n", p.DatabaseModel.Overview)
	fmt.Fprintf(&b, "## Component\n\n%s\n\n", p.Component.Overview)
	writeLogic(&b, "API route", p.APIRoute)
	writeLogic(&b, "Data fetching", p.DataFetching)
	fmt.Fprintf(&b, "## Summary\n\n%s\n", p.Summary)
	return b.String()
}

func writeLogic(b *strings.Builder, title string, l Logic) {
	fmt.Fprintf(b, "## %s\n\n%s\n\n", title, l.Overview)
	if p, ok := l.Path(); ok {
		fmt.Fprintf(b, "File: `%s`\n\n", p)
	} else {
		b.WriteString("_Not needed._\n\n")
	}
}
