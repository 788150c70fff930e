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

package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"
)

type Prompt interface {
	String() string
}

type TextPrompt string

func (p TextPrompt) String() string {
	return string(p)
}

func NewTextPrompt(content string) Prompt {
	return TextPrompt(content)
}

// TemplatePrompt renders one named block of the embedded template set.
type TemplatePrompt struct {
	Name string
	Data any
}

func (p TemplatePrompt) String() string {
	s, err := Render(p.Name, p.Data)
	if err != nil {
		panic(err)
	}
	return s
}

func NewTemplatePrompt(name string, data any) Prompt {
	return TemplatePrompt{Name: name, Data: data}
}

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed reference/*
var referenceFS embed.FS

//go:embed reference/nextjs_data_fetching.md
var NextJSDataFetching string

//go:embed reference/drizzle_schema_examples.md
var DrizzleSchemaExamples string

//go:embed reference/drizzle_data_types.md
var DrizzleDataTypes string

//go:embed reference/drizzle_query_examples.md
var DrizzleQueryExamples string

//go:embed reference/seed_example.md
var SeedExample string

//go:embed reference/api_route_example.md
var APIRouteExample string

// DrizzleConfig is written verbatim to drizzle.config.ts in the target project.
//
//go:embed reference/drizzle.config.ts
var DrizzleConfig string

var templates = template.Must(template.New("prompts").
	Funcs(template.FuncMap{"ref": Reference}).
	ParseFS(templateFS, "templates/*.tmpl"))

// Reference returns one embedded reference document by base name,
// e.g. "drizzle_schema_examples".
func Reference(name string) (string, error) {
	bs, err := referenceFS.ReadFile("reference/" + name + ".md")
	if err != nil {
		return "", fmt.Errorf("unknown reference %q", name)
	}
	return string(bs), nil
}

// Render executes a named template block with data.
func Render(name string, data any) (string, error) {
	if templates.Lookup(name) == nil {
		return "", fmt.Errorf("unknown prompt template %q", name)
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}
	return buf.String(), nil
}

// Data is the value every stage template is rendered with. Stages fill in
// the fields their blocks reference; the rest stay empty.
type Data struct {
	ComponentName       string
	ParentComponentName string
	ComponentSource     string

	// identification
	OutputSchema string

	// schema
	DatabaseSchema  string
	DrizzleORMModel string

	// route, data fetching
	Overview string
	FilePath string

	// reconciliation
	Labels string
	Keys   []string
}
