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

// Package steps declares the generation stages of a run, in order.
package steps

import (
	"context"

	"github.com/cloudwego/eino/schema"

	"github.com/cloudwego/full0/internal/pipeline"
	"github.com/cloudwego/full0/llm"
	"github.com/cloudwego/full0/llm/prompt"
)

const (
	SchemaPath = "db/schema.ts"
	SeedPath   = "db/seed.ts"
	ConfigPath = "drizzle.config.ts"
)

// Options selects models and sampling for the stages.
type Options struct {
	Model              string
	Temperature        float32
	PlannerModel       string
	PlannerTemperature float32
}

// Default returns every stage in execution order.
func Default(opts Options) []pipeline.StageSpec {
	return []pipeline.StageSpec{
		Identify(opts),
		Component(opts),
		Schema(opts),
		Route(opts),
		Seed(opts),
		DataFetching(opts),
		ParentComponent(opts),
	}
}

func drizzleConfig() []pipeline.AuxFile {
	return []pipeline.AuxFile{{Path: ConfigPath, Content: prompt.DrizzleConfig}}
}

func data(pc *pipeline.PipelineContext) prompt.Data {
	return prompt.Data{
		ComponentName:       pc.ComponentName,
		ParentComponentName: pc.ParentComponentName,
		ComponentSource:     pc.ComponentSource,
	}
}

// conversation accumulates role-tagged blocks. The first template error
// sticks and is returned by request.
type conversation struct {
	msgs []*schema.Message
	err  error
}

func (c *conversation) system(name string, d prompt.Data) *conversation {
	if s, ok := c.render(name, d); ok {
		c.msgs = append(c.msgs, schema.SystemMessage(s))
	}
	return c
}

func (c *conversation) userTemplate(name string, d prompt.Data) *conversation {
	if s, ok := c.render(name, d); ok {
		c.msgs = append(c.msgs, schema.UserMessage(s))
	}
	return c
}

func (c *conversation) user(text string) *conversation {
	c.msgs = append(c.msgs, schema.UserMessage(text))
	return c
}

func (c *conversation) assistant(text string) *conversation {
	c.msgs = append(c.msgs, schema.AssistantMessage(text, nil))
	return c
}

func (c *conversation) render(name string, d prompt.Data) (string, bool) {
	if c.err != nil {
		return "", false
	}
	s, err := prompt.Render(name, d)
	if err != nil {
		c.err = err
		return "", false
	}
	return s, true
}

func (c *conversation) send(ctx context.Context, gw llm.Gateway, stage, model string, temperature float32) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	return gw.Generate(ctx, &llm.Request{
		Stage:       stage,
		Messages:    c.msgs,
		Model:       model,
		Temperature: temperature,
	})
}
