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

package steps

import (
	"context"

	"github.com/cloudwego/full0/internal/pipeline"
	"github.com/cloudwego/full0/llm"
)

// Component refactors the scaffolded component so its static text becomes
// props. The result overwrites the scaffolded file.
func Component(opts Options) pipeline.StageSpec {
	return pipeline.StageSpec{
		Name:     "component",
		Kind:     pipeline.KindComponent,
		Gate:     pipeline.CreateProps,
		Requires: []pipeline.Kind{pipeline.KindPlan},
		Generate: func(ctx context.Context, gw llm.Gateway, pc *pipeline.PipelineContext) (string, error) {
			d := data(pc)
			plan := pc.Plan()
			c := (&conversation{}).
				system("component_system", d).
				user("React Component: " + pc.ComponentSource).
				assistant("Additional Instructions: " + plan.Component.Steps.String()).
				userTemplate("component_task", d)
			return c.send(ctx, gw, "component", opts.Model, opts.Temperature)
		},
		Destination: func(pc *pipeline.PipelineContext) string { return pc.ComponentPath },
	}
}

// Schema declares the Drizzle tables. Running it also writes the fixed
// drizzle.config.ts.
func Schema(opts Options) pipeline.StageSpec {
	return pipeline.StageSpec{
		Name:     "schema",
		Kind:     pipeline.KindSchema,
		Gate:     pipeline.CreateSchema,
		Requires: []pipeline.Kind{pipeline.KindPlan, pipeline.KindComponent},
		Generate: func(ctx context.Context, gw llm.Gateway, pc *pipeline.PipelineContext) (string, error) {
			d := data(pc)
			model := pc.Plan().DatabaseModel
			d.DatabaseSchema = model.DatabaseSchema.String()
			d.DrizzleORMModel = model.DrizzleORMModel.String()
			component, _ := pc.Artifact(pipeline.KindComponent)
			c := (&conversation{}).
				system("schema_system", d).
				user("React Component: " + component.Content).
				user("Overview: " + model.Overview).
				userTemplate("schema_model", d).
				userTemplate("schema_task", d)
			return c.send(ctx, gw, "schema", opts.Model, opts.Temperature)
		},
		Path:     SchemaPath,
		AuxFiles: drizzleConfig(),
	}
}

// Route writes the API route at the path the plan chose. A null path in
// the plan skips it.
func Route(opts Options) pipeline.StageSpec {
	return pipeline.StageSpec{
		Name:     "route",
		Kind:     pipeline.KindRoute,
		Gate:     pipeline.CreateFunction,
		Requires: []pipeline.Kind{pipeline.KindPlan, pipeline.KindComponent, pipeline.KindSchema},
		Applies: func(pc *pipeline.PipelineContext) bool {
			_, ok := pc.Plan().APIRoute.Path()
			return ok
		},
		Generate: func(ctx context.Context, gw llm.Gateway, pc *pipeline.PipelineContext) (string, error) {
			d := data(pc)
			logic := pc.Plan().APIRoute
			d.Overview = logic.Overview
			d.FilePath, _ = logic.Path()
			component, _ := pc.Artifact(pipeline.KindComponent)
			schema, _ := pc.Artifact(pipeline.KindSchema)
			c := (&conversation{}).
				system("route_system", d).
				userTemplate("route_overview", d).
				user("API Route instructions: " + logic.Steps.String()).
				user("React Component: " + component.Content).
				user("Drizzle ORM Schema: " + schema.Content).
				userTemplate("route_task", d)
			return c.send(ctx, gw, "route", opts.Model, opts.Temperature)
		},
		Destination: func(pc *pipeline.PipelineContext) string {
			p, _ := pc.Plan().APIRoute.Path()
			return p
		},
	}
}

// Seed writes a script that fills the tables with sample rows. Running it
// also writes drizzle.config.ts.
func Seed(opts Options) pipeline.StageSpec {
	return pipeline.StageSpec{
		Name:     "seed",
		Kind:     pipeline.KindSeed,
		Gate:     pipeline.CreateSeed,
		Requires: []pipeline.Kind{pipeline.KindSchema},
		Generate: func(ctx context.Context, gw llm.Gateway, pc *pipeline.PipelineContext) (string, error) {
			d := data(pc)
			schema, _ := pc.Artifact(pipeline.KindSchema)
			c := (&conversation{}).
				system("seed_system", d).
				user("Path to the Drizzle Schema: " + SchemaPath + "\n\nDrizzle Schema:\n" + schema.Content)
			if route, ok := pc.Artifact(pipeline.KindRoute); ok {
				c.user("API: " + route.Content)
			}
			c.userTemplate("seed_task", d)
			return c.send(ctx, gw, "seed", opts.Model, opts.Temperature)
		},
		Path:     SeedPath,
		AuxFiles: drizzleConfig(),
	}
}

// DataFetching writes the data-fetching component at the plan's path when
// that path is not the parent page.
func DataFetching(opts Options) pipeline.StageSpec {
	return dataFetchingStage("data-fetching", pipeline.KindDataFetching, false, opts)
}

// ParentComponent is DataFetching for the case where the plan puts the
// fetching logic in app/<parent>/page.tsx.
func ParentComponent(opts Options) pipeline.StageSpec {
	return dataFetchingStage("parent-component", pipeline.KindParentComponent, true, opts)
}

func dataFetchingStage(name string, kind pipeline.Kind, parentPage bool, opts Options) pipeline.StageSpec {
	return pipeline.StageSpec{
		Name:     name,
		Kind:     kind,
		Gate:     pipeline.CreateFunction,
		Requires: []pipeline.Kind{pipeline.KindPlan, pipeline.KindComponent},
		Applies: func(pc *pipeline.PipelineContext) bool {
			p, ok := pc.Plan().DataFetching.Path()
			return ok && (p == pc.ParentPagePath()) == parentPage
		},
		Generate: func(ctx context.Context, gw llm.Gateway, pc *pipeline.PipelineContext) (string, error) {
			d := data(pc)
			logic := pc.Plan().DataFetching
			d.FilePath, _ = logic.Path()
			component, _ := pc.Artifact(pipeline.KindComponent)
			c := (&conversation{}).
				system("data_fetching_system", d).
				user("Refactoring Steps: " + logic.Overview).
				user("React Component: " + component.Content).
				assistant("Additional Instructions: " + logic.Steps.String())
			if route, ok := pc.Artifact(pipeline.KindRoute); ok {
				c.user("Next.js 14 API: " + route.Content)
			}
			c.userTemplate("data_fetching_task", d)
			return c.send(ctx, gw, name, opts.Model, opts.Temperature)
		},
		Destination: func(pc *pipeline.PipelineContext) string {
			p, _ := pc.Plan().DataFetching.Path()
			return p
		},
	}
}
