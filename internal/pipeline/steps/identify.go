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

// Identify asks the planner model to describe the component, then, with
// that description as its own previous turn, for a JSON plan.
func Identify(opts Options) pipeline.StageSpec {
	return pipeline.StageSpec{
		Name: "identify",
		Kind: pipeline.KindPlan,
		Gate: pipeline.CreateProps,
		Generate: func(ctx context.Context, gw llm.Gateway, pc *pipeline.PipelineContext) (string, error) {
			d := data(pc)
			first := (&conversation{}).userTemplate("describe", d)
			description, err := first.send(ctx, gw, "identify/describe", opts.PlannerModel, opts.PlannerTemperature)
			if err != nil {
				return "", err
			}

			d.OutputSchema = pipeline.PlanSchemaJSON()
			second := (&conversation{msgs: first.msgs}).
				assistant(description).
				userTemplate("plan", d)
			return second.send(ctx, gw, "identify/plan", opts.PlannerModel, opts.PlannerTemperature)
		},
	}
}
