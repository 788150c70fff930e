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
	"context"
)

// Agent decides what to do after a stage fails: retry or abort.
// The Agent only schedules; it never edits artifacts.
type Agent interface {
	OnStepFailure(
		ctx context.Context,
		spec StageSpec,
		st *PipelineState,
		result *StepResult,
		attempt int,
	) AgentDecision
}

// AgentDecision is the action to take after a stage failure.
type AgentDecision string

const (
	DecisionRetry AgentDecision = "retry"
	DecisionAbort AgentDecision = "abort"
)

// DefaultAgent retries recoverable failures up to MaxRetry extra attempts.
// The zero value aborts on the first failure.
type DefaultAgent struct {
	MaxRetry int
}

// OnStepFailure implements Agent.
func (a *DefaultAgent) OnStepFailure(
	ctx context.Context,
	spec StageSpec,
	st *PipelineState,
	result *StepResult,
	attempt int,
) AgentDecision {
	if ctx.Err() != nil {
		return DecisionAbort
	}
	if result != nil && !result.Recoverable {
		return DecisionAbort
	}
	if attempt > a.MaxRetry {
		return DecisionAbort
	}
	return DecisionRetry
}
