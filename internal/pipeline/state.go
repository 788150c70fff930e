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
	"time"

	"github.com/google/uuid"
)

// PipelineState is everything one run owns. It is discarded at exit.
type PipelineState struct {
	RunID         string
	ComponentPath string

	Store *Store

	History []StepRecord
}

func NewState(componentPath string, g Gates) *PipelineState {
	return &PipelineState{
		RunID:         uuid.NewString(),
		ComponentPath: componentPath,
		Store:         NewStore(g),
	}
}

// StepRecord is an immutable log entry for one stage attempt.
type StepRecord struct {
	StepName string
	Attempt  int
	Status   StepStatus
	Error    string
	Time     time.Time
}

// LastRecord returns the most recent history entry.
func (st *PipelineState) LastRecord() (StepRecord, bool) {
	if len(st.History) == 0 {
		return StepRecord{}, false
	}
	return st.History[len(st.History)-1], true
}

// Ran lists the stages that completed, in order.
func (st *PipelineState) Ran() []string {
	var names []string
	for _, rec := range st.History {
		if rec.Status == StepOK {
			names = append(names, rec.StepName)
		}
	}
	return names
}
