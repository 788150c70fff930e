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
	"fmt"
	"path"
	"strings"

	"github.com/cloudwego/full0/internal/log"
	"github.com/cloudwego/full0/llm"
)

// PipelineContext is the read-only input of every stage.
type PipelineContext struct {
	ComponentPath       string // e.g. components/pricing-card.tsx
	ComponentName       string // e.g. pricing-card
	ParentComponentName string // e.g. pricing-cards
	ComponentSource     string

	store    *Store
	reserved []string
}

// NewPipelineContext derives the component names from its path.
func NewPipelineContext(componentPath, source string, store *Store) (*PipelineContext, error) {
	name, parent, err := ComponentNames(componentPath)
	if err != nil {
		return nil, err
	}
	return &PipelineContext{
		ComponentPath:       path.Clean(componentPath),
		ComponentName:       name,
		ParentComponentName: parent,
		ComponentSource:     source,
		store:               store,
	}, nil
}

// ComponentNames returns the file's base name without .tsx and the parent
// name, which is the plural formed by appending "s".
func ComponentNames(componentPath string) (name, parent string, err error) {
	base := path.Base(strings.ReplaceAll(componentPath, "\\", "/"))
	if !strings.HasSuffix(base, ".tsx") || base == ".tsx" {
		return "", "", fmt.Errorf("component path %q is not a .tsx file", componentPath)
	}
	name = strings.TrimSuffix(base, ".tsx")
	return name, name + "s", nil
}

// Plan is the identification result, or nil before it ran.
func (pc *PipelineContext) Plan() *Plan {
	if pc.store == nil {
		return nil
	}
	return pc.store.Plan()
}

// Artifact returns a previously produced artifact.
func (pc *PipelineContext) Artifact(kind Kind) (Artifact, bool) {
	if pc.store == nil {
		return Artifact{}, false
	}
	slot := pc.store.Get(kind)
	return slot.Artifact, slot.IsPresent()
}

// Reserve marks paths that plan-chosen destinations may not use.
func (pc *PipelineContext) Reserve(paths ...string) {
	for _, p := range paths {
		if p != "" {
			pc.reserved = append(pc.reserved, path.Clean(p))
		}
	}
}

// ParentPagePath is where the parent component lives in the app router.
func (pc *PipelineContext) ParentPagePath() string {
	return path.Join("app", pc.ParentComponentName, "page.tsx")
}

// AuxFile is fixed content a stage persists when it runs.
type AuxFile struct {
	Path    string
	Content string
}

// StageSpec declares one stage. Generate builds the request(s) from the
// context and returns the raw response text; it must not touch the store.
type StageSpec struct {
	Name     string
	Kind     Kind
	Gate     Gate
	Requires []Kind

	// Applies reports whether the stage is needed at all. nil means always.
	Applies  func(pc *PipelineContext) bool
	Generate func(ctx context.Context, gw llm.Gateway, pc *PipelineContext) (string, error)
	// Path is a fixed destination. Destination, when set, takes precedence.
	Path        string
	Destination func(pc *PipelineContext) string
	AuxFiles    []AuxFile
}

// ReservedPaths lists the fixed destinations and aux files of specs.
func ReservedPaths(specs []StageSpec) []string {
	var paths []string
	for _, spec := range specs {
		if spec.Path != "" {
			paths = append(paths, spec.Path)
		}
		for _, f := range spec.AuxFiles {
			paths = append(paths, f.Path)
		}
	}
	return paths
}

// StepStatus is the outcome of a stage run.
type StepStatus string

const (
	StepOK      StepStatus = "ok"
	StepFailed  StepStatus = "failed"
	StepSkipped StepStatus = "skipped"
)

// StepResult is what the runner hands back to the orchestrator and Agent.
type StepResult struct {
	Status      StepStatus
	Artifact    *Artifact
	Reason      string // why a stage was skipped
	Recoverable bool
}

// FileWriter persists fixed files outside the artifact flow.
type FileWriter interface {
	WriteFile(rel, content string) error
}

// StageRunner executes one StageSpec against the store.
type StageRunner struct {
	Gateway llm.Gateway
	Store   *Store
	Files   FileWriter
}

// Execute runs spec if its gate is enabled and it applies, and stores the
// normalized result. Failures come back with a typed error.
func (r *StageRunner) Execute(ctx context.Context, spec StageSpec, pc *PipelineContext) (*StepResult, error) {
	if !r.Store.Gates().Enabled(spec.Gate) {
		return &StepResult{Status: StepSkipped, Reason: spec.Gate.String() + " disabled"}, nil
	}
	for _, kind := range spec.Requires {
		ok := r.Store.Get(kind).IsPresent()
		if kind == KindPlan {
			ok = r.Store.Plan() != nil
		}
		if !ok {
			return &StepResult{Status: StepFailed}, &DependencyMissing{Stage: spec.Name, Kind: kind}
		}
	}
	if spec.Applies != nil && !spec.Applies(pc) {
		return &StepResult{Status: StepSkipped, Reason: "not applicable"}, nil
	}

	log.Debug("[%s] generating", spec.Name)
	text, err := spec.Generate(ctx, r.Gateway, pc)
	if err != nil {
		return &StepResult{Status: StepFailed, Recoverable: ctx.Err() == nil}, &ExternalServiceError{Stage: spec.Name, Err: err}
	}

	if spec.Kind == KindPlan {
		plan, err := ParsePlan(text)
		if err != nil {
			return &StepResult{Status: StepFailed, Recoverable: true}, err
		}
		if err := checkPlanPaths(plan, pc); err != nil {
			return &StepResult{Status: StepFailed, Recoverable: true}, err
		}
		r.Store.SetPlan(plan)
		return &StepResult{Status: StepOK}, nil
	}

	dest := spec.Path
	if spec.Destination != nil {
		dest = spec.Destination(pc)
	}
	for _, other := range r.Store.Present() {
		if other.Path != "" && path.Clean(other.Path) == path.Clean(dest) {
			return &StepResult{Status: StepFailed}, &ContractViolation{
				Contract: "identification",
				Err:      fmt.Errorf("stage %s: destination %s is already taken by %s", spec.Name, dest, other.Kind),
			}
		}
	}
	art := NewArtifact(spec.Kind, dest, llm.StripCodeFence(text))
	if err := r.Store.Put(art); err != nil {
		return &StepResult{Status: StepFailed}, err
	}
	for _, f := range spec.AuxFiles {
		if r.Files == nil {
			return &StepResult{Status: StepFailed, Artifact: &art}, fmt.Errorf("stage %s: no writer for %s", spec.Name, f.Path)
		}
		if err := r.Files.WriteFile(f.Path, f.Content); err != nil {
			return &StepResult{Status: StepFailed, Artifact: &art}, err
		}
		log.Debug("[%s] wrote %s", spec.Name, f.Path)
	}
	return &StepResult{Status: StepOK, Artifact: &art}, nil
}

// checkPlanPaths rejects plan-chosen destinations that would overwrite the
// component, a fixed output, or each other.
func checkPlanPaths(plan *Plan, pc *PipelineContext) error {
	taken := map[string]string{pc.ComponentPath: "the component"}
	for _, p := range pc.reserved {
		taken[p] = "a generated file"
	}
	for _, l := range []struct {
		key   string
		logic Logic
	}{
		{"api-route-logic", plan.APIRoute},
		{"data-fetching-logic", plan.DataFetching},
	} {
		p, ok := l.logic.Path()
		if !ok {
			continue
		}
		if owner, dup := taken[p]; dup {
			return &ContractViolation{
				Contract: "identification",
				Err:      fmt.Errorf("%s.file-path %s collides with %s", l.key, p, owner),
			}
		}
		taken[p] = l.key
	}
	return nil
}
