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
	"os"
	"path/filepath"
	"time"

	"github.com/cloudwego/full0/internal/log"
	"github.com/cloudwego/full0/internal/utils"
	"github.com/cloudwego/full0/llm"
)

// Reconciler makes all present artifacts consistent with each other,
// replacing their content in the store.
type Reconciler interface {
	Reconcile(ctx context.Context, store *Store, pc *PipelineContext) error
}

// Materializer writes artifacts below the project root.
type Materializer interface {
	FileWriter
	// Prepare creates every destination directory up front.
	Prepare(ctx context.Context, artifacts []Artifact) error
	Write(a Artifact) error
}

// Provisioner creates or selects the database and records its URL.
type Provisioner interface {
	Provision(ctx context.Context) error
}

// Installer adds the ORM packages to the project.
type Installer interface {
	Install(ctx context.Context) error
}

// Checker inspects a final artifact and returns human-readable warnings.
type Checker interface {
	Check(ctx context.Context, a Artifact) []string
}

// Reporter is told about progress, for the terminal.
type Reporter interface {
	StageStarted(name string)
	StageFinished(name string, result *StepResult, elapsed time.Duration)
	PlanReady(p *Plan)
	Warn(msg string)
}

// Pipeline runs the enabled stages in order, then reconciles and writes
// the results. Every stage's failure is handed to the Agent.
type Pipeline struct {
	Dir     string // project root
	Stages  []StageSpec
	Agent   Agent
	Gateway llm.Gateway
	Asker   Asker
	Until   *Gate // optional cap on the resolved gates

	Reconciler   Reconciler
	Materializer Materializer
	Provisioner  Provisioner
	Installer    Installer
	Checker      Checker
	Reporter     Reporter
}

// Run executes the whole flow for the component at componentPath, which is
// relative to Dir. The returned state is non-nil whenever the run got past
// reading the component, even on error.
func (p *Pipeline) Run(ctx context.Context, componentPath string) (*PipelineState, error) {
	if p.Agent == nil {
		p.Agent = &DefaultAgent{}
	}
	if p.Reporter == nil {
		p.Reporter = logReporter{}
	}
	if p.Asker == nil {
		p.Asker = AlwaysYes
	}

	source, err := os.ReadFile(filepath.Join(p.Dir, componentPath))
	if err != nil {
		return nil, utils.WrapError(err, "read component %s", componentPath)
	}
	if _, _, err := ComponentNames(componentPath); err != nil {
		return nil, err
	}

	last := Chain[len(Chain)-1]
	if p.Until != nil {
		last = *p.Until
	}
	gates, err := ResolveGatesUpTo(ctx, p.Asker, last)
	if err != nil {
		return nil, err
	}
	st := NewState(componentPath, gates)
	pc, err := NewPipelineContext(componentPath, string(source), st.Store)
	if err != nil {
		return st, err
	}
	pc.Reserve(ReservedPaths(p.Stages)...)
	log.Info("run %s: component %s, gates %s", st.RunID, pc.ComponentName, gates)

	if !gates.Enabled(CreateProps) {
		log.Info("no gate enabled, nothing to do")
		return st, nil
	}

	if gates.Enabled(CreateDatabase) && p.Provisioner != nil {
		if err := p.Provisioner.Provision(ctx); err != nil {
			return st, utils.WrapError(err, "provision database")
		}
	}

	runner := &StageRunner{Gateway: p.Gateway, Store: st.Store, Files: p.Materializer}
	for _, spec := range p.Stages {
		if err := p.runStage(ctx, runner, spec, st, pc); err != nil {
			return st, err
		}
		if spec.Kind == KindPlan && st.Store.Plan() != nil {
			p.Reporter.PlanReady(st.Store.Plan())
		}
	}

	if st.Store.Get(KindComponent).IsPresent() && p.Reconciler != nil {
		if err := p.reconcile(ctx, st, pc); err != nil {
			return st, err
		}
	}

	if p.Checker != nil {
		for _, a := range st.Store.Present() {
			for _, w := range p.Checker.Check(ctx, a) {
				p.Reporter.Warn(fmt.Sprintf("%s: %s", a.Path, w))
			}
		}
	}

	if err := p.materialize(ctx, st); err != nil {
		return st, err
	}

	if gates.Enabled(CreateSchema) && p.Installer != nil {
		if err := p.Installer.Install(ctx); err != nil {
			return st, utils.WrapError(err, "install dependencies")
		}
	}
	return st, nil
}

func (p *Pipeline) runStage(ctx context.Context, runner *StageRunner, spec StageSpec, st *PipelineState, pc *PipelineContext) error {
	attempt := 0
	for {
		attempt++
		p.Reporter.StageStarted(spec.Name)
		start := time.Now()
		result, err := runner.Execute(ctx, spec, pc)
		if err == nil && result != nil && result.Status != StepFailed {
			p.Reporter.StageFinished(spec.Name, result, time.Since(start))
			st.History = append(st.History, StepRecord{
				StepName: spec.Name,
				Attempt:  attempt,
				Status:   result.Status,
				Time:     time.Now(),
			})
			return nil
		}

		if result == nil {
			result = &StepResult{Status: StepFailed, Recoverable: true}
		}
		if result.Status != StepFailed {
			result = &StepResult{Status: StepFailed, Recoverable: false}
		}
		p.Reporter.StageFinished(spec.Name, result, time.Since(start))
		st.History = append(st.History, StepRecord{
			StepName: spec.Name,
			Attempt:  attempt,
			Status:   StepFailed,
			Error:    errStr(err),
			Time:     time.Now(),
		})

		switch p.Agent.OnStepFailure(ctx, spec, st, result, attempt) {
		case DecisionRetry:
			log.Info("stage %s failed (attempt %d), retrying: %v", spec.Name, attempt, err)
			continue
		default:
			if err != nil {
				return err
			}
			return fmt.Errorf("stage %s failed (abort)", spec.Name)
		}
	}
}

func (p *Pipeline) reconcile(ctx context.Context, st *PipelineState, pc *PipelineContext) error {
	const name = "reconcile"
	p.Reporter.StageStarted(name)
	start := time.Now()
	err := p.Reconciler.Reconcile(ctx, st.Store, pc)
	rec := StepRecord{StepName: name, Attempt: 1, Status: StepOK, Time: time.Now()}
	res := &StepResult{Status: StepOK}
	if err != nil {
		rec.Status, rec.Error = StepFailed, err.Error()
		res.Status = StepFailed
	}
	st.History = append(st.History, rec)
	p.Reporter.StageFinished(name, res, time.Since(start))
	return err
}

func (p *Pipeline) materialize(ctx context.Context, st *PipelineState) error {
	arts := st.Store.Present()
	if len(arts) == 0 {
		return nil
	}
	if p.Materializer == nil {
		return fmt.Errorf("no materializer configured")
	}
	if err := p.Materializer.Prepare(ctx, arts); err != nil {
		return err
	}
	for _, a := range arts {
		if err := p.Materializer.Write(a); err != nil {
			return err
		}
		log.Info("wrote %s (%s)", a.Path, a.Kind)
	}
	return nil
}

func errStr(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

type logReporter struct{}

func (logReporter) StageStarted(name string) { log.Debug("stage %s started", name) }

func (logReporter) StageFinished(name string, r *StepResult, elapsed time.Duration) {
	if r.Status == StepSkipped {
		log.Info("stage %s skipped: %s", name, r.Reason)
		return
	}
	log.Info("stage %s %s in %v", name, r.Status, elapsed.Round(time.Millisecond))
}

func (logReporter) PlanReady(p *Plan) { log.Debug("plan: %s", p.Overview) }

func (logReporter) Warn(msg string) { log.Info("warning: %s", msg) }
