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

package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/cloudwego/full0/internal/log"
	"github.com/cloudwego/full0/internal/pipeline"
)

const wrapWidth = 80

// RenderMarkdown renders md for the terminal. On failure the input is
// returned unchanged.
func RenderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		log.Debug("markdown renderer: %v", err)
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		log.Debug("render markdown: %v", err)
		return md
	}
	return out
}

var _ pipeline.Reporter = (*Reporter)(nil)

// Reporter prints stage progress as styled lines.
type Reporter struct {
	Out      io.Writer
	ShowPlan bool
}

func (r *Reporter) StageStarted(name string) {
	fmt.Fprintln(r.Out, stepStyle.Render("● "+name+"..."))
}

func (r *Reporter) StageFinished(name string, res *pipeline.StepResult, elapsed time.Duration) {
	switch res.Status {
	case pipeline.StepOK:
		fmt.Fprintf(r.Out, "%s %s\n", okStyle.Render("✓ "+name), dimStyle.Render(elapsed.Round(time.Millisecond).String()))
	case pipeline.StepSkipped:
		fmt.Fprintln(r.Out, dimStyle.Render("- "+name+" skipped ("+res.Reason+")"))
	default:
		fmt.Fprintln(r.Out, errStyle.Render("✗ "+name+" failed"))
	}
}

func (r *Reporter) PlanReady(p *pipeline.Plan) {
	if !r.ShowPlan || p == nil {
		return
	}
	fmt.Fprint(r.Out, RenderMarkdown(p.Markdown()))
}

func (r *Reporter) Warn(msg string) {
	fmt.Fprintln(r.Out, warnStyle.Render("! "+msg))
}

// Failure prints the error and the last history entry of a failed run.
func Failure(w io.Writer, st *pipeline.PipelineState, err error) {
	fmt.Fprintln(w, errStyle.Render("Error: ")+err.Error())
	if st == nil {
		return
	}
	if rec, ok := st.LastRecord(); ok {
		fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("last stage: %s (attempt %d, %s)", rec.StepName, rec.Attempt, rec.Status)))
	}
}

// Completion is the message shown after a successful run. Database
// commands are listed only when a schema was generated.
func Completion(st *pipeline.PipelineState, devCommand string) string {
	var b strings.Builder
	b.WriteString(okStyle.Render("Done!") + "\n")
	if st != nil {
		for _, a := range st.Store.Present() {
			b.WriteString(dimStyle.Render("  "+a.Path) + "\n")
		}
	}
	b.WriteString("\nNext steps:\n")
	if st != nil && st.Store.Get(pipeline.KindSchema).IsPresent() {
		b.WriteString("  " + commandStyle.Render("npx drizzle-kit generate && npx drizzle-kit migrate") + "\n")
	}
	b.WriteString("  " + commandStyle.Render(devCommand) + "\n")
	return b.String()
}
