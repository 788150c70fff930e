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
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cloudwego/full0/internal/database"
	"github.com/cloudwego/full0/internal/pipeline"
)

// ErrCancelled is returned when the user quits a prompt with ctrl+c or esc.
var ErrCancelled = errors.New("prompt cancelled")

type confirmModel struct {
	question string
	answer   bool
	done     bool
	quit     bool
}

func newConfirmModel(q string) confirmModel {
	return confirmModel{question: q, answer: true}
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.answer, m.done = true, true
	case "n", "N":
		m.answer, m.done = false, true
	case "enter":
		m.done = true
	case "left", "right", "tab", "h", "l":
		m.answer = !m.answer
		return m, nil
	case "ctrl+c", "esc":
		m.quit = true
		return m, tea.Quit
	default:
		return m, nil
	}
	return m, tea.Quit
}

func (m confirmModel) View() string {
	if m.done {
		ans := "no"
		if m.answer {
			ans = "yes"
		}
		return fmt.Sprintf("%s %s\n", titleStyle.Render("?"), m.question) + dimStyle.Render("  "+ans) + "\n"
	}
	yes, no := "Yes", "No"
	if m.answer {
		yes = cursorStyle.Render("[Yes]")
	} else {
		no = cursorStyle.Render("[No]")
	}
	return fmt.Sprintf("%s %s\n  %s / %s %s\n", titleStyle.Render("?"), m.question, yes, no, dimStyle.Render("(y/n, enter for default)"))
}

type selectModel struct {
	title   string
	options []string
	cursor  int
	done    bool
	quit    bool
}

func (m selectModel) Init() tea.Cmd { return nil }

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "enter":
		m.done = true
		return m, tea.Quit
	case "ctrl+c", "esc", "q":
		m.quit = true
		return m, tea.Quit
	}
	return m, nil
}

func (m selectModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("?") + " " + m.title + "\n")
	if m.done {
		b.WriteString(dimStyle.Render("  "+m.options[m.cursor]) + "\n")
		return b.String()
	}
	for i, opt := range m.options {
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> "+opt) + "\n")
			continue
		}
		b.WriteString("  " + opt + "\n")
	}
	b.WriteString(dimStyle.Render("  (up/down to move, enter to select)") + "\n")
	return b.String()
}

var (
	_ pipeline.Asker    = (*Prompter)(nil)
	_ database.Selector = (*Prompter)(nil)
)

// Prompter asks questions on a terminal. With Yes set every question is
// answered yes without reading input.
type Prompter struct {
	In  io.Reader
	Out io.Writer
	Yes bool
}

func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	if p.Yes {
		return true, nil
	}
	final, err := p.run(ctx, newConfirmModel(question))
	if err != nil {
		return false, err
	}
	m := final.(confirmModel)
	if m.quit {
		return false, ErrCancelled
	}
	return m.answer, nil
}

func (p *Prompter) Select(ctx context.Context, title string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, fmt.Errorf("nothing to select")
	}
	if p.Yes {
		return 0, nil
	}
	final, err := p.run(ctx, selectModel{title: title, options: options})
	if err != nil {
		return -1, err
	}
	m := final.(selectModel)
	if m.quit {
		return -1, ErrCancelled
	}
	return m.cursor, nil
}

func (p *Prompter) run(ctx context.Context, m tea.Model) (tea.Model, error) {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if p.In != nil {
		opts = append(opts, tea.WithInput(p.In))
	}
	if p.Out != nil {
		opts = append(opts, tea.WithOutput(p.Out))
	}
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, err
	}
	return final, nil
}
