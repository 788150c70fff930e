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

// Package scaffold runs the component scaffolding command (for example
// `npx v0 add <id>` or `npx shadcn add <block>`) and finds the file it
// created.
package scaffold

import (
	"context"
	"fmt"
	"regexp"

	"github.com/cloudwego/full0/internal/log"
	"github.com/cloudwego/full0/internal/shell"
)

var createdComponent = regexp.MustCompile(`- components/([\w-]+\.tsx)`)

// ComponentPath extracts the first "- components/<name>.tsx" line of the
// scaffolder's output and returns the project-relative path.
func ComponentPath(output string) (string, error) {
	m := createdComponent.FindStringSubmatch(output)
	if m == nil {
		return "", fmt.Errorf("no main component found in the command output")
	}
	return "components/" + m[1], nil
}

type Scaffolder struct {
	Runner shell.Runner
	Dir    string
}

// Run executes command in the project directory and returns the path of
// the component it created.
func (s *Scaffolder) Run(ctx context.Context, command []string) (string, error) {
	if len(command) == 0 {
		return "", fmt.Errorf("no scaffolding command given")
	}
	out, err := s.Runner.Run(ctx, s.Dir, command[0], command[1:]...)
	if err != nil {
		return "", fmt.Errorf("scaffold: %w", err)
	}
	p, err := ComponentPath(out)
	if err != nil {
		return "", err
	}
	log.Info("scaffolded %s", p)
	return p, nil
}
