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

package shell

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Call is one recorded command.
type Call struct {
	Dir  string
	Name string
	Args []string
}

func (c Call) String() string {
	return strings.TrimSpace(c.Name + " " + strings.Join(c.Args, " "))
}

// FakeRunner answers commands from a table keyed by the command line. It
// is meant for tests of packages that drive CLIs.
type FakeRunner struct {
	Outputs map[string]string
	Errors  map[string]error
	Missing map[string]bool // binaries LookPath does not find
	Calls   []Call
}

func (f *FakeRunner) Run(_ context.Context, dir, name string, args ...string) (string, error) {
	c := Call{Dir: dir, Name: name, Args: args}
	f.Calls = append(f.Calls, c)
	if err := f.Errors[c.String()]; err != nil {
		return "", err
	}
	return f.Outputs[c.String()], nil
}

func (f *FakeRunner) LookPath(name string) (string, error) {
	if f.Missing[name] {
		return "", fmt.Errorf("%s: %w", name, exec.ErrNotFound)
	}
	return "/usr/bin/" + name, nil
}
