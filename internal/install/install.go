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

// Package install adds the ORM packages the generated code imports.
package install

import (
	"context"
	"fmt"

	"github.com/cloudwego/full0/internal/log"
	"github.com/cloudwego/full0/internal/pipeline"
	"github.com/cloudwego/full0/internal/shell"
)

// Packages are installed whenever a schema is generated.
var Packages = []string{"drizzle-kit", "drizzle-orm", "@neondatabase/serverless"}

var _ pipeline.Installer = (*Installer)(nil)

// Installer prefers bun and falls back to npm when bun is not on PATH.
type Installer struct {
	Runner shell.Runner
	Dir    string
	Skip   bool
}

// Manager returns the package manager binary to use.
func (i *Installer) Manager() (string, error) {
	if _, err := i.Runner.LookPath("bun"); err == nil {
		return "bun", nil
	}
	if _, err := i.Runner.LookPath("npm"); err == nil {
		log.Debug("bun not found, falling back to npm")
		return "npm", nil
	}
	return "", fmt.Errorf("neither bun nor npm found in PATH")
}

func (i *Installer) Install(ctx context.Context) error {
	if i.Skip {
		log.Info("skipping install of %v", Packages)
		return nil
	}
	bin, err := i.Manager()
	if err != nil {
		return err
	}
	log.Info("installing %v with %s...", Packages, bin)
	args := append([]string{"install"}, Packages...)
	if _, err := i.Runner.Run(ctx, i.Dir, bin, args...); err != nil {
		return fmt.Errorf("install packages: %w", err)
	}
	return nil
}

// DevCommand is the command that starts the dev server with the same
// package manager, or "npm run dev" when none is found.
func (i *Installer) DevCommand() string {
	bin, err := i.Manager()
	if err != nil {
		bin = "npm"
	}
	return bin + " run dev"
}
