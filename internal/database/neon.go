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

// Package database provisions a Neon Postgres database through neonctl and
// records its connection string in the project's .env file.
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/full0/internal/log"
	"github.com/cloudwego/full0/internal/pipeline"
	"github.com/cloudwego/full0/internal/shell"
)

const EnvFile = ".env"

// Project is a Neon project as listed by neonctl.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Selector lets the user pick one of several options.
type Selector interface {
	Select(ctx context.Context, title string, options []string) (int, error)
}

var _ pipeline.Provisioner = (*Neon)(nil)

type Neon struct {
	Runner   shell.Runner
	Dir      string
	Asker    pipeline.Asker
	Selector Selector
	Files    pipeline.FileWriter
}

// Provision asks whether to reuse an existing project, creates or selects
// one, and writes DATABASE_URL to .env.
func (n *Neon) Provision(ctx context.Context) error {
	existing, err := n.Asker.Confirm(ctx, "Do you want to use an existing database?")
	if err != nil {
		return err
	}

	var uri string
	if existing {
		uri, err = n.selectExisting(ctx)
	} else {
		log.Info("creating database...")
		uri, err = n.CreateProject(ctx)
	}
	if err != nil {
		return err
	}
	if err := n.Files.WriteFile(EnvFile, "DATABASE_URL="+uri); err != nil {
		return err
	}
	log.Info("database URL written to %s", EnvFile)
	return nil
}

func (n *Neon) selectExisting(ctx context.Context) (string, error) {
	projects, err := n.ListProjects(ctx)
	if err != nil {
		return "", err
	}
	if len(projects) == 0 {
		return "", fmt.Errorf("no existing Neon projects found")
	}
	options := make([]string, len(projects))
	for i, p := range projects {
		options[i] = fmt.Sprintf("%s (ID: %s)", p.Name, p.ID)
	}
	idx, err := n.Selector.Select(ctx, "Select the project you want to use:", options)
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(projects) {
		return "", fmt.Errorf("invalid project selection")
	}
	log.Info("selected project: %s", projects[idx].Name)
	return n.ConnectionURI(ctx, projects[idx].ID)
}

type createOutput struct {
	ConnectionURIs []struct {
		ConnectionURI string `json:"connection_uri"`
	} `json:"connection_uris"`
}

// CreateProject creates a new project and returns its connection string.
func (n *Neon) CreateProject(ctx context.Context) (string, error) {
	out, err := n.neonctl(ctx, "projects", "create", "-o", "json", "--quiet")
	if err != nil {
		return "", fmt.Errorf("create Neon project: %w", err)
	}
	var res createOutput
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		return "", fmt.Errorf("decode neonctl output: %w", err)
	}
	if len(res.ConnectionURIs) == 0 || res.ConnectionURIs[0].ConnectionURI == "" {
		return "", fmt.Errorf("no connection URI in neonctl output")
	}
	return res.ConnectionURIs[0].ConnectionURI, nil
}

// ListProjects returns the projects of the signed-in account. neonctl
// prints either a bare array or an object with a "projects" field,
// depending on its version.
func (n *Neon) ListProjects(ctx context.Context) ([]Project, error) {
	out, err := n.neonctl(ctx, "projects", "list", "-o", "json")
	if err != nil {
		return nil, fmt.Errorf("list Neon projects: %w", err)
	}
	out = strings.TrimSpace(out)
	var projects []Project
	if strings.HasPrefix(out, "[") {
		err = json.Unmarshal([]byte(out), &projects)
	} else {
		var wrapped struct {
			Projects []Project `json:"projects"`
		}
		err = json.Unmarshal([]byte(out), &wrapped)
		projects = wrapped.Projects
	}
	if err != nil {
		return nil, fmt.Errorf("decode neonctl output: %w", err)
	}
	return projects, nil
}

// ConnectionURI returns the connection string of a project.
func (n *Neon) ConnectionURI(ctx context.Context, projectID string) (string, error) {
	out, err := n.neonctl(ctx, "connection-string", "--project-id", projectID)
	if err != nil {
		return "", fmt.Errorf("get connection string: %w", err)
	}
	uri := strings.TrimSpace(out)
	if uri == "" {
		return "", fmt.Errorf("empty connection string for project %s", projectID)
	}
	return uri, nil
}

func (n *Neon) neonctl(ctx context.Context, args ...string) (string, error) {
	return n.Runner.Run(ctx, n.Dir, "npx", append([]string{"neonctl"}, args...)...)
}
