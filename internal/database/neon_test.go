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

package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudwego/full0/internal/pipeline"
	"github.com/cloudwego/full0/internal/shell"
)

type memFiles map[string]string

func (m memFiles) WriteFile(rel, content string) error {
	m[rel] = content
	return nil
}

type pick int

func (p pick) Select(context.Context, string, []string) (int, error) { return int(p), nil }

func answer(yes bool) pipeline.Asker {
	return pipeline.AskerFunc(func(context.Context, string) (bool, error) { return yes, nil })
}

func TestNeon_ProvisionNew(t *testing.T) {
	fake := &shell.FakeRunner{Outputs: map[string]string{
		"npx neonctl projects create -o json --quiet": `{"project":{"id":"p1"},"connection_uris":[{"connection_uri":"postgres://u:p@host/db"}]}`,
	}}
	files := memFiles{}
	n := &Neon{Runner: fake, Dir: "/proj", Asker: answer(false), Files: files}

	require.NoError(t, n.Provision(context.Background()))
	assert.Equal(t, "DATABASE_URL=postgres://u:p@host/db", files[".env"])
}

func TestNeon_ProvisionExisting(t *testing.T) {
	fake := &shell.FakeRunner{Outputs: map[string]string{
		"npx neonctl projects list -o json":              `{"projects":[{"id":"a","name":"alpha"},{"id":"b","name":"beta"}]}`,
		"npx neonctl connection-string --project-id b": "postgres://beta\n",
	}}
	files := memFiles{}
	n := &Neon{Runner: fake, Asker: answer(true), Selector: pick(1), Files: files}

	require.NoError(t, n.Provision(context.Background()))
	assert.Equal(t, "DATABASE_URL=postgres://beta", files[".env"])
}

func TestNeon_ListProjectsArray(t *testing.T) {
	fake := &shell.FakeRunner{Outputs: map[string]string{
		"npx neonctl projects list -o json": `[{"id":"a","name":"alpha"}]`,
	}}
	projects, err := (&Neon{Runner: fake}).ListProjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Project{{ID: "a", Name: "alpha"}}, projects)
}

func TestNeon_Failures(t *testing.T) {
	ctx := context.Background()

	empty := &shell.FakeRunner{Outputs: map[string]string{
		"npx neonctl projects create -o json --quiet": `{"connection_uris":[]}`,
	}}
	_, err := (&Neon{Runner: empty}).CreateProject(ctx)
	assert.Error(t, err)

	failing := &shell.FakeRunner{Errors: map[string]error{
		"npx neonctl projects create -o json --quiet": errors.New("not logged in"),
	}}
	files := memFiles{}
	err = (&Neon{Runner: failing, Asker: answer(false), Files: files}).Provision(ctx)
	assert.Error(t, err)
	assert.Empty(t, files)

	none := &shell.FakeRunner{Outputs: map[string]string{"npx neonctl projects list -o json": `[]`}}
	err = (&Neon{Runner: none, Asker: answer(true), Selector: pick(0), Files: memFiles{}}).Provision(ctx)
	assert.Error(t, err)

	one := &shell.FakeRunner{Outputs: map[string]string{"npx neonctl projects list -o json": `[{"id":"a"}]`}}
	err = (&Neon{Runner: one, Asker: answer(true), Selector: pick(5), Files: memFiles{}}).Provision(ctx)
	assert.Error(t, err)
}
