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

package install

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudwego/full0/internal/shell"
)

func TestInstall_PrefersBun(t *testing.T) {
	fake := &shell.FakeRunner{}
	i := &Installer{Runner: fake, Dir: "/proj"}

	require.NoError(t, i.Install(context.Background()))
	require.Len(t, fake.Calls, 1)
	assert.Equal(t, "bun install drizzle-kit drizzle-orm @neondatabase/serverless", fake.Calls[0].String())
	assert.Equal(t, "/proj", fake.Calls[0].Dir)
	assert.Equal(t, "bun run dev", i.DevCommand())
}

func TestInstall_FallsBackToNpm(t *testing.T) {
	fake := &shell.FakeRunner{Missing: map[string]bool{"bun": true}}
	i := &Installer{Runner: fake}

	require.NoError(t, i.Install(context.Background()))
	assert.Equal(t, "npm install drizzle-kit drizzle-orm @neondatabase/serverless", fake.Calls[0].String())
	assert.Equal(t, "npm run dev", i.DevCommand())
}

func TestInstall_NoManager(t *testing.T) {
	fake := &shell.FakeRunner{Missing: map[string]bool{"bun": true, "npm": true}}
	i := &Installer{Runner: fake}

	assert.Error(t, i.Install(context.Background()))
	assert.Empty(t, fake.Calls)
	assert.Equal(t, "npm run dev", i.DevCommand())
}

func TestInstall_SkipAndFailure(t *testing.T) {
	fake := &shell.FakeRunner{}
	require.NoError(t, (&Installer{Runner: fake, Skip: true}).Install(context.Background()))
	assert.Empty(t, fake.Calls)

	failing := &shell.FakeRunner{Errors: map[string]error{
		"bun install drizzle-kit drizzle-orm @neondatabase/serverless": errors.New("network"),
	}}
	err := (&Installer{Runner: failing}).Install(context.Background())
	assert.ErrorContains(t, err, "network")
}
