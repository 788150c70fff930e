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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedAsker answers from a list and records what it was asked.
type scriptedAsker struct {
	answers []bool
	asked   []string
}

func (a *scriptedAsker) Confirm(_ context.Context, q string) (bool, error) {
	a.asked = append(a.asked, q)
	if len(a.asked) > len(a.answers) {
		return false, nil
	}
	return a.answers[len(a.asked)-1], nil
}

func TestResolveGates_PrefixProperty(t *testing.T) {
	// decline at every position of the chain, including never
	for declineAt := 0; declineAt <= len(Chain); declineAt++ {
		answers := make([]bool, len(Chain))
		for i := range answers {
			answers[i] = i < declineAt
		}
		asker := &scriptedAsker{answers: answers}
		g, err := ResolveGates(context.Background(), asker)
		require.NoError(t, err)

		assert.Equal(t, declineAt, g.Len())
		wantAsked := declineAt + 1
		if declineAt == len(Chain) {
			wantAsked = len(Chain)
		}
		assert.Len(t, asker.asked, wantAsked, "no question after the first decline")

		seenFalse := false
		for _, gate := range Chain {
			if !g.Enabled(gate) {
				seenFalse = true
				continue
			}
			assert.False(t, seenFalse, "gate %s enabled after a disabled one", gate)
		}
	}
}

func TestResolveGates_LaterYesIgnored(t *testing.T) {
	asker := &scriptedAsker{answers: []bool{true, false, true, true, true}}
	g, err := ResolveGates(context.Background(), asker)
	require.NoError(t, err)
	assert.True(t, g.Enabled(CreateProps))
	assert.False(t, g.Enabled(CreateDatabase))
	assert.False(t, g.Enabled(CreateSchema))
	assert.False(t, g.Enabled(CreateSeed))
	assert.Len(t, asker.asked, 2)
}

func TestResolveGatesUpTo(t *testing.T) {
	asker := &scriptedAsker{answers: []bool{true, true, true, true, true}}
	g, err := ResolveGatesUpTo(context.Background(), asker, CreateDatabase)
	require.NoError(t, err)
	assert.Equal(t, GatesUpTo(CreateDatabase), g)
	assert.Equal(t, []string{CreateProps.Question(), CreateDatabase.Question()}, asker.asked)
}

func TestResolveGates_Error(t *testing.T) {
	boom := errors.New("tty closed")
	calls := 0
	g, err := ResolveGates(context.Background(), AskerFunc(func(context.Context, string) (bool, error) {
		calls++
		if calls == 3 {
			return false, boom
		}
		return true, nil
	}))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, g.Len())
}

func TestResolveGates_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g, err := ResolveGates(ctx, AlwaysYes)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, g.Len())
}

func TestGates_Upto(t *testing.T) {
	g := AllGates().Upto(CreateSchema)
	assert.Equal(t, 3, g.Len())
	assert.True(t, g.Enabled(CreateSchema))
	assert.False(t, g.Enabled(CreateFunction))

	// Upto never enables gates
	assert.Equal(t, 1, GatesUpTo(CreateProps).Upto(CreateSeed).Len())
	assert.False(t, NoGates().Enabled(CreateProps))
}

func TestGates_FlagsAndNames(t *testing.T) {
	flags := GatesUpTo(CreateDatabase).Flags()
	assert.Equal(t, map[string]bool{
		"createProps":    true,
		"createDatabase": true,
		"createSchema":   false,
		"createFunction": false,
		"createSeed":     false,
	}, flags)

	g, err := ParseGate("CREATESCHEMA")
	require.NoError(t, err)
	assert.Equal(t, CreateSchema, g)
	_, err = ParseGate("createTests")
	assert.Error(t, err)

	for _, gate := range Chain {
		assert.NotEmpty(t, gate.Question())
	}
	assert.Equal(t, "gate(9)", Gate(9).String())
}
