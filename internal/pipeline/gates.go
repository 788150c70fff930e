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
	"strings"
)

// Gate enables one optional part of the run. Gates form a chain: each one
// is only meaningful when every gate before it is enabled.
type Gate int

const (
	CreateProps Gate = iota
	CreateDatabase
	CreateSchema
	CreateFunction
	CreateSeed
)

// Chain lists the gates in evaluation order.
var Chain = []Gate{CreateProps, CreateDatabase, CreateSchema, CreateFunction, CreateSeed}

var gateNames = [...]string{
	CreateProps:    "createProps",
	CreateDatabase: "createDatabase",
	CreateSchema:   "createSchema",
	CreateFunction: "createFunction",
	CreateSeed:     "createSeed",
}

var gateQuestions = [...]string{
	CreateProps:    "Do you want to turn the static text of the component into props?",
	CreateDatabase: "Do you want to create a database?",
	CreateSchema:   "Do you want to create the database schema?",
	CreateFunction: "Do you want to create the API route and data fetching?",
	CreateSeed:     "Do you want to seed the database?",
}

func (g Gate) String() string {
	if g < 0 || int(g) >= len(gateNames) {
		return fmt.Sprintf("gate(%d)", int(g))
	}
	return gateNames[g]
}

// Question is what the user is asked before enabling g.
func (g Gate) Question() string {
	if g < 0 || int(g) >= len(gateQuestions) {
		return ""
	}
	return gateQuestions[g]
}

// ParseGate accepts the camel-case gate name, case-insensitively.
func ParseGate(s string) (Gate, error) {
	for _, g := range Chain {
		if strings.EqualFold(s, g.String()) {
			return g, nil
		}
	}
	return 0, fmt.Errorf("unknown gate %q", s)
}

// Asker answers one yes/no question.
type Asker interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// AskerFunc adapts a function to Asker.
type AskerFunc func(ctx context.Context, question string) (bool, error)

func (f AskerFunc) Confirm(ctx context.Context, question string) (bool, error) {
	return f(ctx, question)
}

// AlwaysYes answers every question affirmatively.
var AlwaysYes Asker = AskerFunc(func(context.Context, string) (bool, error) { return true, nil })

// Gates is the resolved chain. It only records how many leading gates are
// enabled, so the enabled set is a prefix of Chain by construction.
type Gates struct {
	n int
}

// NoGates disables everything.
func NoGates() Gates { return Gates{} }

// AllGates enables the whole chain.
func AllGates() Gates { return Gates{n: len(Chain)} }

// GatesUpTo enables every gate up to and including last.
func GatesUpTo(last Gate) Gates {
	return AllGates().Upto(last)
}

// Upto disables every gate after last.
func (g Gates) Upto(last Gate) Gates {
	if n := int(last) + 1; n < g.n {
		g.n = n
	}
	if g.n < 0 {
		g.n = 0
	}
	return g
}

func (g Gates) Enabled(gate Gate) bool {
	return gate >= 0 && int(gate) < g.n
}

// Len is the number of enabled gates.
func (g Gates) Len() int { return g.n }

// Flags returns the value of every gate keyed by name.
func (g Gates) Flags() map[string]bool {
	m := make(map[string]bool, len(Chain))
	for _, gate := range Chain {
		m[gate.String()] = g.Enabled(gate)
	}
	return m
}

func (g Gates) String() string {
	parts := make([]string, 0, len(Chain))
	for _, gate := range Chain {
		parts = append(parts, fmt.Sprintf("%s:%t", gate, g.Enabled(gate)))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// ResolveGates asks the chain's questions in order and stops at the first
// declined gate; nothing after it is asked. On error the gates confirmed so
// far are returned with it.
func ResolveGates(ctx context.Context, a Asker) (Gates, error) {
	return ResolveGatesUpTo(ctx, a, Chain[len(Chain)-1])
}

// ResolveGatesUpTo is ResolveGates for the chain cut after last. Gates
// past last are never asked about.
func ResolveGatesUpTo(ctx context.Context, a Asker, last Gate) (Gates, error) {
	var g Gates
	for _, gate := range Chain {
		if gate > last {
			break
		}
		if err := ctx.Err(); err != nil {
			return g, err
		}
		ok, err := a.Confirm(ctx, gate.Question())
		if err != nil {
			return g, fmt.Errorf("resolve %s: %w", gate, err)
		}
		if !ok {
			break
		}
		g.n++
	}
	return g, nil
}
