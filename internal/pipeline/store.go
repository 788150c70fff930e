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
	"fmt"
)

// SlotState tags whether a kind was produced in this run.
type SlotState int

const (
	NotRequested SlotState = iota
	Present
)

func (s SlotState) String() string {
	if s == Present {
		return "present"
	}
	return "not-requested"
}

// Slot is the tagged optional held per kind. An empty Present artifact is
// a valid result and differs from NotRequested.
type Slot struct {
	State    SlotState
	Artifact Artifact
}

func (s Slot) IsPresent() bool { return s.State == Present }

// Store holds everything one run produces. It is only touched by the stage
// currently running, so it carries no lock.
type Store struct {
	gates Gates
	plan  *Plan
	slots map[Kind]Slot
}

func NewStore(g Gates) *Store {
	return &Store{gates: g, slots: make(map[Kind]Slot)}
}

func (s *Store) Gates() Gates { return s.gates }

func (s *Store) Plan() *Plan { return s.plan }

func (s *Store) SetPlan(p *Plan) { s.plan = p }

// Get returns the slot for kind; the zero Slot means NotRequested.
func (s *Store) Get(kind Kind) Slot {
	return s.slots[kind]
}

// Content returns the artifact content for kind, or "" when absent.
func (s *Store) Content(kind Kind) string {
	return s.slots[kind].Artifact.Content
}

// Put records a freshly produced artifact. A kind is produced at most once.
func (s *Store) Put(a Artifact) error {
	if s.slots[a.Kind].IsPresent() {
		return fmt.Errorf("artifact %s already produced", a.Kind)
	}
	s.slots[a.Kind] = Slot{State: Present, Artifact: a}
	return nil
}

// Replace swaps the content of a present artifact, keeping its destination.
func (s *Store) Replace(kind Kind, content string) error {
	slot := s.slots[kind]
	if !slot.IsPresent() {
		return fmt.Errorf("cannot replace %s: not produced", kind)
	}
	slot.Artifact = slot.Artifact.WithContent(content)
	s.slots[kind] = slot
	return nil
}

// Present lists produced artifacts in materialization order.
func (s *Store) Present() []Artifact {
	out := make([]Artifact, 0, len(s.slots))
	for _, kind := range MaterializationOrder {
		if slot := s.slots[kind]; slot.IsPresent() {
			out = append(out, slot.Artifact)
		}
	}
	return out
}
