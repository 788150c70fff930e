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
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_TaggedSlots(t *testing.T) {
	s := NewStore(AllGates())
	assert.Equal(t, NotRequested, s.Get(KindSchema).State)
	assert.False(t, s.Get(KindSchema).IsPresent())

	require.NoError(t, s.Put(NewArtifact(KindSchema, "db/schema.ts", "")))
	slot := s.Get(KindSchema)
	assert.True(t, slot.IsPresent(), "empty content is still present")
	assert.Equal(t, "", slot.Artifact.Content)
	assert.Equal(t, "present", slot.State.String())
}

func TestStore_PutOnce(t *testing.T) {
	s := NewStore(AllGates())
	require.NoError(t, s.Put(NewArtifact(KindComponent, "components/a.tsx", "a")))
	assert.Error(t, s.Put(NewArtifact(KindComponent, "components/a.tsx", "b")))
	assert.Equal(t, "a", s.Content(KindComponent))
}

func TestStore_Replace(t *testing.T) {
	s := NewStore(AllGates())
	assert.Error(t, s.Replace(KindRoute, "x"), "replace of absent kind")

	orig := NewArtifact(KindRoute, "app/api/cards/route.ts", "old")
	require.NoError(t, s.Put(orig))
	require.NoError(t, s.Replace(KindRoute, "new"))

	got := s.Get(KindRoute).Artifact
	assert.Equal(t, orig.Path, got.Path)
	assert.Equal(t, "new", got.Content)
	assert.NotEqual(t, orig.Hash, got.Hash)
	assert.Equal(t, NewArtifact(KindRoute, "", "new").Hash, got.Hash)
}

func TestStore_PresentOrder(t *testing.T) {
	s := NewStore(AllGates())
	for _, a := range []Artifact{
		NewArtifact(KindDataFetching, "app/cards/page.tsx", "df"),
		NewArtifact(KindSeed, "db/seed.ts", "seed"),
		NewArtifact(KindRoute, "app/api/cards/route.ts", "route"),
		NewArtifact(KindComponent, "components/card.tsx", "c"),
		NewArtifact(KindSchema, "db/schema.ts", "schema"),
	} {
		require.NoError(t, s.Put(a))
	}
	var kinds []Kind
	for _, a := range s.Present() {
		kinds = append(kinds, a.Kind)
	}
	want := []Kind{KindComponent, KindSchema, KindRoute, KindSeed, KindDataFetching}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("Present order mismatch (-want +got):\n%s", diff)
	}
}

func TestKind_ReconcileKey(t *testing.T) {
	tests := map[Kind]string{
		KindComponent:       "reactComponent",
		KindSchema:          "drizzleSchema",
		KindRoute:           "api",
		KindDataFetching:    "parentComponent",
		KindParentComponent: "parentComponent",
	}
	for kind, want := range tests {
		got, ok := kind.ReconcileKey()
		assert.True(t, ok, kind)
		assert.Equal(t, want, got)
	}
	_, ok := KindSeed.ReconcileKey()
	assert.False(t, ok)
}
