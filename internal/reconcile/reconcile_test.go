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

package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudwego/full0/internal/pipeline"
	"github.com/cloudwego/full0/llm"
)

type echoGateway struct {
	reply string
	err   error
	req   *llm.Request
}

func (g *echoGateway) Generate(_ context.Context, req *llm.Request) (string, error) {
	g.req = req
	return g.reply, g.err
}

func storeWith(t *testing.T, arts ...pipeline.Artifact) *pipeline.Store {
	t.Helper()
	s := pipeline.NewStore(pipeline.AllGates())
	for _, a := range arts {
		require.NoError(t, s.Put(a))
	}
	return s
}

var (
	component = pipeline.NewArtifact(pipeline.KindComponent, "components/card.tsx", "C")
	schemaArt = pipeline.NewArtifact(pipeline.KindSchema, "db/schema.ts", "S")
	route     = pipeline.NewArtifact(pipeline.KindRoute, "app/api/cards/route.ts", "R")
	seed      = pipeline.NewArtifact(pipeline.KindSeed, "db/seed.ts", "D")
	page      = pipeline.NewArtifact(pipeline.KindParentComponent, "app/cards/page.tsx", "P")
	fetcher   = pipeline.NewArtifact(pipeline.KindDataFetching, "components/list.tsx", "F")
)

func TestKeys_FollowPresentArtifacts(t *testing.T) {
	tests := []struct {
		name string
		arts []pipeline.Artifact
		want []string
	}{
		{"component only", []pipeline.Artifact{component}, []string{"reactComponent"}},
		{"with schema", []pipeline.Artifact{component, schemaArt}, []string{"reactComponent", "drizzleSchema"}},
		{"seed never reconciled", []pipeline.Artifact{component, schemaArt, seed}, []string{"reactComponent", "drizzleSchema"}},
		{"all", []pipeline.Artifact{page, route, schemaArt, component, seed}, []string{"reactComponent", "drizzleSchema", "api", "parentComponent"}},
		{"data fetching", []pipeline.Artifact{component, fetcher}, []string{"reactComponent", "parentComponent"}},
		{"empty content included", []pipeline.Artifact{component, pipeline.NewArtifact(pipeline.KindSchema, "db/schema.ts", "")}, []string{"reactComponent", "drizzleSchema"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Keys(BuildRequest(storeWith(t, tt.arts...))))
		})
	}
}

func TestParseResponse_KeySet(t *testing.T) {
	want := []string{"reactComponent", "api"}
	tests := []struct {
		name       string
		body       string
		missing    []string
		unexpected []string
	}{
		{"missing", `{"reactComponent":"x"}`, []string{"api"}, nil},
		{"extra", `{"reactComponent":"x","api":"y","drizzleSchema":"z"}`, nil, []string{"drizzleSchema"}},
		{"renamed", `{"react_component":"x","api":"y"}`, []string{"reactComponent"}, []string{"react_component"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResponse(tt.body, want)
			var cv *pipeline.ReconciliationContractViolation
			require.True(t, errors.As(err, &cv), "got %v", err)
			assert.Equal(t, tt.missing, cv.Missing)
			assert.Equal(t, tt.unexpected, cv.Unexpected)
		})
	}
}

func TestParseResponse_Malformed(t *testing.T) {
	for name, body := range map[string]string{
		"prose":      "Looks good to me!",
		"array":      `["a"]`,
		"non-string": `{"reactComponent": 42}`,
		"null":       `{"reactComponent": null}`,
		"object":     `{"reactComponent": {"code": "x"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseResponse(body, []string{"reactComponent"})
			var cv *pipeline.ReconciliationContractViolation
			assert.True(t, errors.As(err, &cv), "got %v", err)
		})
	}
}

func TestParseResponse_Fenced(t *testing.T) {
	got, err := ParseResponse("```json\n{\"reactComponent\": \"```tsx\\nx\\n```\"}\n```", []string{"reactComponent"})
	require.NoError(t, err)
	assert.Equal(t, "```tsx\nx\n```", got["reactComponent"])
}

func TestReconcile_ReplacesContent(t *testing.T) {
	s := storeWith(t, component, schemaArt, seed)
	gw := &echoGateway{reply: "{\"reactComponent\": \"```tsx\\nC2\\n```\", \"drizzleSchema\": \"S2\"}"}

	require.NoError(t, New(gw, "m", 0.2).Reconcile(context.Background(), s, nil))

	assert.Equal(t, "C2", s.Content(pipeline.KindComponent))
	assert.Equal(t, "S2", s.Content(pipeline.KindSchema))
	assert.Equal(t, "D", s.Content(pipeline.KindSeed))
	assert.Equal(t, component.Path, s.Get(pipeline.KindComponent).Artifact.Path)
	assert.Equal(t, "reconcile", gw.req.Stage)
	assert.Equal(t, "m", gw.req.Model)
}

func TestReconcile_IdentityIsNoop(t *testing.T) {
	s := storeWith(t, component, schemaArt, route, page)
	before := s.Present()

	values := map[string]string{}
	for _, e := range BuildRequest(s) {
		values[e.Key] = e.Content
	}
	bs, err := json.Marshal(values)
	require.NoError(t, err)

	require.NoError(t, New(&echoGateway{reply: string(bs)}, "m", 0).Reconcile(context.Background(), s, nil))
	assert.Equal(t, before, s.Present())
}

func TestReconcile_FailureLeavesStore(t *testing.T) {
	s := storeWith(t, component, schemaArt)

	err := New(&echoGateway{reply: `{"reactComponent": "C2"}`}, "m", 0).Reconcile(context.Background(), s, nil)
	var cv *pipeline.ReconciliationContractViolation
	require.True(t, errors.As(err, &cv))
	assert.Equal(t, "C", s.Content(pipeline.KindComponent))

	boom := errors.New("down")
	err = New(&echoGateway{err: boom}, "m", 0).Reconcile(context.Background(), s, nil)
	var ese *pipeline.ExternalServiceError
	require.True(t, errors.As(err, &ese))
	assert.Equal(t, "reconcile", ese.Stage)
}

func TestMessages_OneBlockPerArtifact(t *testing.T) {
	s := storeWith(t, component, route)
	msgs, err := Messages(BuildRequest(s), nil)
	require.NoError(t, err)
	require.Len(t, msgs, 4)
	assert.Equal(t, "React Component: C", msgs[1].Content)
	assert.Equal(t, "API: R", msgs[2].Content)
	assert.Contains(t, msgs[3].Content, "React Component and API")
	assert.Contains(t, msgs[3].Content, `"api": "..."`)
}

func TestReconcile_NothingToDo(t *testing.T) {
	gw := &echoGateway{}
	require.NoError(t, New(gw, "m", 0).Reconcile(context.Background(), storeWith(t, seed), nil))
	assert.Nil(t, gw.req)
}
