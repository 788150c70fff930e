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
	"crypto/sha256"
	"encoding/hex"
)

// Kind names what an artifact is.
type Kind string

const (
	KindComponent       Kind = "component"
	KindSchema          Kind = "schema"
	KindRoute           Kind = "route"
	KindDataFetching    Kind = "dataFetching"
	KindSeed            Kind = "seed"
	KindParentComponent Kind = "parentComponent"

	// KindPlan is produced by identification. It is kept on the store
	// as a decoded Plan, never as an artifact.
	KindPlan Kind = "plan"
)

// MaterializationOrder is the order artifacts are written in.
var MaterializationOrder = []Kind{
	KindComponent,
	KindSchema,
	KindRoute,
	KindSeed,
	KindDataFetching,
	KindParentComponent,
}

var reconcileKeys = map[Kind]string{
	KindComponent:       "reactComponent",
	KindSchema:          "drizzleSchema",
	KindRoute:           "api",
	KindDataFetching:    "parentComponent",
	KindParentComponent: "parentComponent",
}

// ReconcileKey is the JSON key the kind travels under during
// reconciliation. Seed scripts are not reconciled.
func (k Kind) ReconcileKey() (string, bool) {
	key, ok := reconcileKeys[k]
	return key, ok
}

// Artifact is one generated file. Values are immutable; reconciliation
// produces a new Artifact via WithContent.
type Artifact struct {
	Kind    Kind
	Path    string // relative to the project root
	Content string
	Hash    string // hex-encoded sha256 of Content
}

func NewArtifact(kind Kind, path, content string) Artifact {
	return Artifact{
		Kind:    kind,
		Path:    path,
		Content: content,
		Hash:    hashContent(content),
	}
}

// WithContent returns a copy with new content at the same destination.
func (a Artifact) WithContent(content string) Artifact {
	return NewArtifact(a.Kind, a.Path, content)
}

func hashContent(content string) string {
	h := sha256.Sum256([]byte(content))
	return hex.EncodeToString(h[:])
}
