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

// Package reconcile sends every produced artifact back to the generation
// service in one request and takes its corrected versions, provided the
// response has exactly the expected keys.
package reconcile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/cloudwego/full0/internal/log"
	"github.com/cloudwego/full0/internal/pipeline"
	"github.com/cloudwego/full0/llm"
	"github.com/cloudwego/full0/llm/prompt"
)

const stageName = "reconcile"

var _ pipeline.Reconciler = (*Reconciler)(nil)

type Reconciler struct {
	Gateway     llm.Gateway
	Model       string
	Temperature float32
}

func New(gw llm.Gateway, model string, temperature float32) *Reconciler {
	return &Reconciler{Gateway: gw, Model: model, Temperature: temperature}
}

// Entry is one artifact in a reconciliation request.
type Entry struct {
	Kind    pipeline.Kind
	Key     string
	Label   string
	Content string
}

var labels = map[pipeline.Kind]string{
	pipeline.KindComponent:       "React Component",
	pipeline.KindSchema:          "Drizzle Schema",
	pipeline.KindRoute:           "API",
	pipeline.KindDataFetching:    "Parent Component",
	pipeline.KindParentComponent: "Parent Component",
}

// requestOrder lists the reconciled kinds in the order they are sent.
var requestOrder = []pipeline.Kind{
	pipeline.KindComponent,
	pipeline.KindSchema,
	pipeline.KindRoute,
	pipeline.KindDataFetching,
	pipeline.KindParentComponent,
}

// BuildRequest collects the present artifacts that take part in
// reconciliation. Empty artifacts are included.
func BuildRequest(store *pipeline.Store) []Entry {
	var entries []Entry
	for _, kind := range requestOrder {
		slot := store.Get(kind)
		if !slot.IsPresent() {
			continue
		}
		key, ok := kind.ReconcileKey()
		if !ok {
			continue
		}
		entries = append(entries, Entry{
			Kind:    kind,
			Key:     key,
			Label:   labels[kind],
			Content: slot.Artifact.Content,
		})
	}
	return entries
}

// Keys is the key set a well-formed response must have.
func Keys(entries []Entry) []string {
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, e.Key)
	}
	return keys
}

// Reconcile implements pipeline.Reconciler.
func (r *Reconciler) Reconcile(ctx context.Context, store *pipeline.Store, pc *pipeline.PipelineContext) error {
	entries := BuildRequest(store)
	if len(entries) == 0 {
		return nil
	}
	msgs, err := Messages(entries, pc)
	if err != nil {
		return err
	}
	log.Debug("[%s] reconciling %s", stageName, strings.Join(Keys(entries), ", "))

	text, err := r.Gateway.Generate(ctx, &llm.Request{
		Stage:       stageName,
		Messages:    msgs,
		Model:       r.Model,
		Temperature: r.Temperature,
	})
	if err != nil {
		return &pipeline.ExternalServiceError{Stage: stageName, Err: err}
	}

	values, err := ParseResponse(text, Keys(entries))
	if err != nil {
		return err
	}
	for _, e := range entries {
		next := llm.StripCodeFence(values[e.Key])
		if next != e.Content {
			log.Debug("[%s] %s changed", stageName, e.Kind)
		}
		if err := store.Replace(e.Kind, next); err != nil {
			return err
		}
	}
	return nil
}

// Messages builds the single combined request.
func Messages(entries []Entry, pc *pipeline.PipelineContext) ([]*schema.Message, error) {
	d := prompt.Data{Keys: Keys(entries), Labels: joinLabels(entries)}
	if pc != nil {
		d.ComponentName = pc.ComponentName
		d.ParentComponentName = pc.ParentComponentName
	}
	system, err := prompt.Render("reconcile_system", d)
	if err != nil {
		return nil, err
	}
	task, err := prompt.Render("reconcile_task", d)
	if err != nil {
		return nil, err
	}
	msgs := []*schema.Message{schema.SystemMessage(system)}
	for _, e := range entries {
		msgs = append(msgs, schema.UserMessage(e.Label+": "+e.Content))
	}
	return append(msgs, schema.UserMessage(task)), nil
}

func joinLabels(entries []Entry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, e.Label)
	}
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return strings.Join(parts[:len(parts)-1], ", ") + " and " + parts[len(parts)-1]
}

// ParseResponse decodes the reconciliation response. Its keys must be
// exactly want, and every value must be a string.
func ParseResponse(text string, want []string) (map[string]string, error) {
	raw, err := llm.ExtractJSONObject(text)
	if err != nil {
		return nil, &pipeline.ReconciliationContractViolation{Contract: stageName, Err: err}
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, &pipeline.ReconciliationContractViolation{Contract: stageName, Err: err}
	}

	missing, unexpected := diffKeys(obj, want)
	if len(missing) > 0 || len(unexpected) > 0 {
		return nil, &pipeline.ReconciliationContractViolation{
			Contract:   stageName,
			Missing:    missing,
			Unexpected: unexpected,
		}
	}

	out := make(map[string]string, len(obj))
	for key, v := range obj {
		var s string
		v = bytes.TrimSpace(v)
		if len(v) == 0 || v[0] != '"' || json.Unmarshal(v, &s) != nil {
			return nil, &pipeline.ReconciliationContractViolation{
				Contract: stageName,
				Err:      fmt.Errorf("value of %q is not a string", key),
			}
		}
		out[key] = s
	}
	return out, nil
}

func diffKeys(obj map[string]json.RawMessage, want []string) (missing, unexpected []string) {
	wanted := make(map[string]bool, len(want))
	for _, k := range want {
		wanted[k] = true
		if _, ok := obj[k]; !ok {
			missing = append(missing, k)
		}
	}
	for k := range obj {
		if !wanted[k] {
			unexpected = append(unexpected, k)
		}
	}
	sort.Strings(missing)
	sort.Strings(unexpected)
	return missing, unexpected
}
