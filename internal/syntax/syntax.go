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

// Package syntax parses generated TypeScript with tree-sitter and reports
// syntax errors as warnings. It never changes an artifact.
package syntax

import (
	"context"
	"fmt"
	"path"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/cloudwego/full0/internal/log"
	"github.com/cloudwego/full0/internal/pipeline"
)

// MaxWarnings caps the warnings reported per file.
const MaxWarnings = 5

var _ pipeline.Checker = Checker{}

type Checker struct{}

func language(p string) *sitter.Language {
	switch strings.ToLower(path.Ext(p)) {
	case ".tsx", ".jsx":
		return tsx.GetLanguage()
	case ".ts", ".js", ".mjs":
		return typescript.GetLanguage()
	}
	return nil
}

// Check returns one warning per ERROR or MISSING node in a, or nil for
// files it cannot parse.
func (Checker) Check(ctx context.Context, a pipeline.Artifact) []string {
	lang := language(a.Path)
	if lang == nil || strings.TrimSpace(a.Content) == "" {
		return nil
	}
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, []byte(a.Content))
	if err != nil {
		log.Debug("parse %s: %v", a.Path, err)
		return nil
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}
	var warnings []string
	collect(root, &warnings)
	return warnings
}

func collect(n *sitter.Node, out *[]string) {
	if len(*out) >= MaxWarnings {
		return
	}
	pos := n.StartPoint()
	switch {
	case n.IsMissing():
		*out = append(*out, fmt.Sprintf("missing %q at line %d, column %d", n.Type(), pos.Row+1, pos.Column+1))
		return
	case n.IsError():
		*out = append(*out, fmt.Sprintf("syntax error at line %d, column %d", pos.Row+1, pos.Column+1))
		return
	}
	if !n.HasError() {
		return
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		collect(n.Child(i), out)
	}
}
