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

// Package materialize writes artifacts into the target project.
package materialize

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/cloudwego/full0/internal/log"
	"github.com/cloudwego/full0/internal/pipeline"
)

var _ pipeline.Materializer = (*Writer)(nil)

// Writer puts files below Root. It overwrites without merging and does not
// swap through a temp file, so a crash mid-write can truncate a file.
type Writer struct {
	Root string
	// MaxParallel bounds concurrent directory creation in Prepare.
	MaxParallel int
}

func NewWriter(root string) *Writer {
	return &Writer{Root: root, MaxParallel: 4}
}

// Prepare creates the destination directory of every artifact. It runs
// before any content is written.
func (w *Writer) Prepare(ctx context.Context, artifacts []pipeline.Artifact) error {
	dirs := make(map[string]bool)
	for _, a := range artifacts {
		p, err := w.resolve(a.Path)
		if err != nil {
			return err
		}
		dirs[filepath.Dir(p)] = true
	}
	list := make([]string, 0, len(dirs))
	for d := range dirs {
		list = append(list, d)
	}
	sort.Strings(list)

	eg, egCtx := errgroup.WithContext(ctx)
	if w.MaxParallel > 0 {
		eg.SetLimit(w.MaxParallel)
	}
	for _, dir := range list {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			if err := os.MkdirAll(dir, 0755); err != nil {
				return &pipeline.MaterializationError{Path: dir, Err: err}
			}
			return nil
		})
	}
	return eg.Wait()
}

// Write implements pipeline.Materializer.
func (w *Writer) Write(a pipeline.Artifact) error {
	return w.WriteFile(a.Path, a.Content)
}

// WriteFile creates the parent directory of rel if needed and writes
// content, replacing any existing file.
func (w *Writer) WriteFile(rel, content string) error {
	p, err := w.resolve(rel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return &pipeline.MaterializationError{Path: p, Err: err}
	}
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		return &pipeline.MaterializationError{Path: p, Err: err}
	}
	log.Debug("wrote %d bytes to %s", len(content), p)
	return nil
}

// resolve joins rel onto Root and refuses paths that leave it.
func (w *Writer) resolve(rel string) (string, error) {
	if strings.TrimSpace(rel) == "" {
		return "", &pipeline.MaterializationError{Path: rel, Err: errEmptyPath}
	}
	if filepath.IsAbs(rel) {
		return "", &pipeline.MaterializationError{Path: rel, Err: errOutsideRoot}
	}
	root := w.Root
	if root == "" {
		root = "."
	}
	p := filepath.Join(root, filepath.FromSlash(rel))
	r, err := filepath.Rel(root, p)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", &pipeline.MaterializationError{Path: rel, Err: errOutsideRoot}
	}
	return p, nil
}
