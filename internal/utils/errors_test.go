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

package utils

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapError(t *testing.T) {
	assert.NoError(t, WrapError(nil, "ignored"))

	err := WrapError(fs.ErrNotExist, "read component %s", "components/a.tsx")
	assert.EqualError(t, err, "read component components/a.tsx: file does not exist")
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Equal(t, fs.ErrNotExist, Cause(err))

	assert.EqualError(t, WrapError(fs.ErrClosed, "100% done"), "100% done: file already closed")
}
