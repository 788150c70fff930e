/**
 * Copyright 2025 ByteDance Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */


package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudwego/full0/version"
)

func TestMask(t *testing.T) {
	assert.Equal(t, "(not set)", mask(""))
	assert.Equal(t, "****", mask("short"))
	assert.Equal(t, "sk-a****wxyz", mask("sk-abcdefghijklmnopqrstuvwxyz"))
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, version.Version+"\n", buf.String())
}

func TestAddArgs(t *testing.T) {
	t.Cleanup(func() { addOpts = addOptions{} })

	addOpts = addOptions{}
	assert.Error(t, addCmd.Args(addCmd, nil))
	assert.NoError(t, addCmd.Args(addCmd, []string{"npx", "v0", "add", "x"}))

	addOpts.component = "components/a.tsx"
	assert.NoError(t, addCmd.Args(addCmd, nil))
	assert.Error(t, addCmd.Args(addCmd, []string{"npx"}))
}
