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

// Package config loads the tool's settings from ~/.config/full0 and the
// environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cloudwego/full0/internal/pipeline"
	"github.com/cloudwego/full0/internal/utils"
	"github.com/cloudwego/full0/llm"
)

const (
	FileName       = "config.yaml"
	LegacyFileName = "config.json"

	DefaultModel              = "gpt-4o-2024-08-06"
	DefaultPlannerModel       = "o1-preview"
	DefaultTemperature        = 0.2
	DefaultPlannerTemperature = 1
	DefaultTimeout            = 600 * time.Second
)

type Config struct {
	LLM llm.ModelConfig `yaml:"llm"`

	PlannerModel       string  `yaml:"planner_model"`
	PlannerTemperature float32 `yaml:"planner_temperature"`
	// Retries is how many times a failed stage is retried. 0 aborts on the
	// first failure.
	Retries    int    `yaml:"retries"`
	NeonAPIKey string `yaml:"neon_api_key,omitempty"`

	// invalid environment overrides, reported by Validate
	envErrs []*pipeline.ConfigurationError
}

func Default() *Config {
	temp := float32(DefaultTemperature)
	return &Config{
		LLM: llm.ModelConfig{
			APIType:     llm.ModelTypeOpenAI,
			ModelName:   DefaultModel,
			Temperature: &temp,
			Timeout:     DefaultTimeout,
		},
		PlannerModel:       DefaultPlannerModel,
		PlannerTemperature: DefaultPlannerTemperature,
	}
}

// Dir is ~/.config/full0.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", utils.WrapError(err, "locate home directory")
	}
	return filepath.Join(home, ".config", "full0"), nil
}

// Temperature is the sampling temperature of the code stages.
func (c *Config) Temperature() float32 {
	if c.LLM.Temperature == nil {
		return DefaultTemperature
	}
	return *c.LLM.Temperature
}

// Load reads config.yaml and the legacy config.json from dir, if present,
// then applies environment overrides. getenv is usually os.Getenv.
func Load(dir string, getenv func(string) string) (*Config, error) {
	c := Default()
	if dir != "" {
		if err := c.readYAML(filepath.Join(dir, FileName)); err != nil {
			return nil, err
		}
		if err := c.readLegacy(filepath.Join(dir, LegacyFileName)); err != nil {
			return nil, err
		}
	}
	if getenv != nil {
		c.applyEnv(getenv)
	}
	return c, nil
}

func (c *Config) readYAML(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return utils.WrapError(err, "read %s", path)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return &pipeline.ConfigurationError{Field: path, Reason: err.Error()}
	}
	c.LLM.APIType = llm.NewModelType(string(c.LLM.APIType))
	return nil
}

// the first release stored only the OpenAI key, as {"openaiApiKey": "..."}
func (c *Config) readLegacy(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return utils.WrapError(err, "read %s", path)
	}
	var legacy struct {
		OpenAIAPIKey string `json:"openaiApiKey"`
	}
	if err := json.Unmarshal(data, &legacy); err != nil {
		return &pipeline.ConfigurationError{Field: path, Reason: err.Error()}
	}
	if c.LLM.APIKey == "" && c.LLM.APIType == llm.ModelTypeOpenAI {
		c.LLM.APIKey = legacy.OpenAIAPIKey
	}
	return nil
}

var providerKeyEnv = map[llm.ModelType]string{
	llm.ModelTypeOpenAI:    "OPENAI_API_KEY",
	llm.ModelTypeClaude:    "ANTHROPIC_API_KEY",
	llm.ModelTypeGemini:    "GEMINI_API_KEY",
	llm.ModelTypeDeepSeek:  "DEEPSEEK_API_KEY",
	llm.ModelTypeDashScope: "DASHSCOPE_API_KEY",
	llm.ModelTypeARK:       "ARK_API_KEY",
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("FULL0_API_TYPE"); v != "" {
		c.LLM.APIType = llm.NewModelType(v)
	}
	if v := getenv("FULL0_MODEL"); v != "" {
		c.LLM.ModelName = v
	}
	if v := getenv("FULL0_PLANNER_MODEL"); v != "" {
		c.PlannerModel = v
	}
	if v := getenv("FULL0_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := getenv("FULL0_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.envErrs = append(c.envErrs, &pipeline.ConfigurationError{
				Field:  "retries",
				Reason: fmt.Sprintf("FULL0_RETRIES=%q is not an integer", v),
			})
		} else {
			c.Retries = n
		}
	}
	if v := getenv("NEON_API_KEY"); v != "" {
		c.NeonAPIKey = v
	}

	if v := getenv("FULL0_API_KEY"); v != "" {
		c.LLM.APIKey = v
	} else if name, ok := providerKeyEnv[c.LLM.APIType]; ok && c.LLM.APIKey == "" {
		c.LLM.APIKey = getenv(name)
	}
}

// Validate reports the first setting that would make a run fail.
func (c *Config) Validate() error {
	if len(c.envErrs) > 0 {
		return c.envErrs[0]
	}
	if c.LLM.APIType == llm.ModelTypeUnknown {
		return &pipeline.ConfigurationError{Field: "llm.type", Reason: "unsupported or empty model type"}
	}
	if c.LLM.APIType.NeedsAPIKey() && c.LLM.APIKey == "" {
		reason := "API key is not set; use FULL0_API_KEY or `full0 config set-key`"
		if name, ok := providerKeyEnv[c.LLM.APIType]; ok {
			reason = "API key is not set; use FULL0_API_KEY, " + name + " or `full0 config set-key`"
		}
		return &pipeline.ConfigurationError{Field: "llm.api_key", Reason: reason}
	}
	if c.LLM.ModelName == "" {
		return &pipeline.ConfigurationError{Field: "llm.model", Reason: "model name is empty"}
	}
	if c.PlannerModel == "" {
		return &pipeline.ConfigurationError{Field: "planner_model", Reason: "model name is empty"}
	}
	if t := c.Temperature(); t < 0 || t > 1 {
		return &pipeline.ConfigurationError{Field: "llm.temperature", Reason: "must be between 0 and 1"}
	}
	if c.PlannerTemperature < 0 || c.PlannerTemperature > 1 {
		return &pipeline.ConfigurationError{Field: "planner_temperature", Reason: "must be between 0 and 1"}
	}
	if c.LLM.Timeout < 0 {
		return &pipeline.ConfigurationError{Field: "llm.timeout", Reason: "must not be negative"}
	}
	if c.Retries < 0 {
		return &pipeline.ConfigurationError{Field: "retries", Reason: "must not be negative"}
	}
	return nil
}

// Save writes c to dir/config.yaml, readable only by the user.
func (c *Config) Save(dir string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return utils.WrapError(err, "encode config")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return utils.WrapError(err, "create %s", dir)
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return utils.WrapError(err, "write %s", path)
	}
	return nil
}
