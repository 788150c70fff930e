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

package llm

import (
	"context"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type ModelConfig struct {
	APIType     ModelType     `yaml:"type" json:"type"`
	BaseURL     string        `yaml:"base_url" json:"base_url"`
	APIKey      string        `yaml:"api_key" json:"api_key"`
	ModelName   string        `yaml:"model" json:"model"` // default model for code stages, like `gpt-4o-2024-08-06`
	Temperature *float32      `yaml:"temperature" json:"temperature"`
	MaxTokens   int           `yaml:"max_tokens" json:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout" json:"timeout"` // per-call timeout, default: 600s
}

type ModelType string

func NewModelType(t string) ModelType {
	switch strings.ToLower(t) {
	case "ollama":
		return ModelTypeOllama
	case "ark", "doubao":
		return ModelTypeARK
	case "openai", "gpt":
		return ModelTypeOpenAI
	case "claude", "anthropic":
		return ModelTypeClaude
	case "dashscope", "qwen", "tongyi":
		return ModelTypeDashScope
	case "deepseek":
		return ModelTypeDeepSeek
	case "gemini", "google", "genai":
		return ModelTypeGemini
	}
	return ModelTypeUnknown
}

const (
	ModelTypeUnknown   ModelType = ""
	ModelTypeOllama    ModelType = "ollama"
	ModelTypeARK       ModelType = "ark"
	ModelTypeOpenAI    ModelType = "openai"
	ModelTypeClaude    ModelType = "claude"
	ModelTypeDashScope ModelType = "dashscope"
	ModelTypeDeepSeek  ModelType = "deepseek"
	ModelTypeGemini    ModelType = "gemini"
)

// NeedsAPIKey reports whether the provider refuses anonymous calls.
func (t ModelType) NeedsAPIKey() bool {
	return t != ModelTypeOllama && t != ModelTypeUnknown
}

type ChatModel interface {
	model.BaseChatModel
}

// Request is one call to the generation service: an ordered list of
// role-tagged blocks plus the sampling parameters.
type Request struct {
	Stage       string
	Messages    []*schema.Message
	Model       string
	Temperature float32
}

// Gateway is the only boundary towards the generation service.
type Gateway interface {
	Generate(ctx context.Context, req *Request) (string, error)
}
