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
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"
)

var _ ChatModel = (*GeminiChatModel)(nil)

// GeminiChatModel adapts the Gemini API to eino's BaseChatModel.
type GeminiChatModel struct {
	client      *genai.Client
	model       string
	temperature *float32
	maxTokens   int32
}

func NewGeminiChatModel(ctx context.Context, m ModelConfig) (*GeminiChatModel, error) {
	if m.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  m.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	name := m.ModelName
	if name == "" {
		name = "gemini-2.5-pro"
	}
	return &GeminiChatModel{
		client:      client,
		model:       name,
		temperature: m.Temperature,
		maxTokens:   int32(m.MaxTokens),
	}, nil
}

func (g *GeminiChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	o := model.GetCommonOptions(&model.Options{
		Model:       &g.model,
		Temperature: g.temperature,
	}, opts...)

	cfg := &genai.GenerateContentConfig{}
	if o.Temperature != nil {
		cfg.Temperature = o.Temperature
	}
	if g.maxTokens > 0 {
		cfg.MaxOutputTokens = g.maxTokens
	}

	contents, system := toGenAIContents(input)
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(ctx, *o.Model, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("GenAI generate failed: %w", err)
	}
	return schema.AssistantMessage(resp.Text(), nil), nil
}

// Stream is answered with a single chunk; the pipeline never streams.
func (g *GeminiChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := g.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

// toGenAIContents folds system blocks into one system instruction and maps
// the remaining roles onto user/model turns.
func toGenAIContents(input []*schema.Message) ([]*genai.Content, string) {
	var system []string
	contents := make([]*genai.Content, 0, len(input))
	for _, msg := range input {
		if msg == nil {
			continue
		}
		switch msg.Role {
		case schema.System:
			system = append(system, msg.Content)
		case schema.Assistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}
	return contents, strings.Join(system, "\n\n")
}
