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
	"time"

	"github.com/cloudwego/eino/components/model"

	"github.com/cloudwego/full0/internal/log"
)

var _ Gateway = (*ChatGateway)(nil)

// ChatGateway sends every request straight to one chat model, without
// tools. Each call gets its own timeout.
type ChatGateway struct {
	Model   ChatModel
	Timeout time.Duration
}

func NewChatGateway(m ChatModel, timeout time.Duration) *ChatGateway {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &ChatGateway{Model: m, Timeout: timeout}
}

func (g *ChatGateway) Generate(ctx context.Context, req *Request) (string, error) {
	if req == nil || len(req.Messages) == 0 {
		return "", fmt.Errorf("empty request")
	}
	callCtx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()
	callCtx = withCallbacks(callCtx, req.Stage)

	var opts []model.Option
	if req.Model != "" {
		opts = append(opts, model.WithModel(req.Model))
	}
	opts = append(opts, model.WithTemperature(req.Temperature))

	log.Debug("[%s] sending %d messages to model %q (temperature %.2f)", req.Stage, len(req.Messages), req.Model, req.Temperature)
	start := time.Now()
	out, err := g.Model.Generate(callCtx, req.Messages, opts...)
	if err != nil {
		return "", fmt.Errorf("LLM Generate failed: %w", err)
	}
	if out == nil {
		return "", fmt.Errorf("LLM returned nil response")
	}
	log.Debug("[%s] received %d bytes in %v", req.Stage, len(out.Content), time.Since(start).Round(time.Millisecond))
	return out.Content, nil
}
