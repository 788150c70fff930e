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

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/cloudwego/full0/internal/log"
)

// withCallbacks attaches a logging handler to ctx, so providers that
// report callbacks log token usage per stage.
func withCallbacks(ctx context.Context, stage string) context.Context {
	info := &callbacks.RunInfo{Name: stage, Type: "full0", Component: components.ComponentOfChatModel}
	return callbacks.InitCallbacks(ctx, info, CallbackHandler{Stage: stage})
}

// CallbackHandler logs chat model events at debug level.
type CallbackHandler struct {
	Stage string
}

var _ callbacks.Handler = CallbackHandler{}

func (h CallbackHandler) OnStart(ctx context.Context, info *callbacks.RunInfo, input callbacks.CallbackInput) context.Context {
	if in := model.ConvCallbackInput(input); in != nil {
		log.Debug("[%s] model call started with %d messages", h.Stage, len(in.Messages))
	}
	return ctx
}

func (h CallbackHandler) OnEnd(ctx context.Context, info *callbacks.RunInfo, output callbacks.CallbackOutput) context.Context {
	out := model.ConvCallbackOutput(output)
	if out == nil || out.TokenUsage == nil {
		return ctx
	}
	u := out.TokenUsage
	log.Debug("[%s] tokens: prompt %d, completion %d, total %d", h.Stage, u.PromptTokens, u.CompletionTokens, u.TotalTokens)
	return ctx
}

func (h CallbackHandler) OnError(ctx context.Context, info *callbacks.RunInfo, err error) context.Context {
	log.Debug("[%s] model call failed: %v", h.Stage, err)
	return ctx
}

func (h CallbackHandler) OnStartWithStreamInput(ctx context.Context, info *callbacks.RunInfo,
	input *schema.StreamReader[callbacks.CallbackInput]) context.Context {
	input.Close()
	return ctx
}

func (h CallbackHandler) OnEndWithStreamOutput(ctx context.Context, info *callbacks.RunInfo,
	output *schema.StreamReader[callbacks.CallbackOutput]) context.Context {
	output.Close()
	return ctx
}
