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
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cloudwego/full0/internal/config"
	"github.com/cloudwego/full0/llm"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the stored settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings, with secrets masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		cfg, err := config.Load(dir, os.Getenv)
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "file:          %s\n", filepath.Join(dir, config.FileName))
		fmt.Fprintf(w, "type:          %s\n", cfg.LLM.APIType)
		fmt.Fprintf(w, "model:         %s (temperature %.2f)\n", cfg.LLM.ModelName, cfg.Temperature())
		fmt.Fprintf(w, "planner model: %s (temperature %.2f)\n", cfg.PlannerModel, cfg.PlannerTemperature)
		fmt.Fprintf(w, "api key:       %s\n", mask(cfg.LLM.APIKey))
		fmt.Fprintf(w, "retries:       %d\n", cfg.Retries)
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(w, "\n%v\n", err)
		}
		return nil
	},
}

var configSetKeyType string

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key <api key>",
	Short: "Store the API key of the model provider",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := config.Dir()
		if err != nil {
			return err
		}
		cfg, err := config.Load(dir, nil)
		if err != nil {
			return err
		}
		if configSetKeyType != "" {
			cfg.LLM.APIType = llm.NewModelType(configSetKeyType)
		}
		cfg.LLM.APIKey = args[0]
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := cfg.Save(dir); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved to %s\n", filepath.Join(dir, config.FileName))
		return nil
	},
}

func init() {
	configSetKeyCmd.Flags().StringVar(&configSetKeyType, "type", "", "Model provider: openai, claude, gemini, deepseek, qwen, ark or ollama.")
	configCmd.AddCommand(configShowCmd, configSetKeyCmd)
}

func mask(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "****"
	}
	return s[:4] + "****" + s[len(s)-4:]
}
