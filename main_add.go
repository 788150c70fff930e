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
	"strings"

	"github.com/spf13/cobra"

	"github.com/cloudwego/full0/internal/config"
	"github.com/cloudwego/full0/internal/database"
	"github.com/cloudwego/full0/internal/install"
	"github.com/cloudwego/full0/internal/log"
	"github.com/cloudwego/full0/internal/materialize"
	"github.com/cloudwego/full0/internal/pipeline"
	"github.com/cloudwego/full0/internal/pipeline/steps"
	"github.com/cloudwego/full0/internal/reconcile"
	"github.com/cloudwego/full0/internal/scaffold"
	"github.com/cloudwego/full0/internal/shell"
	"github.com/cloudwego/full0/internal/syntax"
	"github.com/cloudwego/full0/internal/ui"
	"github.com/cloudwego/full0/llm"
)

type addOptions struct {
	component   string
	yes         bool
	until       string
	skipInstall bool
	noPlan      bool
}

var addOpts addOptions

var addCmd = &cobra.Command{
	Use:   "add [scaffold command...]",
	Short: "Scaffold a component and generate its backend",
	Long: `Run a scaffolding command such as "npx v0 add <id>", find the component it
created and generate the rest of the feature around it.

Use --component to start from an existing component instead.`,
	Example: `  full0 add npx v0 add a1b2c3
  full0 add --component components/pricing-card.tsx --until createSchema`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && addOpts.component == "" {
			return fmt.Errorf("either a scaffold command or --component is required")
		}
		if len(args) > 0 && addOpts.component != "" {
			return fmt.Errorf("a scaffold command and --component are mutually exclusive")
		}
		return nil
	},
	RunE: runAdd,
}

func init() {
	f := addCmd.Flags()
	f.SetInterspersed(false)
	f.StringVar(&addOpts.component, "component", "", "Existing component to start from, relative to the project directory.")
	f.BoolVarP(&addOpts.yes, "yes", "y", false, "Answer yes to every question.")
	f.StringVar(&addOpts.until, "until", "", "Last gate to enable: createProps, createDatabase, createSchema, createFunction or createSeed.")
	f.BoolVar(&addOpts.skipInstall, "skip-install", false, "Do not install the ORM packages.")
	f.BoolVar(&addOpts.noPlan, "no-plan", false, "Do not print the generated plan.")
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	dir, err := filepath.Abs(workDir)
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var until *pipeline.Gate
	if addOpts.until != "" {
		g, err := pipeline.ParseGate(addOpts.until)
		if err != nil {
			return err
		}
		until = &g
	}

	runner := &shell.ExecRunner{Stderr: os.Stderr}
	if cfg.NeonAPIKey != "" {
		runner.Env = []string{"NEON_API_KEY=" + cfg.NeonAPIKey}
	}

	componentPath := addOpts.component
	if componentPath == "" {
		log.Info("running %s", strings.Join(args, " "))
		sc := &scaffold.Scaffolder{Runner: runner, Dir: dir}
		if componentPath, err = sc.Run(ctx, args); err != nil {
			return err
		}
	}

	chat, err := llm.NewChatModel(ctx, cfg.LLM)
	if err != nil {
		return fmt.Errorf("init model: %w", err)
	}
	gw := llm.NewChatGateway(chat, cfg.LLM.Timeout)

	prompter := &ui.Prompter{Yes: addOpts.yes}
	writer := materialize.NewWriter(dir)
	installer := &install.Installer{Runner: runner, Dir: dir, Skip: addOpts.skipInstall}

	p := &pipeline.Pipeline{
		Dir: dir,
		Stages: steps.Default(steps.Options{
			Model:              cfg.LLM.ModelName,
			Temperature:        cfg.Temperature(),
			PlannerModel:       cfg.PlannerModel,
			PlannerTemperature: cfg.PlannerTemperature,
		}),
		Agent:        &pipeline.DefaultAgent{MaxRetry: cfg.Retries},
		Gateway:      gw,
		Asker:        prompter,
		Until:        until,
		Reconciler:   reconcile.New(gw, cfg.LLM.ModelName, cfg.Temperature()),
		Materializer: writer,
		Provisioner: &database.Neon{
			Runner:   runner,
			Dir:      dir,
			Asker:    prompter,
			Selector: prompter,
			Files:    writer,
		},
		Installer: installer,
		Checker:   syntax.Checker{},
		Reporter:  &ui.Reporter{Out: out, ShowPlan: !addOpts.noPlan},
	}

	st, err := p.Run(ctx, componentPath)
	if err != nil {
		ui.Failure(cmd.ErrOrStderr(), st, err)
		return &reportedError{err}
	}
	if st.Store.Gates().Len() == 0 {
		return nil
	}
	fmt.Fprint(out, ui.Completion(st, installer.DevCommand()))
	return nil
}

func loadConfig() (*config.Config, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(dir, os.Getenv)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// reportedError has already been printed with its run history.
type reportedError struct{ error }

func (e *reportedError) Unwrap() error { return e.error }
