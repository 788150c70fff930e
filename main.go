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
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cloudwego/full0/internal/log"
	"github.com/cloudwego/full0/version"
)

var (
	verbose bool
	workDir string
)

var rootCmd = &cobra.Command{
	Use:   "full0",
	Short: "Turn a scaffolded UI component into a full-stack feature",
	Long: `full0 scaffolds a component, then asks a language model to add props,
a Drizzle schema, an API route, data fetching and seed data for it, and
writes the results into the project.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLogLevel(log.DebugLevel)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of full0",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n", version.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose mode.")
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "C", ".", "Project directory.")

	rootCmd.AddCommand(versionCmd, addCmd, configCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			log.Error("%v", err)
		}
		log.Sync()
		os.Exit(1)
	}
	log.Sync()
}
