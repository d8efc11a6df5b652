// Package cli implements the loom command-line commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wovenflow/loom/pkg/engine"
	"github.com/wovenflow/loom/pkg/graph"
	"github.com/wovenflow/loom/pkg/nodes/all"
)

// NewRunCmd builds the "run" command: load a workflow file, execute it and
// print the final node states as JSON.
func NewRunCmd() *cobra.Command {
	var trigger string
	var debug bool
	var envFile string

	cmd := &cobra.Command{
		Use:   "run <workflow.json>",
		Short: "Execute a workflow graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				if err := godotenv.Load(envFile); err != nil {
					return fmt.Errorf("load env file %s: %w", envFile, err)
				}
			} else {
				// A missing default .env is fine.
				_ = godotenv.Load()
			}

			logger, err := newLogger(debug)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			g, err := loadGraph(args[0])
			if err != nil {
				return err
			}

			factory := engine.NewFactory()
			all.Register(factory, all.Collaborators{})
			eng := engine.New(factory, engine.WithLogger(logger))

			ec, err := eng.Execute(context.Background(), g, trigger)
			if err != nil {
				return err
			}

			return printStates(cmd, ec.States())
		},
	}

	cmd.Flags().StringVar(&trigger, "trigger", "", "Node id to trigger; all roots when empty")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&envFile, "env", "", "Path to an env file (default .env when present)")
	return cmd
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func loadGraph(path string) (*graph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow file: %w", err)
	}
	var g graph.Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("parse workflow file %s: %w", path, err)
	}
	if len(g.Nodes) == 0 {
		return nil, fmt.Errorf("workflow file %s contains no nodes", path)
	}
	return &g, nil
}

func printStates(cmd *cobra.Command, states interface{}) error {
	encoded, err := json.MarshalIndent(states, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(encoded))
	return nil
}
