// Package main provides the first5 one-shot runner: it reads a task request
// as JSON, executes the full pipeline once and prints the result.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	cli "github.com/urfave/cli/v3"

	"github.com/first5/first5/pkg/config"
	"github.com/first5/first5/pkg/diagnostics"
	"github.com/first5/first5/pkg/log"
	"github.com/first5/first5/pkg/models"
	"github.com/first5/first5/pkg/pipeline"
	"github.com/first5/first5/pkg/reasoning"
)

func main() {
	logger := log.WithModule("cli")

	cmd := &cli.Command{
		Name:                  "first5",
		Usage:                 "Run the five-minute kickoff pipeline for one task",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "Path to the request JSON file ('-' reads stdin)",
				Value:   "-",
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to a YAML limits override file",
				Sources: cli.EnvVars("FIRST5_CONFIG"),
			},
			&cli.BoolFlag{
				Name:  "offline",
				Usage: "Skip the reasoning gateway and run on heuristics only",
			},
			&cli.StringFlag{
				Name:    "reasoning-base-url",
				Usage:   "OpenAI-compatible endpoint root for the reasoning gateway",
				Value:   "https://api.openai.com/v1",
				Sources: cli.EnvVars("REASONING_BASE_URL"),
			},
			&cli.StringFlag{
				Name:    "reasoning-model",
				Usage:   "Model identifier sent with every reasoning request",
				Value:   "gpt-4o-mini",
				Sources: cli.EnvVars("REASONING_MODEL"),
			},
			&cli.StringFlag{
				Name:    "reasoning-api-key",
				Usage:   "Bearer token for the reasoning gateway",
				Sources: cli.EnvVars("REASONING_API_KEY"),
			},
			&cli.DurationFlag{
				Name:    "reasoning-timeout",
				Usage:   "Timeout for one reasoning call",
				Value:   60 * time.Second,
				Sources: cli.EnvVars("REASONING_TIMEOUT"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			input, err := readInput(command.String("input"))
			if err != nil {
				return err
			}

			limits, err := config.Load(command.String("config"))
			if err != nil {
				return err
			}

			var gateway reasoning.Gateway = reasoning.Disabled{}

			if !command.Bool("offline") {
				gateway = reasoning.NewClient(reasoning.ClientConfig{
					BaseURL:   command.String("reasoning-base-url"),
					Model:     command.String("reasoning-model"),
					APIKey:    command.String("reasoning-api-key"),
					Timeout:   command.Duration("reasoning-timeout"),
					MaxTokens: limits.MaxOutputTokens,
				}, diagnostics.NewSlogSink(logger), logger)
			}

			p := pipeline.New(gateway, limits, logger)

			result, err := p.Run(ctx, input)
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			encoder.SetEscapeHTML(false)

			return encoder.Encode(result)
		},
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		logger.Error("Run failed", "error", err)
		os.Exit(1)
	}
}

func readInput(path string) (models.WorkflowInput, error) {
	var input models.WorkflowInput

	var data []byte

	var err error

	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return input, fmt.Errorf("failed to read input: %w", err)
	}

	if err := json.Unmarshal(data, &input); err != nil {
		return input, fmt.Errorf("failed to parse input JSON: %w", err)
	}

	return input, nil
}
