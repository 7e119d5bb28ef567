package main

import (
	"context"
	"os"
	"time"

	cli "github.com/urfave/cli/v3"

	"github.com/first5/first5/pkg/config"
	"github.com/first5/first5/pkg/diagnostics"
	"github.com/first5/first5/pkg/log"
	"github.com/first5/first5/pkg/otelhelper"
	"github.com/first5/first5/pkg/pipeline"
	"github.com/first5/first5/pkg/reasoning"
)

const defaultPort = 9094

func main() {
	logger := log.WithModule("api")

	cmd := &cli.Command{
		Name:                  "first5-api",
		Usage:                 "Turn a task into a five-minute kickoff plan",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to a YAML limits override file",
				Sources: cli.EnvVars("FIRST5_CONFIG"),
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
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export OTLP traces for pipeline runs",
				Sources: cli.EnvVars("FIRST5_TRACING"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing first5 API")

			limits, err := config.Load(command.String("config"))
			if err != nil {
				return err
			}

			sink, subscriber := diagnostics.NewChannelSink(logger)
			defer func() {
				if err := subscriber.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close diagnostics subscriber", "error", err)
				}
			}()

			go consumeDiagnostics(ctx, subscriber, logger)

			gateway := reasoning.NewClient(reasoning.ClientConfig{
				BaseURL:   command.String("reasoning-base-url"),
				Model:     command.String("reasoning-model"),
				APIKey:    command.String("reasoning-api-key"),
				Timeout:   command.Duration("reasoning-timeout"),
				MaxTokens: limits.MaxOutputTokens,
			}, sink, logger)

			opts := []pipeline.Option{}

			if command.Bool("tracing") {
				tracer, err := otelhelper.NewTracer(ctx, "first5-api")
				if err != nil {
					return err
				}

				opts = append(opts, pipeline.WithTracer(tracer))
			}

			p := pipeline.New(gateway, limits, logger, opts...)

			api := NewAPI(logger, p)

			err = api.Start(command.Int("port"))
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	err := cmd.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
