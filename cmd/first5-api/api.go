// Package main provides the first5 API server implementation.
package main

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/first5/first5/pkg/diagnostics"
	"github.com/first5/first5/pkg/pipeline"
	"github.com/first5/first5/pkg/web"
)

type API struct {
	logger   *slog.Logger
	pipeline *pipeline.Pipeline
}

func NewAPI(logger *slog.Logger, pipeline *pipeline.Pipeline) *API {
	return &API{
		logger:   logger,
		pipeline: pipeline,
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.pipeline, a.logger)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("first5 API")
	})

	w := app.Group("/workflows")
	w.Post("/first5/run", handlers.RunWorkflow)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}

// consumeDiagnostics drains the reasoning-gateway diagnostic topic and logs
// each record. Runs until the subscription channel closes.
func consumeDiagnostics(ctx context.Context, subscriber message.Subscriber, logger *slog.Logger) {
	messages, err := subscriber.Subscribe(ctx, diagnostics.DefaultTopic)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to subscribe to diagnostics topic", "error", err)

		return
	}

	for msg := range messages {
		logger.DebugContext(ctx, "Reasoning gateway diagnostic",
			"stage", msg.Metadata.Get("stage"),
			"status", msg.Metadata.Get("status"),
			"payload", string(msg.Payload),
		)
		msg.Ack()
	}
}
