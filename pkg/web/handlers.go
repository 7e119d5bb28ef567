// Package web provides the HTTP endpoints that expose pipeline runs.
package web

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/first5/first5/pkg/models"
	"github.com/first5/first5/pkg/pipeline"
)

type APIHandlers struct {
	pipeline *pipeline.Pipeline
	logger   *slog.Logger
}

func NewAPIHandlers(pipeline *pipeline.Pipeline, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		pipeline: pipeline,
		logger:   logger,
	}
}

// RunWorkflow accepts a task request, executes the full six-stage pipeline and
// returns the aggregate output with the per-stage trace.
func (h *APIHandlers) RunWorkflow(c fiber.Ctx) error {
	var input models.WorkflowInput
	if err := c.Bind().JSON(&input); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	result, err := h.pipeline.Run(c.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrInvalidInput):
			return badRequest(c, err.Error())
		case errors.Is(err, pipeline.ErrContractViolation):
			h.logger.ErrorContext(c.Context(), "Pipeline run aborted", "error", err)

			return contractViolation(c, err)
		default:
			h.logger.ErrorContext(c.Context(), "Pipeline run failed", "error", err)

			return internalError(c, err)
		}
	}

	return c.JSON(result)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"status":    "healthy",
		"message":   "first5 API is healthy",
		"timestamp": time.Now().UTC(),
	})
}
