package stage

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/first5/first5/pkg/config"
	"github.com/first5/first5/pkg/models"
	"github.com/first5/first5/pkg/reasoning"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func testValidate() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func testNow() time.Time {
	return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
}

// stubGateway returns a canned JSON payload for every call.
type stubGateway struct {
	payload string
	calls   int
}

func (g *stubGateway) GenerateStructured(_ context.Context, _ reasoning.StructuredRequest) (json.RawMessage, error) {
	g.calls++

	return json.RawMessage(g.payload), nil
}

func fallbackContext(input models.WorkflowInput) RunContext {
	limits := config.Default()
	validate := testValidate()
	logger := testLogger()
	gateway := reasoning.Disabled{}

	rc := RunContext{Input: input, History: input.History, Now: testNow()}

	intake := NewIntake(gateway, limits, validate, logger)
	rc.Normalized, rc.Heuristics, _ = intake.Run(context.Background(), rc)

	interview := NewInterview(gateway, limits, validate, logger)
	rc.Interview, _ = interview.Run(context.Background(), rc)

	planner := NewPlanner(gateway, limits, validate, logger)
	rc.Plan, _ = planner.Run(context.Background(), rc)

	critic := NewCritic(gateway, limits, validate, logger)
	rc.Review, _ = critic.Run(context.Background(), rc)

	scheduler := NewScheduler(gateway, limits, validate, logger)
	rc.Scheduling, _ = scheduler.Run(context.Background(), rc)

	return rc
}
