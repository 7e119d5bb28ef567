// Package diagnostics emits structured records for reasoning-gateway calls.
// Records flow to a pluggable sink; the pipeline itself never reads them.
package diagnostics

import (
	"context"
	"log/slog"
	"time"
)

// Status marks the phase of a gateway call a record describes.
type Status string

const (
	StatusStart   Status = "start"
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// Record is one diagnostic event for a reasoning-gateway call.
type Record struct {
	Stage      string    `json:"stage"`
	Status     Status    `json:"status"`
	Model      string    `json:"model,omitempty"`
	DurationMS int64     `json:"durationMs,omitempty"`
	Tokens     int       `json:"tokens,omitempty"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Sink receives diagnostic records. Implementations must tolerate concurrent
// emission from independent pipeline runs.
type Sink interface {
	Emit(ctx context.Context, record Record)
}

// SlogSink writes records to a structured logger.
type SlogSink struct {
	logger *slog.Logger
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	return &SlogSink{logger: logger}
}

func (s *SlogSink) Emit(ctx context.Context, record Record) {
	attrs := []any{
		"stage", record.Stage,
		"status", string(record.Status),
	}

	if record.Model != "" {
		attrs = append(attrs, "model", record.Model)
	}

	if record.Status != StatusStart {
		attrs = append(attrs, "duration_ms", record.DurationMS)
	}

	if record.Tokens > 0 {
		attrs = append(attrs, "tokens", record.Tokens)
	}

	if record.Status == StatusFailure {
		attrs = append(attrs, "error", record.Error)
		s.logger.ErrorContext(ctx, "llm-trace", attrs...)

		return
	}

	s.logger.InfoContext(ctx, "llm-trace", attrs...)
}

// NopSink discards all records.
type NopSink struct{}

func (NopSink) Emit(context.Context, Record) {}
