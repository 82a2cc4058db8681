// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package telemetry provides utilities for setting up and configuring
// application observability, including logging, tracing, and metrics.
// This file wires structured logging for the scene-script service: a JSON
// slog handler shaped for Google Cloud Logging, with OpenTelemetry trace
// context injected into every record so script generation requests can be
// followed from an API call or Pub/Sub message down through the pipeline.
package telemetry

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/trace"
)

const (
	// logFileName is the local log sink next to the service binary. Stdout
	// carries the same stream for Cloud Logging to pick up.
	logFileName = "scene-script.log"
	// serviceAttrValue tags every record with the emitting service.
	serviceAttrValue = "scene-script"
)

// traceContextLogHandler wraps another slog.Handler and stamps each record
// with the OpenTelemetry trace and span IDs found on the context, using the
// field names Cloud Logging requires for automatic log-to-trace correlation.
type traceContextLogHandler struct {
	slog.Handler
}

// newTraceContextLogHandler wraps the given base handler.
func newTraceContextLogHandler(handler slog.Handler) *traceContextLogHandler {
	return &traceContextLogHandler{Handler: handler}
}

// Handle runs for every log record. When the context carries a valid span,
// the trace ID, span ID, and sampling flag are attached under the special
// Cloud Logging payload fields.
// See: https://cloud.google.com/logging/docs/structured-logging#special-payload-fields
func (t *traceContextLogHandler) Handle(ctx context.Context, record slog.Record) error {
	if s := trace.SpanContextFromContext(ctx); s.IsValid() {
		record.AddAttrs(
			slog.Any("logging.googleapis.com/trace", s.TraceID()),
			slog.Any("logging.googleapis.com/spanId", s.SpanID()),
			slog.Bool("logging.googleapis.com/trace_sampled", s.TraceFlags().IsSampled()),
		)
	}
	return t.Handler.Handle(ctx, record)
}

// cloudLoggingAttrs renames slog's default attribute keys ("level", "time",
// "msg") to the keys Cloud Logging parses ("severity", "timestamp",
// "message") so records land with the right severity and timestamp in the
// console.
func cloudLoggingAttrs(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.LevelKey:
		a.Key = "severity"
		// Cloud Logging's LogSeverity enum spells this one differently.
		// https://cloud.google.com/logging/docs/reference/v2/rest/v2/LogEntry#LogSeverity
		if level := a.Value.Any().(slog.Level); level == slog.LevelWarn {
			a.Value = slog.StringValue("WARNING")
		}
	case slog.TimeKey:
		a.Key = "timestamp"
	case slog.MessageKey:
		a.Key = "message"
	}
	return a
}

// SetupLogging initializes logging for the whole service. Both the standard
// `log` package and `slog` write JSON-friendly output to stdout and to the
// local scene-script.log file, and every slog record carries the service
// name plus any active trace context.
func SetupLogging() {
	// Created fresh on startup, truncated if it already exists.
	file, _ := os.Create(logFileName)
	multiWriter := io.MultiWriter(os.Stdout, file)

	// The standard log package is still used by the pipeline commands and
	// listeners, so point it at the same sinks.
	log.SetOutput(multiWriter)
	log.SetPrefix("[INFO] ")
	log.SetFlags(log.Ldate | log.Ltime)

	jsonHandler := slog.NewJSONHandler(multiWriter, &slog.HandlerOptions{ReplaceAttr: cloudLoggingAttrs})
	instrumentedHandler := newTraceContextLogHandler(jsonHandler.WithAttrs(
		[]slog.Attr{slog.String("service", serviceAttrValue)}))

	slog.SetDefault(slog.New(instrumentedHandler))
	slog.SetLogLoggerLevel(slog.LevelInfo)
}
