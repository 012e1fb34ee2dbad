package logging

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFieldsFromArgs(t *testing.T) {
	t.Parallel()

	failed := errors.New("result not published")
	fields := fieldsFromArgs([]any{
		"race_id", "summer-derby-2026",
		"attempt", 2,
		"cause", failed,
		42, "not-a-key",
		"dangling",
	})

	if len(fields) != 5 {
		t.Fatalf("field count: got=%d want=5", len(fields))
	}
	if fields[0].Key != "race_id" || fields[0].String != "summer-derby-2026" {
		t.Fatalf("unexpected race_id field: %+v", fields[0])
	}
	if fields[1].Key != "attempt" {
		t.Fatalf("unexpected attempt field: %+v", fields[1])
	}
	if fields[2].Key != "cause" || fields[2].Type != zapcore.ErrorType {
		t.Fatalf("error value should keep its key: %+v", fields[2])
	}
	if fields[3].Key != "arg" {
		t.Fatalf("non-string key should fall back to arg, got %q", fields[3].Key)
	}
	if fields[4].Key != "dangling" {
		t.Fatalf("dangling key should be kept, got %q", fields[4].Key)
	}
}

func TestWrite_AppendsTraceFieldsAndMirrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := &Logger{zap: zap.New(core)}

	var mirroredMsg string
	var mirroredLevel Level
	SetMirror(func(_ context.Context, level Level, msg string, _ ...any) {
		mirroredMsg = msg
		mirroredLevel = level
	})
	t.Cleanup(func() { SetMirror(nil) })

	logger.InfoContext(context.Background(), "prediction stored", "prediction_id", "pred-001")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("entry count: got=%d want=1", len(entries))
	}
	if entries[0].Message != "prediction stored" {
		t.Fatalf("message: got=%q", entries[0].Message)
	}
	fieldMap := entries[0].ContextMap()
	if fieldMap["prediction_id"] != "pred-001" {
		t.Fatalf("prediction_id field: got=%v", fieldMap["prediction_id"])
	}
	if _, ok := fieldMap["trace_id"]; ok {
		t.Fatalf("no trace_id expected without an active span")
	}
	if mirroredMsg != "prediction stored" || mirroredLevel != LevelInfo {
		t.Fatalf("mirror: got msg=%q level=%v", mirroredMsg, mirroredLevel)
	}
}

func TestWrite_RespectsLevel(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger := &Logger{zap: zap.New(core)}

	logger.Debug("hidden")
	logger.Info("also hidden")
	logger.Warn("visible")

	if got := logs.Len(); got != 1 {
		t.Fatalf("entry count: got=%d want=1", got)
	}
}
