package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogLevelString(t *testing.T) {
	cases := map[LogLevel]string{
		LogLevelDebug: "DEBUG",
		LogLevelInfo:  "INFO",
		LogLevelWarn:  "WARN",
		LogLevelError: "ERROR",
		LogLevel(42):  "UNKNOWN",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Errorf("LogLevel(%d).String() = %q, want %q", level, got, want)
		}
	}
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(slog.New(slog.NewJSONHandler(&buf, nil)))

	adapter.Info("conversation created", "conversation_id", "conv_1234abcd")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["msg"] != "conversation created" {
		t.Errorf("msg = %v, want %q", entry["msg"], "conversation created")
	}
	if entry["conversation_id"] != "conv_1234abcd" {
		t.Errorf("conversation_id = %v, want conv_1234abcd", entry["conversation_id"])
	}
}

func TestParleyLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LogLevelWarn, Format: "json", Output: &buf})

	logger.Debug("hidden")
	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected debug/info to be suppressed at warn level, got %q", buf.String())
	}

	logger.Warn("visible")
	if !strings.Contains(buf.String(), "visible") {
		t.Errorf("warn message not written: %q", buf.String())
	}
}

func TestParleyLoggerKeyValueArgs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})

	logger.Info("message accepted", "message_type", "accept", "attempt", 2)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["message_type"] != "accept" {
		t.Errorf("message_type = %v, want accept", entry["message_type"])
	}
	if entry["attempt"] != float64(2) {
		t.Errorf("attempt = %v, want 2", entry["attempt"])
	}
}

func TestParleyLoggerWithConversation(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})

	logger.WithConversation("conv_9f3a21bc", "negotiation").WithComponent("engine").Info("state changed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["conversation_id"] != "conv_9f3a21bc" {
		t.Errorf("conversation_id = %v", entry["conversation_id"])
	}
	if entry["protocol_id"] != "negotiation" {
		t.Errorf("protocol_id = %v", entry["protocol_id"])
	}
	if entry["component"] != "engine" {
		t.Errorf("component = %v", entry["component"])
	}
}

func TestParleyLoggerWithConversationDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})
	parent.WithContext("extra", "child-only")

	parent.Info("parent entry")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if _, ok := entry["extra"]; ok {
		t.Error("WithContext mutated the parent logger")
	}
}

func TestLogDelivery(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})

	logger.LogDelivery("counter_proposal", "consideration", "consideration", true, nil)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["msg"] != "Message accepted" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["message_type"] != "counter_proposal" {
		t.Errorf("message_type = %v", entry["message_type"])
	}
}

func TestLogArchiveSweep(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "json", Output: &buf})

	logger.LogArchiveSweep(10, 3, 25*time.Millisecond)

	out := buf.String()
	if !strings.Contains(out, "Archive sweep completed") {
		t.Errorf("missing sweep message: %q", out)
	}
	if !strings.Contains(out, `"archived":3`) {
		t.Errorf("missing archived count: %q", out)
	}
}

func TestNoOpLogger(t *testing.T) {
	var logger Logger = NoOpLogger{}
	logger.Debug("d")
	logger.Info("i", "k", "v")
	logger.Warn("w")
	logger.Error("e", "err", "boom")
}

func TestZapAdapter(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	adapter := NewZapAdapter(zap.New(core))

	adapter.Info("protocol registered", "protocol_id", "info_exchange", "version", "1.0")
	adapter.Warn("message rejected", "error", "invalid message for current state")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Message != "protocol registered" {
		t.Errorf("message = %q", entries[0].Message)
	}
	ctx := entries[0].ContextMap()
	if ctx["protocol_id"] != "info_exchange" {
		t.Errorf("protocol_id = %v", ctx["protocol_id"])
	}
	if entries[1].Level != zapcore.WarnLevel {
		t.Errorf("level = %v, want warn", entries[1].Level)
	}
}

func TestParseZapLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseZapLevel(in); got != want {
			t.Errorf("parseZapLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
