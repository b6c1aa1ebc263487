// Package sinks provides destinations for recorded events.
package sinks

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	corev1 "k8s.io/api/core/v1"

	"github.com/dtomasi/storectl/core/events"
)

// LogSink implements EventSink by writing each event as a structured log line.
// Warning events are logged one level above normal events.
type LogSink struct {
	logger *zap.Logger
	level  zapcore.Level
}

// NewLogSink creates a sink logging normal events at level.
func NewLogSink(logger *zap.Logger, level zapcore.Level) events.EventSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger, level: level}
}

// Create logs the event.
func (s *LogSink) Create(event *corev1.Event) (*corev1.Event, error) {
	if event == nil {
		return nil, fmt.Errorf("event cannot be nil")
	}

	level := s.level
	if event.Type == events.EventTypeWarning && level < zapcore.FatalLevel {
		level++
	}

	if ce := s.logger.Check(level, "event"); ce != nil {
		ce.Write(
			zap.String("type", event.Type),
			zap.String("reason", event.Reason),
			zap.String("object", fmt.Sprintf("%s/%s", event.InvolvedObject.Kind, event.InvolvedObject.Name)),
			zap.String("message", event.Message),
			zap.String("component", event.Source.Component),
		)
	}
	return event, nil
}
