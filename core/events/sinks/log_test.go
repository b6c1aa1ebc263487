package sinks_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	corev1 "k8s.io/api/core/v1"

	"github.com/dtomasi/storectl/core/events"
	"github.com/dtomasi/storectl/core/events/sinks"
)

var _ = Describe("LogSink", func() {
	var (
		logs *observer.ObservedLogs
		sink events.EventSink
	)

	BeforeEach(func() {
		var core zapcore.Core
		core, logs = observer.New(zapcore.DebugLevel)
		sink = sinks.NewLogSink(zap.New(core), zapcore.DebugLevel)
	})

	newEvent := func(eventtype, reason string) *corev1.Event {
		return &corev1.Event{
			InvolvedObject: corev1.ObjectReference{Kind: "Product", Name: "3"},
			Type:           eventtype,
			Reason:         reason,
			Message:        "Created product \"Lamp\"",
			Source:         events.NewEventSource("storectl"),
		}
	}

	It("should log normal events at the configured level", func() {
		_, err := sink.Create(newEvent(events.EventTypeNormal, events.ReasonCreated))
		Expect(err).NotTo(HaveOccurred())

		entries := logs.All()
		Expect(entries).To(HaveLen(1))
		Expect(entries[0].Level).To(Equal(zapcore.DebugLevel))
		Expect(entries[0].Message).To(Equal("event"))
		fields := entries[0].ContextMap()
		Expect(fields).To(HaveKeyWithValue("reason", "Created"))
		Expect(fields).To(HaveKeyWithValue("object", "Product/3"))
		Expect(fields).To(HaveKeyWithValue("component", "storectl"))
	})

	It("should log warnings one level higher", func() {
		_, err := sink.Create(newEvent(events.EventTypeWarning, events.ReasonFailedCreate))
		Expect(err).NotTo(HaveOccurred())
		Expect(logs.All()[0].Level).To(Equal(zapcore.InfoLevel))
	})

	It("should reject nil events", func() {
		_, err := sink.Create(nil)
		Expect(err).To(MatchError("event cannot be nil"))
	})
})
