package events

import (
	"fmt"
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/uuid"
)

// eventRecorder implements the EventRecorder interface
type eventRecorder struct {
	scheme      *runtime.Scheme
	source      corev1.EventSource
	broadcaster *eventBroadcaster
	clock       Clock
}

// NewEventRecorder creates a new EventRecorder instance
func NewEventRecorder(broadcaster EventBroadcaster, options EventRecorderOptions) EventRecorder {
	if options.Clock == nil {
		options.Clock = RealClock{}
	}
	br, _ := broadcaster.(*eventBroadcaster)

	return &eventRecorder{
		scheme:      options.Scheme,
		source:      options.Source,
		broadcaster: br,
		clock:       options.Clock,
	}
}

// Event constructs an event from the given information and records it
func (r *eventRecorder) Event(object runtime.Object, eventtype, reason, message string) {
	r.recordEvent(object, eventtype, reason, message)
}

// Eventf is just like Event, but with Sprintf for the message field
func (r *eventRecorder) Eventf(object runtime.Object, eventtype, reason, messageFmt string, args ...interface{}) {
	r.recordEvent(object, eventtype, reason, fmt.Sprintf(messageFmt, args...))
}

func (r *eventRecorder) recordEvent(object runtime.Object, eventtype, reason, message string) {
	if r.broadcaster == nil {
		return
	}

	objRef, err := CreateObjectReference(r.scheme, object)
	if err != nil {
		return
	}

	r.broadcaster.recordEvent(r.createEvent(objRef, eventtype, reason, message))
}

// createEvent creates a new Event object with the given parameters
func (r *eventRecorder) createEvent(objRef corev1.ObjectReference, eventtype, reason, message string) *corev1.Event {
	now := r.clock.Now()

	return &corev1.Event{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "Event",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name: fmt.Sprintf("%s.%s", eventObjectName(objRef), generateEventSuffix()),
		},
		InvolvedObject:      objRef,
		Reason:              reason,
		Message:             message,
		Type:                eventtype,
		FirstTimestamp:      now,
		LastTimestamp:       now,
		Count:               1,
		Source:              r.source,
		ReportingController: r.source.Component,
		ReportingInstance:   r.source.Host,
	}
}

// eventObjectName turns a reference into a DNS-label-like name prefix.
func eventObjectName(ref corev1.ObjectReference) string {
	name := strings.ToLower(ref.Kind) + "-" + ref.Name
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' {
			return r
		}
		return '-'
	}, strings.ToLower(name))
}

// generateEventSuffix generates a unique suffix for event names
func generateEventSuffix() string {
	uid := uuid.NewUUID()
	return string(uid)[:8]
}

// nopRecorder drops every event.
type nopRecorder struct{}

// NewNopRecorder returns a recorder that discards events.
func NewNopRecorder() EventRecorder {
	return nopRecorder{}
}

func (nopRecorder) Event(runtime.Object, string, string, string) {}

func (nopRecorder) Eventf(runtime.Object, string, string, string, ...interface{}) {}
