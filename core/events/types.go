// Package events records product lifecycle events as Kubernetes-style Event
// objects and fans them out to sinks and watchers.
package events

import (
	"fmt"
	"strconv"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/watch"

	storev1alpha1 "github.com/dtomasi/storectl/api/v1alpha1"
)

// EventRecorder provides a kubernetes-compatible interface for recording events.
type EventRecorder interface {
	// Event constructs an event from the given information and puts it in the queue for sending.
	// 'object' is the object this event is about. 'eventtype' is Normal or Warning.
	// 'reason' is short, unique and UpperCamelCase. 'message' is intended to be consumed by humans.
	Event(object runtime.Object, eventtype, reason, message string)

	// Eventf is just like Event, but with Sprintf for the message field.
	Eventf(object runtime.Object, eventtype, reason, messageFmt string, args ...interface{})
}

// EventBroadcaster manages multiple event sinks and watchers and distributes
// recorded events to all of them.
type EventBroadcaster interface {
	// StartRecordingToSink begins recording events to the given sink and returns
	// a watch.Interface that can be used to stop recording.
	StartRecordingToSink(sink EventSink) watch.Interface

	// StartEventWatcher begins watching events and calling the provided handler
	// function for each event. Returns a watch.Interface that can be used to stop watching.
	StartEventWatcher(eventHandler func(*corev1.Event)) watch.Interface

	// NewRecorder returns an EventRecorder that records to this broadcaster.
	NewRecorder(scheme *runtime.Scheme, source corev1.EventSource) EventRecorder

	// Shutdown delivers the queued events and stops the broadcaster.
	Shutdown()
}

// EventSink represents a destination for events.
type EventSink interface {
	// Create creates a new event in the sink.
	Create(event *corev1.Event) (*corev1.Event, error)
}

// Event types
const (
	// EventTypeNormal represents normal, informational events
	EventTypeNormal = corev1.EventTypeNormal

	// EventTypeWarning represents events that indicate problems or issues
	EventTypeWarning = corev1.EventTypeWarning
)

// Event reasons
const (
	// Normal event reasons
	ReasonCreated = "Created"
	ReasonUpdated = "Updated"
	ReasonDeleted = "Deleted"

	// Warning event reasons
	ReasonFailedCreate     = "FailedCreate"
	ReasonFailedUpdate     = "FailedUpdate"
	ReasonFailedDelete     = "FailedDelete"
	ReasonFailedValidation = "FailedValidation"
)

// NewEventSource creates the event source of a storectl component
func NewEventSource(component string) corev1.EventSource {
	return corev1.EventSource{
		Component: component,
		Host:      DefaultHost,
	}
}

// CreateObjectReference creates an ObjectReference from a runtime.Object
func CreateObjectReference(scheme *runtime.Scheme, obj runtime.Object) (corev1.ObjectReference, error) {
	if obj == nil {
		return corev1.ObjectReference{}, fmt.Errorf("cannot create reference for nil object")
	}

	gvks, _, err := scheme.ObjectKinds(obj)
	if err != nil {
		return corev1.ObjectReference{}, fmt.Errorf("failed to get object kind: %w", err)
	}
	if len(gvks) == 0 {
		return corev1.ObjectReference{}, fmt.Errorf("no GroupVersionKind found for object")
	}

	gvk := gvks[0]
	return corev1.ObjectReference{
		Kind:       gvk.Kind,
		Name:       objectName(obj),
		APIVersion: gvk.GroupVersion().String(),
	}, nil
}

// objectName names products by id, or by title before the catalog assigned one.
func objectName(obj runtime.Object) string {
	switch o := obj.(type) {
	case *storev1alpha1.Product:
		if o.ID == 0 {
			return o.Title
		}
		return strconv.Itoa(o.ID)
	case *storev1alpha1.Category:
		return o.Name
	case metav1.Object:
		return o.GetName()
	default:
		return ""
	}
}

// EventMetrics provides metrics about event recording and broadcasting
type EventMetrics struct {
	// EventsRecorded counts the total number of events recorded
	EventsRecorded int64

	// EventsDropped counts the number of events that were dropped due to errors
	EventsDropped int64

	// SinksActive counts the number of active event sinks
	SinksActive int32

	// WatchersActive counts the number of active event watchers
	WatchersActive int32
}

// EventRecorderOptions provides configuration options for creating an EventRecorder
type EventRecorderOptions struct {
	// Scheme is the runtime scheme used for object kind resolution
	Scheme *runtime.Scheme

	// Source identifies the component recording events
	Source corev1.EventSource

	// Clock allows injection of a custom clock for testing
	Clock Clock
}

// Clock provides time-related functionality that can be mocked for testing
type Clock interface {
	Now() metav1.Time
}

// RealClock implements Clock using real time
type RealClock struct{}

// Now returns the current time
func (RealClock) Now() metav1.Time {
	return metav1.Now()
}

// EventBroadcasterOptions provides configuration options for creating an EventBroadcaster
type EventBroadcasterOptions struct {
	// QueueSize is the size of the internal event queue
	QueueSize int

	// Clock allows injection of a custom clock for testing
	Clock Clock
}

// Default values for event system configuration
const (
	DefaultEventQueueSize = 1000
	DefaultComponent      = "storectl"
	DefaultHost           = "storectl"
)
