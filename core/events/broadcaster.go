package events

import (
	"sync"
	"sync/atomic"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/watch"
)

// eventBroadcaster implements the EventBroadcaster interface. A single
// goroutine delivers events in the order they were recorded.
type eventBroadcaster struct {
	mu        sync.RWMutex
	sinks     map[int]EventSink
	watchers  map[int]func(*corev1.Event)
	nextID    int
	eventChan chan *corev1.Event
	done      chan struct{}
	metrics   EventMetrics
	options   EventBroadcasterOptions
	started   bool
	stopped   bool
}

// registration implements watch.Interface for a sink or watcher
type registration struct {
	id          int
	resultCh    chan watch.Event
	broadcaster *eventBroadcaster
	once        sync.Once
}

// NewEventBroadcaster creates a new EventBroadcaster instance
func NewEventBroadcaster(options EventBroadcasterOptions) EventBroadcaster {
	if options.QueueSize <= 0 {
		options.QueueSize = DefaultEventQueueSize
	}
	if options.Clock == nil {
		options.Clock = RealClock{}
	}

	return &eventBroadcaster{
		sinks:     make(map[int]EventSink),
		watchers:  make(map[int]func(*corev1.Event)),
		eventChan: make(chan *corev1.Event, options.QueueSize),
		done:      make(chan struct{}),
		options:   options,
	}
}

// StartRecordingToSink begins recording events to the given sink
func (b *eventBroadcaster) StartRecordingToSink(sink EventSink) watch.Interface {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.register()
	b.sinks[id] = sink
	atomic.AddInt32(&b.metrics.SinksActive, 1)

	return &registration{id: id, resultCh: make(chan watch.Event), broadcaster: b}
}

// StartEventWatcher begins watching events and calling the provided handler
func (b *eventBroadcaster) StartEventWatcher(eventHandler func(*corev1.Event)) watch.Interface {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.register()
	b.watchers[id] = eventHandler
	atomic.AddInt32(&b.metrics.WatchersActive, 1)

	return &registration{id: id, resultCh: make(chan watch.Event), broadcaster: b}
}

// register allocates an id and starts the delivery loop on first use. b.mu must be held.
func (b *eventBroadcaster) register() int {
	id := b.nextID
	b.nextID++

	if !b.started && !b.stopped {
		b.started = true
		go b.run()
	}
	return id
}

// NewRecorder returns an EventRecorder that records to this broadcaster
func (b *eventBroadcaster) NewRecorder(scheme *runtime.Scheme, source corev1.EventSource) EventRecorder {
	return NewEventRecorder(b, EventRecorderOptions{
		Scheme: scheme,
		Source: source,
		Clock:  b.options.Clock,
	})
}

// Shutdown stops accepting events, delivers the queued ones and waits for
// the delivery loop to exit.
func (b *eventBroadcaster) Shutdown() {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return
	}
	b.stopped = true
	close(b.eventChan)
	started := b.started
	b.mu.Unlock()

	if started {
		<-b.done
	}

	atomic.StoreInt32(&b.metrics.SinksActive, 0)
	atomic.StoreInt32(&b.metrics.WatchersActive, 0)
}

// run is the main event distribution loop
func (b *eventBroadcaster) run() {
	defer close(b.done)
	for event := range b.eventChan {
		b.distributeEvent(event)
	}
}

// distributeEvent sends an event to all registered sinks and watchers
func (b *eventBroadcaster) distributeEvent(event *corev1.Event) {
	b.mu.RLock()
	sinks := make([]EventSink, 0, len(b.sinks))
	for _, sink := range b.sinks {
		sinks = append(sinks, sink)
	}
	watchers := make([]func(*corev1.Event), 0, len(b.watchers))
	for _, handler := range b.watchers {
		watchers = append(watchers, handler)
	}
	b.mu.RUnlock()

	for _, sink := range sinks {
		if _, err := sink.Create(event.DeepCopy()); err != nil {
			atomic.AddInt64(&b.metrics.EventsDropped, 1)
		}
	}
	for _, handler := range watchers {
		handler(event.DeepCopy())
	}
}

// recordEvent is called by the EventRecorder to queue an event
func (b *eventBroadcaster) recordEvent(event *corev1.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.stopped {
		atomic.AddInt64(&b.metrics.EventsDropped, 1)
		return
	}

	select {
	case b.eventChan <- event:
		atomic.AddInt64(&b.metrics.EventsRecorded, 1)
	default:
		// Queue is full, drop the event
		atomic.AddInt64(&b.metrics.EventsDropped, 1)
	}
}

// GetMetrics returns current metrics for the broadcaster
func (b *eventBroadcaster) GetMetrics() EventMetrics {
	return EventMetrics{
		EventsRecorded: atomic.LoadInt64(&b.metrics.EventsRecorded),
		EventsDropped:  atomic.LoadInt64(&b.metrics.EventsDropped),
		SinksActive:    atomic.LoadInt32(&b.metrics.SinksActive),
		WatchersActive: atomic.LoadInt32(&b.metrics.WatchersActive),
	}
}

// Stop unregisters the sink or watcher
func (r *registration) Stop() {
	r.once.Do(func() {
		b := r.broadcaster
		b.mu.Lock()
		if _, ok := b.sinks[r.id]; ok {
			delete(b.sinks, r.id)
			atomic.AddInt32(&b.metrics.SinksActive, -1)
		}
		if _, ok := b.watchers[r.id]; ok {
			delete(b.watchers, r.id)
			atomic.AddInt32(&b.metrics.WatchersActive, -1)
		}
		b.mu.Unlock()
		close(r.resultCh)
	})
}

// ResultChan returns the channel for watch results. Events are delivered to
// the sink or handler, so the channel only reports that Stop was called.
func (r *registration) ResultChan() <-chan watch.Event {
	return r.resultCh
}

var _ watch.Interface = (*registration)(nil)
