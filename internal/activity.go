package internal

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hbomb79/Cadence/internal/event"
	"github.com/hbomb79/Cadence/pkg/logger"
)

const (
	DEBOUNCE_DURATION  time.Duration = time.Second * 2
	MAX_TIMER_DURATION time.Duration = time.Second * 5

	RAPID_EVENT_DEBOUNCE_DURATION  time.Duration = time.Millisecond * 500
	RAPID_EVENT_MAX_TIMER_DURATION time.Duration = time.Second * 2
)

type (
	broadcastHandler func(uuid.UUID) error

	broadcaster interface {
		BroadcastTaskUpdate(uuid.UUID) error
		BroadcastTaskProgressUpdate(uuid.UUID) error
		BroadcastTrackCreated(uuid.UUID) error
	}

	eventKey struct {
		ev event.Event
		id uuid.UUID
	}

	debounceWindow struct {
		debounce time.Duration
		max      time.Duration
	}

	// activityService listens for task events on the event bus and forwards them
	// to the broadcaster. Bursts of events for the same resource are debounced
	// so that websocket clients are not flooded with progress updates.
	activityService struct {
		*sync.Mutex
		broadcaster
		eventBus       event.EventHandler
		debounceTimers map[eventKey]*time.Timer
		maxTimers      map[eventKey]*time.Timer
		normal         debounceWindow
		rapid          debounceWindow
	}
)

func newActivityService(broadcaster broadcaster, event event.EventHandler) *activityService {
	return &activityService{
		Mutex:          &sync.Mutex{},
		broadcaster:    broadcaster,
		eventBus:       event,
		debounceTimers: make(map[eventKey]*time.Timer),
		maxTimers:      make(map[eventKey]*time.Timer),
		normal:         debounceWindow{DEBOUNCE_DURATION, MAX_TIMER_DURATION},
		rapid:          debounceWindow{RAPID_EVENT_DEBOUNCE_DURATION, RAPID_EVENT_MAX_TIMER_DURATION},
	}
}

func (service *activityService) Run(ctx context.Context) error {
	messageChan := make(chan event.HandlerEvent, 100)
	service.eventBus.RegisterHandlerChannel(messageChan,
		event.TASK_UPDATE, event.TASK_PROGRESS, event.TASK_COMPLETE, event.TRACK_CREATED)

	log.Emit(logger.NEW, "Activity service started\n")
	for {
		select {
		case ev := <-messageChan:
			if err := service.handleEvent(ev); err != nil {
				log.Emit(logger.ERROR, "Handling of event %v failed: %v\n", ev, err)
			}
		case <-ctx.Done():
			service.stopTimers()
			log.Emit(logger.STOP, "Activity service closed\n")
			return nil
		}
	}
}

func (service *activityService) handleEvent(ev event.HandlerEvent) error {
	resourceID, ok := ev.Payload.(uuid.UUID)
	if !ok {
		return errors.New("illegal payload (expected UUID)")
	}

	switch ev.Event {
	case event.TASK_UPDATE, event.TASK_COMPLETE:
		// Both events describe the same resource, so they share a debounce key
		service.scheduleEventBroadcast(eventKey{event.TASK_UPDATE, resourceID}, service.BroadcastTaskUpdate, service.normal)
	case event.TASK_PROGRESS:
		service.scheduleEventBroadcast(eventKey{ev.Event, resourceID}, service.BroadcastTaskProgressUpdate, service.rapid)
	case event.TRACK_CREATED:
		return service.BroadcastTrackCreated(resourceID)
	default:
		return errors.New("unknown event type")
	}

	return nil
}

func (service *activityService) scheduleEventBroadcast(resourceKey eventKey, handler broadcastHandler, window debounceWindow) {
	service.Lock()
	defer service.Unlock()

	broadcaster := func() { service.broadcast(resourceKey, handler) }

	// Cancel and re-set a debounce timer
	if t, ok := service.debounceTimers[resourceKey]; ok {
		t.Stop()
	}
	service.debounceTimers[resourceKey] = time.AfterFunc(window.debounce, broadcaster)

	// Set a max timer if not already set
	if _, ok := service.maxTimers[resourceKey]; !ok {
		service.maxTimers[resourceKey] = time.AfterFunc(window.max, broadcaster)
	}
}

// broadcast clears the timers for the resource and then invokes the handler. If both
// timers fire concurrently, only the first to acquire the lock will broadcast.
func (service *activityService) broadcast(resourceKey eventKey, handler broadcastHandler) {
	service.Lock()
	_, pending := service.debounceTimers[resourceKey]
	if t, ok := service.debounceTimers[resourceKey]; ok {
		t.Stop()
		delete(service.debounceTimers, resourceKey)
	}
	if t, ok := service.maxTimers[resourceKey]; ok {
		t.Stop()
		delete(service.maxTimers, resourceKey)
	}
	service.Unlock()

	if !pending {
		return
	}

	if err := handler(resourceKey.id); err != nil {
		log.Emit(logger.WARNING, "Broadcast of %s for %s failed: %v\n", resourceKey.ev, resourceKey.id, err)
	}
}

func (service *activityService) stopTimers() {
	service.Lock()
	defer service.Unlock()

	for key, t := range service.debounceTimers {
		t.Stop()
		delete(service.debounceTimers, key)
	}
	for key, t := range service.maxTimers {
		t.Stop()
		delete(service.maxTimers, key)
	}
}
