package service

import (
	"sync"
)

// allJobs is the subscription key that receives events of every job.
const allJobs = "*"

const (
	EventStarted = "started"
	EventFrame   = "frame"
	EventDone    = "done"
	EventFailed  = "failed"
)

type Event struct {
	JobID   string
	Type    string
	Frame   int
	Total   int
	Message string
}

type EventPublisher interface {
	Publish(jobID string, event Event)
}

type EventBus struct {
	subscribers map[string][]chan Event
	mu          sync.RWMutex
}

func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[string][]chan Event),
	}
}

func (eb *EventBus) Subscribe(jobID string) chan Event {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	ch := make(chan Event, 64)
	eb.subscribers[jobID] = append(eb.subscribers[jobID], ch)
	return ch
}

// SubscribeAll returns a channel receiving the events of every job.
func (eb *EventBus) SubscribeAll() chan Event {
	return eb.Subscribe(allJobs)
}

func (eb *EventBus) Unsubscribe(jobID string, ch chan Event) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	subs := eb.subscribers[jobID]
	for i, sub := range subs {
		if sub == ch {
			eb.subscribers[jobID] = append(subs[:i], subs[i+1:]...)
			close(ch)
			break
		}
	}

	if len(eb.subscribers[jobID]) == 0 {
		delete(eb.subscribers, jobID)
	}
}

func (eb *EventBus) UnsubscribeAll(ch chan Event) {
	eb.Unsubscribe(allJobs, ch)
}

func (eb *EventBus) Publish(jobID string, event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	event.JobID = jobID
	for _, key := range [...]string{jobID, allJobs} {
		for _, ch := range eb.subscribers[key] {
			select {
			case ch <- event:
			default:
				// Drop event if subscriber is slow
			}
		}
	}
}
