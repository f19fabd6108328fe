// Package notify implements the process-wide notification service. It is an
// injected service with explicit subscribe and publish operations, not a
// package-level singleton: the router owns one instance and hands it to the
// handlers that publish.
package notify

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Level of a notification, mapped to toast styling by consumers.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is one message published to all current subscribers.
type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Service fans notifications out to subscribers. The zero value is not
// usable, construct with New.
type Service struct {
	mu          sync.Mutex
	subscribers map[int]chan Notification
	nextID      int
}

// subscriberBuffer is the per-subscriber queue length. A subscriber that
// falls further behind loses messages instead of stalling publishers.
const subscriberBuffer = 16

func New() *Service {
	return &Service{
		subscribers: make(map[int]chan Notification),
	}
}

// Subscribe registers a new subscriber. The returned cancel function
// deregisters it and closes the channel; callers must invoke it when they
// stop listening.
func (s *Service) Subscribe() (<-chan Notification, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	ch := make(chan Notification, subscriberBuffer)
	s.subscribers[id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if ch, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(ch)
		}
	}

	return ch, cancel
}

// Publish delivers the notification to every current subscriber without
// blocking.
func (s *Service) Publish(n Notification) {
	if n.Time.IsZero() {
		n.Time = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, ch := range s.subscribers {
		select {
		case ch <- n:
		default:
			log.Debug().Int("subscriber", id).Msg("notification subscriber full, dropping message")
		}
	}
}

// Subscribers returns the current subscriber count.
func (s *Service) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.subscribers)
}
