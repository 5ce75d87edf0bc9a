// Package notify delivers user-facing feedback events.
package notify

import (
	"log"
	"sync"
)

// Level is the severity of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is one user-facing feedback event.
type Notice struct {
	Level   Level
	Message string
}

// Sink consumes notification events. Delivery is fire-and-forget; the core
// never reads anything back.
type Sink interface {
	Notify(level Level, message string)
}

// Funcs adapts plain functions to the Sink interface for tests and glue code.
type Funcs func(level Level, message string)

func (f Funcs) Notify(level Level, message string) { f(level, message) }

// Feed is a bounded in-memory sink. The web layer drains it to render toasts;
// old notices are dropped once the buffer is full.
type Feed struct {
	mu      sync.Mutex
	notices []Notice
	limit   int
	logger  *log.Logger
}

// NewFeed creates a feed retaining at most limit notices.
func NewFeed(limit int, logger *log.Logger) *Feed {
	if limit <= 0 {
		limit = 16
	}
	return &Feed{limit: limit, logger: logger}
}

// Notify records a notice and mirrors it to the logger when one is set.
func (f *Feed) Notify(level Level, message string) {
	if f.logger != nil {
		f.logger.Printf("notify %s: %s", level, message)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.notices = append(f.notices, Notice{Level: level, Message: message})
	if len(f.notices) > f.limit {
		f.notices = f.notices[len(f.notices)-f.limit:]
	}
}

// Drain returns the accumulated notices and clears the feed.
func (f *Feed) Drain() []Notice {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.notices
	f.notices = nil
	return out
}
