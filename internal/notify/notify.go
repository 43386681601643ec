// Package notify carries transient user-facing toast messages from wherever
// they originate (the HTTP pipeline, page handlers) to whoever renders them
// (the SSE event stream).
package notify

import (
	"sync"
	"time"
)

// Severity classifies a toast for presentation.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarn    Severity = "warn"
	SeverityError   Severity = "error"
)

// DefaultLife is how long a toast stays on screen unless configured otherwise.
const DefaultLife = 5 * time.Second

// Toast is a single transient notification.
type Toast struct {
	Severity Severity `json:"severity"`
	Summary  string   `json:"summary"`
	Detail   string   `json:"detail"`
	LifeMS   int64    `json:"life"`
}

// Notifier is the publishing side of the toast channel.
type Notifier interface {
	Publish(t Toast)
}

// Center is an in-process pub/sub hub for toasts. Publish never blocks:
// subscribers that lag lose older toasts in favor of newer ones.
type Center struct {
	mu     sync.Mutex
	subs   map[int]chan Toast
	nextID int
	life   time.Duration
}

// NewCenter creates a Center. life is the default display lifetime stamped
// onto toasts published without one; non-positive values fall back to
// DefaultLife.
func NewCenter(life time.Duration) *Center {
	if life <= 0 {
		life = DefaultLife
	}
	return &Center{
		subs: make(map[int]chan Toast),
		life: life,
	}
}

// Publish stamps the default lifetime if the toast has none and fans the
// toast out to all current subscribers.
func (c *Center) Publish(t Toast) {
	if t.LifeMS <= 0 {
		t.LifeMS = c.life.Milliseconds()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ch := range c.subs {
		select {
		case ch <- t:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- t:
			default:
			}
		}
	}
}

// Error publishes an error toast with the given detail.
func (c *Center) Error(summary, detail string) {
	c.Publish(Toast{Severity: SeverityError, Summary: summary, Detail: detail})
}

// Success publishes a success toast with the given detail.
func (c *Center) Success(summary, detail string) {
	c.Publish(Toast{Severity: SeveritySuccess, Summary: summary, Detail: detail})
}

// Subscribe registers a toast listener with a small buffer. The cancel
// function removes the subscription and closes the channel.
func (c *Center) Subscribe() (<-chan Toast, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextID
	c.nextID++
	ch := make(chan Toast, 8)
	c.subs[id] = ch

	cancel := func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			delete(c.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}
