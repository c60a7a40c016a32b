// Package notify collects user-visible notices. Every transport failure and
// rollback produces one discrete, dismissable notice; nothing fails
// silently.
package notify

import (
	"sync"
	"time"

	"github.com/zero-coolio/ofc/internal/log"
)

type Severity string

const (
	Info  Severity = "info"
	Warn  Severity = "warn"
	Error Severity = "error"
)

// Notice is one pending notification.
type Notice struct {
	ID       int64
	Severity Severity
	Text     string
	At       time.Time
}

// Center holds active notices until they are dismissed.
type Center struct {
	mu     sync.Mutex
	seq    int64
	active []Notice
	logger *log.Logger
}

func NewCenter(logger *log.Logger) *Center {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentNotify)
	}
	return &Center{logger: logger}
}

// Post adds a notice and returns its id.
func (c *Center) Post(sev Severity, text string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.active = append(c.active, Notice{
		ID:       c.seq,
		Severity: sev,
		Text:     text,
		At:       time.Now(),
	})
	c.logger.Info("notice posted", "severity", string(sev), "text", text)
	return c.seq
}

// Dismiss removes the notice with the given id. Returns false if unknown.
func (c *Center) Dismiss(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.active {
		if n.ID == id {
			c.active = append(c.active[:i], c.active[i+1:]...)
			return true
		}
	}
	return false
}

// Active returns a snapshot of pending notices, oldest first.
func (c *Center) Active() []Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notice(nil), c.active...)
}
