// Package health reports whether the directory backend is reachable.
package health

import (
	"context"
	"time"
)

// Pinger is anything that can confirm connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type DependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type Report struct {
	Status       string                      `json:"status"`
	Dependencies map[string]DependencyStatus `json:"dependencies"`
}

// Healthy reports whether every dependency answered.
func (r Report) Healthy() bool { return r.Status == "ok" }

// Checker pings a fixed set of named dependencies.
type Checker struct {
	deps    map[string]Pinger
	timeout time.Duration
}

func NewChecker(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Checker{deps: make(map[string]Pinger), timeout: timeout}
}

// Register adds a dependency under name, replacing any previous one.
func (c *Checker) Register(name string, p Pinger) {
	c.deps[name] = p
}

// Check pings every dependency within the checker's timeout.
func (c *Checker) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	deps := make(map[string]DependencyStatus, len(c.deps))
	healthy := true
	for name, p := range c.deps {
		if err := p.Ping(ctx); err != nil {
			deps[name] = DependencyStatus{Status: "unhealthy", Error: err.Error()}
			healthy = false
			continue
		}
		deps[name] = DependencyStatus{Status: "ok"}
	}

	status := "ok"
	if !healthy {
		status = "degraded"
	}
	return Report{Status: status, Dependencies: deps}
}
