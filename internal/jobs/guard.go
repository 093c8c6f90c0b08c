package jobs

import "sync"

// runGuard lets one run through at a time and turns the rest away
type runGuard struct {
	mu      sync.Mutex
	running bool
}

// Running reports whether a run is in progress
func (g *runGuard) Running() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running
}

func (g *runGuard) acquire() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running {
		return false
	}
	g.running = true
	return true
}

func (g *runGuard) release() {
	g.mu.Lock()
	g.running = false
	g.mu.Unlock()
}
