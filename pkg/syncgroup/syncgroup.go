// Package syncgroup wraps sync.WaitGroup so short-lived goroutine fan-outs
// cannot leak an Add without its Done.
package syncgroup

import "sync"

type groupFunc func()

// SyncGroup collects functions and runs each in its own goroutine.
type SyncGroup struct {
	wg  sync.WaitGroup
	mu  sync.Mutex
	fns []groupFunc
}

// NewSyncGroup creates an empty group.
func NewSyncGroup() *SyncGroup {
	return &SyncGroup{}
}

// Add queues fn for the next Run. Nil functions are ignored.
func (g *SyncGroup) Add(fn groupFunc) {
	if fn == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.fns = append(g.fns, fn)
}

// Run starts every queued function in its own goroutine and clears the
// queue so a Run cannot start the same function twice.
func (g *SyncGroup) Run() {
	g.mu.Lock()
	fns := g.fns
	g.fns = nil
	g.mu.Unlock()

	for _, fn := range fns {
		g.wg.Add(1)
		go func(do groupFunc) {
			defer g.wg.Done()
			do()
		}(fn)
	}
}

// Wait blocks until every started goroutine has finished.
func (g *SyncGroup) Wait() {
	g.wg.Wait()
}
