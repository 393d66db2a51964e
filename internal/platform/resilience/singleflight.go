package resilience

import "sync"

// SingleFlight collapses concurrent loads of the same key into a single
// call. The standings cache leans on it so a cold standings table is
// computed once even when many readers miss at the same moment.
type SingleFlight struct {
	mu       sync.Mutex
	inflight map[string]*flightResult
}

type flightResult struct {
	done chan struct{}
	val  any
	err  error
}

// Do runs fn at most once per key at a time. Callers that arrive while a
// run for the same key is in flight block until it finishes and receive
// the leader's result, with shared set to true.
func (g *SingleFlight) Do(key string, fn func() (any, error)) (val any, err error, shared bool) {
	g.mu.Lock()
	if g.inflight == nil {
		g.inflight = make(map[string]*flightResult)
	}
	if r, ok := g.inflight[key]; ok {
		g.mu.Unlock()
		<-r.done
		return r.val, r.err, true
	}

	r := &flightResult{done: make(chan struct{})}
	g.inflight[key] = r
	g.mu.Unlock()

	r.val, r.err = fn()
	close(r.done)

	g.mu.Lock()
	delete(g.inflight, key)
	g.mu.Unlock()

	return r.val, r.err, false
}
