package collector

import (
	"fmt"
	"sync"
)

// PolicyFunc is the externally supplied oracle: given a length-D
// observation vector, it returns the chosen action, a log-probability, and
// a value estimate. It may be non-reentrant — the collector serializes
// calls to it through policyHandle rather than assuming it is safe to call
// concurrently from multiple worker goroutines. That is the collector's
// recommended default and is part of the contract with the policy author.
type PolicyFunc func(observation []float32) (action int, logProb float32, value float32, err error)

// policyHandle is the single shared, installed-then-cleared reference to
// the active request's policy. It is installed before jobs are enqueued and
// cleared only after all results for that request have been gathered — see
// spec's "global mutable state" design note. A mutex around the invocation
// itself is the serialization point for non-reentrant policies.
type policyHandle struct {
	mu sync.Mutex
	fn PolicyFunc
	on bool
}

func (p *policyHandle) set(fn PolicyFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fn = fn
	p.on = true
}

func (p *policyHandle) clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fn = nil
	p.on = false
}

// invoke calls the active policy with observation, serialized behind p.mu.
// A panic inside the callback is recovered and reported as an error rather
// than unwinding into the worker's goroutine.
func (p *policyHandle) invoke(observation []float32) (action int, logProb float32, value float32, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.on || p.fn == nil {
		return 0, 0, 0, ErrPolicyNotSet
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("policy panicked: %v", r)
		}
	}()

	return p.fn(observation)
}
