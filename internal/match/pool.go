// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match resolves local registry projects to Horizon IDs through a
// cascade of exact-key joins and fuzzy title similarity over a shared
// candidate pool.
package match

import "github.com/pdiddy/horizon-oa/pkg/types"

// Pool is the mutable working set of not-yet-matched graph candidates. It
// is owned by a single resolution run: every accepted match consumes its
// candidate so no two local projects can claim the same external record.
//
// The pool is an explicit value threaded through the resolver, never
// package state, because pool mutation makes fuzzy outcomes depend on
// processing order; the resolver keeps that order fixed.
type Pool struct {
	remaining []types.GraphCandidate
}

// NewPool builds a pool over the given candidates, preserving input order.
func NewPool(candidates []types.GraphCandidate) *Pool {
	p := &Pool{remaining: make([]types.GraphCandidate, len(candidates))}
	copy(p.remaining, candidates)
	return p
}

// Remaining returns the not-yet-consumed candidates in stable order. The
// returned slice is the pool's own backing store; callers must not mutate it.
func (p *Pool) Remaining() []types.GraphCandidate {
	return p.remaining
}

// Len returns the number of remaining candidates.
func (p *Pool) Len() int {
	return len(p.remaining)
}

// Consume removes the first candidate whose code equals code, reporting
// whether one was found. Consuming a code that is not in the pool is fine:
// exact-stage matches can name a Horizon ID the graph pull never saw.
func (p *Pool) Consume(code string) bool {
	for i, c := range p.remaining {
		if c.Code == code {
			p.remaining = append(p.remaining[:i], p.remaining[i+1:]...)
			return true
		}
	}
	return false
}
