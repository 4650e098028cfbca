package store

import (
	"fmt"
	"sync"
)

type Mode int

const (
	Read Mode = iota + 1
	Write
)

// Locks serializes load-validate-save cycles with one RWMutex per
// collection. Acquire always locks in registration order, so callers that
// need several collections cannot deadlock each other.
type Locks struct {
	order []string
	mu    map[string]*sync.RWMutex
}

func NewLocks(names ...string) *Locks {
	l := &Locks{
		order: append([]string(nil), names...),
		mu:    make(map[string]*sync.RWMutex, len(names)),
	}
	for _, name := range names {
		l.mu[name] = &sync.RWMutex{}
	}
	return l
}

// Acquire takes every requested lock and returns the matching release.
func (l *Locks) Acquire(want map[string]Mode) (release func()) {
	for name := range want {
		if _, ok := l.mu[name]; !ok {
			panic(fmt.Sprintf("store: no lock registered for %q", name))
		}
	}

	type held struct {
		mu   *sync.RWMutex
		mode Mode
	}
	taken := make([]held, 0, len(want))
	for _, name := range l.order {
		mode, ok := want[name]
		if !ok {
			continue
		}
		mu := l.mu[name]
		if mode == Write {
			mu.Lock()
		} else {
			mu.RLock()
		}
		taken = append(taken, held{mu: mu, mode: mode})
	}

	return func() {
		for i := len(taken) - 1; i >= 0; i-- {
			if taken[i].mode == Write {
				taken[i].mu.Unlock()
			} else {
				taken[i].mu.RUnlock()
			}
		}
	}
}
