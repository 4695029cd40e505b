// Package search debounces room browser filter changes into backend searches.
//
// Every change to the term or the category selection re-arms one timer; only
// when the timer fires is a search issued, carrying the filter as it is at
// that moment. Results are delivered through a callback. A newer search
// cancels the one in flight, and completions of superseded searches are
// dropped.
package search

import (
	"context"
	"sync"
	"time"

	"github.com/Skotchmaster/mindmates/internal/api"
	"github.com/Skotchmaster/mindmates/internal/logging"
)

const DefaultDelay = 500 * time.Millisecond

type Status int

const (
	Loading Status = iota
	Success
	Failed
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Failed:
		return "error"
	}
	return "unknown"
}

type Result struct {
	Status Status
	Query  api.SearchQuery
	Rooms  []api.Room
	Err    error
}

type Searcher interface {
	Search(ctx context.Context, q api.SearchQuery) ([]api.Room, error)
}

type stopper interface {
	Stop() bool
}

type afterFunc func(d time.Duration, f func()) stopper

type Option func(*Orchestrator)

func WithDelay(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.delay = d
		}
	}
}

type Orchestrator struct {
	base   context.Context
	search Searcher
	notify func(Result)
	delay  time.Duration
	after  afterFunc

	mu     sync.Mutex
	term   string
	cats   []string
	timer  stopper
	armed  uint64
	seq    uint64
	cancel context.CancelFunc
	closed bool

	// held while a callback runs so Close can wait it out
	notifyMu sync.Mutex
}

// New builds an orchestrator reporting to notify. notify must not call Close.
func New(ctx context.Context, s Searcher, notify func(Result), opts ...Option) *Orchestrator {
	o := &Orchestrator{
		base:   ctx,
		search: s,
		notify: notify,
		delay:  DefaultDelay,
		after: func(d time.Duration, f func()) stopper {
			return time.AfterFunc(d, f)
		},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Query is the current filter.
func (o *Orchestrator) Query() api.SearchQuery {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshot()
}

func (o *Orchestrator) SetTerm(term string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.term = term
	o.arm()
}

// Toggle adds category at the end of the selection, or removes it when it is
// already selected.
func (o *Orchestrator) Toggle(category string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	for i, c := range o.cats {
		if c == category {
			o.cats = append(o.cats[:i], o.cats[i+1:]...)
			o.arm()
			return
		}
	}
	o.cats = append(o.cats, category)
	o.arm()
}

// SetCategories replaces the selection, dropping duplicates.
func (o *Orchestrator) SetCategories(categories []string) {
	o.mu.Lock()
	defer o.mu.Unlock()

	seen := make(map[string]struct{}, len(categories))
	o.cats = o.cats[:0]
	for _, c := range categories {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		o.cats = append(o.cats, c)
	}
	o.arm()
}

// Close stops the pending timer and cancels the search in flight. No
// callback runs once Close has returned.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.closed = true
	if o.timer != nil {
		o.timer.Stop()
		o.timer = nil
	}
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.mu.Unlock()

	o.notifyMu.Lock()
	o.notifyMu.Unlock()
}

// caller holds mu
func (o *Orchestrator) snapshot() api.SearchQuery {
	return api.SearchQuery{Term: o.term, Categories: append([]string(nil), o.cats...)}
}

// caller holds mu
func (o *Orchestrator) arm() {
	if o.closed {
		return
	}
	if o.timer != nil {
		o.timer.Stop()
	}
	o.armed++
	gen := o.armed
	o.timer = o.after(o.delay, func() { o.fire(gen) })
}

func (o *Orchestrator) fire(gen uint64) {
	o.mu.Lock()
	// A timer that fired while being replaced has nothing left to do.
	if o.closed || gen != o.armed {
		o.mu.Unlock()
		return
	}
	o.seq++
	seq := o.seq
	if o.cancel != nil {
		o.cancel()
	}
	ctx, cancel := context.WithCancel(o.base)
	o.cancel = cancel
	q := o.snapshot()
	o.mu.Unlock()

	l := logging.FromContext(ctx).With("svc", "search.fire", "seq", seq, "search_term", q.Term, "categories", q.Categories)

	o.emit(seq, Result{Status: Loading, Query: q})

	rooms, err := o.search.Search(ctx, q)

	o.mu.Lock()
	if o.seq == seq {
		o.cancel = nil
	}
	o.mu.Unlock()
	cancel()

	if err != nil {
		l.Warn("search failed", "error", err)
		o.emit(seq, Result{Status: Failed, Query: q, Err: err})
		return
	}
	l.Debug("search done", "rooms", len(rooms))
	o.emit(seq, Result{Status: Success, Query: q, Rooms: rooms})
}

func (o *Orchestrator) emit(seq uint64, r Result) {
	o.notifyMu.Lock()
	defer o.notifyMu.Unlock()

	o.mu.Lock()
	stale := o.closed || seq != o.seq
	o.mu.Unlock()
	if stale {
		return
	}
	o.notify(r)
}
