// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package runner executes loads and queries on background goroutines and
// reports outcomes on an event channel. At most one load and one query run
// at a time; submitting a new task of either role cancels its predecessor
// and waits for it to finish, so a consumer never observes a stale result
// after a newer submission.
package runner

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"parvu/dataset"
	"parvu/validate"
)

// Common errors returned by the runner package.
var (
	// ErrNoDataset is returned when a query is submitted before any load has
	// completed.
	ErrNoDataset = errors.New("no dataset loaded")

	// ErrClosed is returned when a task is submitted after Close.
	ErrClosed = errors.New("runner closed")
)

// OpenFunc opens a dataset for a path. Injected so tests can substitute the
// engine.
type OpenFunc func(ctx context.Context, path string) (*dataset.Dataset, error)

// task is one in-flight worker: its cancellation handle and its completion
// signal. stop cancels and then waits, so the worker's dataset access has
// fully ended before a successor starts.
type task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func (t *task) stop() {
	if t == nil {
		return
	}
	t.cancel()
	<-t.done
}

// Runner owns the background execution of loads and queries.
type Runner struct {
	open   OpenFunc
	events chan Event
	log    *slog.Logger

	mu     sync.Mutex
	ds     *dataset.Dataset
	load   *task
	query  *task
	closed bool
}

// New creates a Runner that loads datasets through open.
func New(open OpenFunc, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{
		open:   open,
		events: make(chan Event, 4),
		log:    log,
	}
}

// Events returns the channel worker outcomes are delivered on. The channel
// is closed by Close.
func (r *Runner) Events() <-chan Event {
	return r.events
}

// Dataset returns the currently loaded dataset, or nil before the first
// successful load.
func (r *Runner) Dataset() *dataset.Dataset {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ds
}

// SubmitLoad starts loading the file at path on a background worker,
// cancelling and waiting out any load already in flight.
func (r *Runner) SubmitLoad(path string) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	prev := r.load
	ctx, cancel := context.WithCancel(context.Background())
	t := &task{cancel: cancel, done: make(chan struct{})}
	r.load = t
	r.mu.Unlock()

	prev.stop()
	go r.runLoad(ctx, t, path)
	return nil
}

func (r *Runner) runLoad(ctx context.Context, t *task, path string) {
	defer close(t.done)
	if ctx.Err() != nil {
		return
	}

	r.log.Info("loading file", "path", path)
	ds, err := r.open(ctx, path)
	if err != nil {
		r.log.Error("load failed", "path", path, "error", err)
		r.deliver(ctx, Event{Kind: LoadFailed, Err: err})
		return
	}
	// Superseded while open was in flight: the result is discarded, never
	// installed.
	if ctx.Err() != nil {
		ds.Close()
		return
	}

	// A query against the outgoing dataset must finish before the swap.
	r.mu.Lock()
	q := r.query
	r.mu.Unlock()
	q.stop()

	r.mu.Lock()
	old := r.ds
	r.ds = ds
	r.mu.Unlock()
	if old != nil {
		old.Close()
	}

	r.log.Info("load complete", "path", path, "rows", ds.TotalRows())
	r.deliver(ctx, Event{Kind: DataReady})
}

// SubmitQuery starts a query-and-page round on a background worker,
// cancelling and waiting out any query already in flight. An empty query
// fetches the page without touching the current view.
func (r *Runner) SubmitQuery(sqlText string, page int) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	if r.ds == nil {
		r.mu.Unlock()
		return ErrNoDataset
	}
	ds := r.ds
	prev := r.query
	ctx, cancel := context.WithCancel(context.Background())
	t := &task{cancel: cancel, done: make(chan struct{})}
	r.query = t
	r.mu.Unlock()

	prev.stop()
	go r.runQuery(ctx, t, ds, sqlText, page)
	return nil
}

func (r *Runner) runQuery(ctx context.Context, t *task, ds *dataset.Dataset, sqlText string, page int) {
	defer close(t.done)
	if ctx.Err() != nil {
		return
	}

	if sqlText != "" {
		if err := validate.Validate(sqlText); err != nil {
			r.log.Warn("query rejected", "query", sqlText, "error", err)
			r.deliver(ctx, Event{Kind: QueryFailed, Query: sqlText, Page: page, Err: err})
			return
		}
		if err := ds.RunQuery(ctx, sqlText); err != nil {
			r.log.Error("query failed", "query", sqlText, "error", err)
			r.deliver(ctx, Event{Kind: QueryFailed, Query: sqlText, Page: page, Err: err})
			return
		}
	}

	batch, err := ds.Page(ctx, page)
	if err != nil {
		r.deliver(ctx, Event{Kind: QueryFailed, Query: sqlText, Page: page, Err: err})
		return
	}
	r.deliver(ctx, Event{Kind: PageReady, Batch: batch, Query: sqlText, Page: page})
}

// deliver sends ev unless the task was superseded first. A cancelled task's
// event is dropped, never delivered late. The channel is buffered, so the
// explicit Err check keeps a cancelled worker from winning the select.
func (r *Runner) deliver(ctx context.Context, ev Event) {
	if ctx.Err() != nil {
		return
	}
	select {
	case r.events <- ev:
	case <-ctx.Done():
	}
}

// Close cancels and waits out both workers, closes the dataset, and closes
// the event channel. No submissions are accepted afterwards.
func (r *Runner) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	load, query := r.load, r.query
	r.mu.Unlock()

	load.stop()
	query.stop()

	r.mu.Lock()
	ds := r.ds
	r.ds = nil
	r.mu.Unlock()

	var err error
	if ds != nil {
		err = ds.Close()
	}
	close(r.events)
	return err
}
