// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/pdiddy/leiden-epidoc/pkg/types"
)

// ErrSuperseded is reported by a job that a newer job replaced.
var ErrSuperseded = errors.New("conversion superseded by a newer request")

// Job is one background conversion started by a Runner.
type Job struct {
	// Seq increases with every job a Runner starts.
	Seq     uint64
	Request types.ConversionRequest

	cancel     context.CancelFunc
	done       chan struct{}
	superseded atomic.Bool

	result *Result
	err    error
}

// Done is closed when the conversion has finished or been cancelled.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Wait blocks until the job finishes or ctx ends. A superseded job always
// reports ErrSuperseded, even if its conversion completed.
func (j *Job) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-j.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if j.superseded.Load() {
		return nil, ErrSuperseded
	}
	return j.result, j.err
}

func (j *Job) supersede() {
	j.superseded.Store(true)
	j.cancel()
}

// Runner keeps at most one current background conversion. Starting a new one
// cancels the previous job and marks it superseded. Jobs never write output;
// the caller reads results from Wait.
type Runner struct {
	conv *Converter

	mu      sync.Mutex
	seq     uint64
	current *Job
}

// NewRunner returns a Runner that converts with c.
func NewRunner(c *Converter) *Runner {
	return &Runner{conv: c}
}

// Start launches a conversion of req and supersedes any job in flight.
func (r *Runner) Start(ctx context.Context, s types.Settings, req types.ConversionRequest) *Job {
	jctx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	if r.current != nil {
		r.current.supersede()
	}
	r.seq++
	j := &Job{Seq: r.seq, Request: req, cancel: cancel, done: make(chan struct{})}
	r.current = j
	r.mu.Unlock()

	go func() {
		defer cancel()
		j.result, j.err = r.conv.Convert(jctx, s, req)
		close(j.done)
	}()
	return j
}

// Current returns the most recently started job, or nil.
func (r *Runner) Current() *Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Stop supersedes the current job, if any.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != nil {
		r.current.supersede()
	}
}
