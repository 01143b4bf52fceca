// Package systest provides a scripted sys.Runner for tests that must not
// spawn real processes.
package systest

import (
	"context"
	"io"
	"sync"

	"github.com/cowdogmoo/cargo-remote/sys"
)

// Response is the scripted outcome of one call.
type Response struct {
	Code   int
	Err    error
	Stdout string
}

// Recorder records every CommandSpec it receives and answers from a script
// keyed by program name. Unscripted programs exit 0.
type Recorder struct {
	mu        sync.Mutex
	Calls     []sys.CommandSpec
	Responses map[string][]Response
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{Responses: map[string][]Response{}}
}

// On queues a response for the next call of program name.
func (r *Recorder) On(name string, resp Response) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Responses[name] = append(r.Responses[name], resp)
	return r
}

// Run implements sys.Runner.
func (r *Recorder) Run(_ context.Context, spec sys.CommandSpec) (int, error) {
	r.mu.Lock()
	r.Calls = append(r.Calls, spec)
	var resp Response
	if queued := r.Responses[spec.Name]; len(queued) > 0 {
		resp = queued[0]
		r.Responses[spec.Name] = queued[1:]
	}
	r.mu.Unlock()

	if resp.Stdout != "" && spec.Stdout != nil {
		_, _ = io.WriteString(spec.Stdout, resp.Stdout)
	}
	return resp.Code, resp.Err
}

// CallsTo returns the recorded calls of program name in order.
func (r *Recorder) CallsTo(name string) []sys.CommandSpec {
	r.mu.Lock()
	defer r.mu.Unlock()
	var calls []sys.CommandSpec
	for _, c := range r.Calls {
		if c.Name == name {
			calls = append(calls, c)
		}
	}
	return calls
}
