// Package tasks runs cancellable background work bound to an owner's lifetime.
package tasks

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrGroupClosed = errors.New("task group closed")

// Task is a handle on one running function.
type Task struct {
	key    string
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

// Wait blocks until the task finishes or ctx is done.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Task) Cancel() { t.cancel() }

func (t *Task) Done() <-chan struct{} { return t.done }

// Group owns a set of keyed tasks. Closing the group cancels all of them.
type Group struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	wg     sync.WaitGroup
	tasks  map[string]*Task
	closed bool
}

func NewGroup(parent context.Context) *Group {
	ctx, cancel := context.WithCancel(parent)
	return &Group{ctx: ctx, cancel: cancel, tasks: map[string]*Task{}}
}

// Go starts fn under key. A running task with the same key is cancelled first.
func (g *Group) Go(key string, fn func(ctx context.Context) error) (*Task, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return nil, ErrGroupClosed
	}
	if prev, ok := g.tasks[key]; ok {
		prev.cancel()
	}

	ctx, cancel := context.WithCancel(g.ctx)
	t := &Task{key: key, cancel: cancel, done: make(chan struct{})}
	g.tasks[key] = t
	g.wg.Add(1)

	go func() {
		defer g.wg.Done()
		defer cancel()
		t.err = fn(ctx)

		g.mu.Lock()
		if g.tasks[key] == t {
			delete(g.tasks, key)
		}
		g.mu.Unlock()
		close(t.done)
	}()
	return t, nil
}

// Cancel stops the task running under key, if any.
func (g *Group) Cancel(key string) bool {
	g.mu.Lock()
	t, ok := g.tasks[key]
	g.mu.Unlock()
	if ok {
		t.cancel()
	}
	return ok
}

// Get returns the running task for key.
func (g *Group) Get(key string) (*Task, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	t, ok := g.tasks[key]
	return t, ok
}

func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.tasks)
}

// Close cancels every task and waits for them, or for ctx.
func (g *Group) Close(ctx context.Context) error {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
	g.cancel()

	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sleep waits for d unless ctx ends first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
