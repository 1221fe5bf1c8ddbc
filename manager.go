package quickpiggy

import (
	"context"
	"sync"
	"time"
)

// Manager starts and terminates multiple instances concurrently. It is a
// convenience for test suites and tooling that hand each consumer its own
// throwaway server; single-instance callers should use Start directly.
type Manager struct {
	// Concurrency is the maximum number of concurrent operations
	Concurrency int
	// Timeout is the per-operation timeout, zero for none
	Timeout time.Duration
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithConcurrency sets the maximum number of concurrent operations
func WithConcurrency(n int) ManagerOption {
	return func(m *Manager) {
		m.Concurrency = n
	}
}

// WithTimeout sets the per-operation timeout
func WithTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		m.Timeout = d
	}
}

// NewManager creates a new Manager with default settings
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		Concurrency: 4,
		Timeout:     2 * time.Minute,
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.Concurrency < 1 {
		m.Concurrency = 1
	}

	return m
}

// StartAll launches one instance per option set. If any start fails, every
// instance that did come up is terminated again before the error is
// returned, so either all instances are live or none are.
func (m *Manager) StartAll(ctx context.Context, optSets ...[]Option) ([]*Instance, error) {
	if len(optSets) == 0 {
		return nil, nil
	}

	sem := make(chan struct{}, m.Concurrency)

	var wg sync.WaitGroup
	var mu sync.Mutex
	instances := make([]*Instance, len(optSets))
	merr := &MultiError{}

	for idx, opts := range optSets {
		wg.Add(1)
		go func(idx int, opts []Option) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				mu.Lock()
				merr.Add(ctx.Err())
				mu.Unlock()
				return
			}

			opCtx := ctx
			if m.Timeout > 0 {
				var cancel context.CancelFunc
				opCtx, cancel = context.WithTimeout(ctx, m.Timeout)
				defer cancel()
			}

			inst, err := Start(opCtx, opts...)
			if err != nil {
				mu.Lock()
				merr.Add(err)
				mu.Unlock()
				return
			}

			mu.Lock()
			instances[idx] = inst
			mu.Unlock()
		}(idx, opts)
	}

	wg.Wait()

	if err := merr.Err(); err != nil {
		started := make([]*Instance, 0, len(instances))
		for _, inst := range instances {
			if inst != nil {
				started = append(started, inst)
			}
		}
		_ = m.TerminateAll(context.WithoutCancel(ctx), started...)
		return nil, err
	}

	return instances, nil
}

// TerminateAll terminates the given instances concurrently, aggregating any
// errors. Nil instances are skipped.
func (m *Manager) TerminateAll(ctx context.Context, instances ...*Instance) error {
	if len(instances) == 0 {
		return nil
	}

	sem := make(chan struct{}, m.Concurrency)

	var wg sync.WaitGroup
	var mu sync.Mutex
	merr := &MultiError{}

	for _, inst := range instances {
		if inst == nil {
			continue
		}

		wg.Add(1)
		go func(inst *Instance) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				mu.Lock()
				merr.Add(ctx.Err())
				mu.Unlock()
				return
			}

			opCtx := ctx
			if m.Timeout > 0 {
				var cancel context.CancelFunc
				opCtx, cancel = context.WithTimeout(ctx, m.Timeout)
				defer cancel()
			}

			if err := inst.Terminate(opCtx); err != nil {
				mu.Lock()
				merr.Add(err)
				mu.Unlock()
			}
		}(inst)
	}

	wg.Wait()

	return merr.Err()
}
