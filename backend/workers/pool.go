// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.
package workers

import (
	"context"
	"sync"

	"github.com/Fantom-foundation/kvstate/common"
)

// ErrPoolClosed is reported for work submitted to or pending on a closed pool.
const ErrPoolClosed = common.ConstError("worker pool is closed")

// Pool is a fixed set of goroutines dedicated to blocking work, e.g. synchronous
// disk reads. Callers hand work to the pool and wait for its result, so any
// number of callers may issue blocking reads while the number of goroutines
// stuck in storage calls stays bounded.
type Pool struct {
	tasks     chan func()
	quit      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// NewPool starts a pool with the given number of workers.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	p := &Pool{
		tasks: make(chan func()),
		quit:  make(chan struct{}),
	}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.work()
	}
	return p
}

func (p *Pool) work() {
	defer p.wg.Done()
	for {
		select {
		case task := <-p.tasks:
			task()
		case <-p.quit:
			return
		}
	}
}

type result[T any] struct {
	value T
	err   error
}

// Do runs the given task on a worker of the pool and waits for its result.
// The task receives the caller's context, including any tracing span attached
// to it. If the context is cancelled while waiting, Do returns the context's
// error immediately; a task already picked up by a worker is not interrupted
// and its result is discarded.
func Do[T any](ctx context.Context, p *Pool, task func(context.Context) (T, error)) (T, error) {
	var zero T
	done := make(chan result[T], 1)
	run := func() {
		value, err := task(ctx)
		done <- result[T]{value, err}
	}

	select {
	case p.tasks <- run:
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-p.quit:
		return zero, ErrPoolClosed
	}

	select {
	case res := <-done:
		return res.value, res.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Close stops all workers after they finished their current task. Tasks
// submitted afterwards fail with ErrPoolClosed.
func (p *Pool) Close() {
	p.closeOnce.Do(func() {
		close(p.quit)
	})
	p.wg.Wait()
}
