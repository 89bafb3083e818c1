// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package workerpool

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matt-FFFFFF/jobpool/internal/jobs"
	"github.com/matt-FFFFFF/jobpool/internal/progress"
	"github.com/matt-FFFFFF/jobpool/internal/runbatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeExecutor sleeps for a per-command delay and fails commands starting with "fail".
type fakeExecutor struct {
	delays  map[string]time.Duration
	active  atomic.Int32
	peak    atomic.Int32
	mu      sync.Mutex
	started map[string]int
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{
		delays:  map[string]time.Duration{},
		started: map[string]int{},
	}
}

func (f *fakeExecutor) Execute(ctx context.Context, u jobs.Unit) *runbatch.Result {
	n := f.active.Add(1)
	defer f.active.Add(-1)

	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}

	f.mu.Lock()
	f.started[u.CommandLine()]++
	delay := f.delays[u.CommandLine()]
	f.mu.Unlock()

	select {
	case <-time.After(delay):
	case <-ctx.Done():
	}

	res := &runbatch.Result{Command: u.CommandLine(), Status: runbatch.ResultStatusSuccess}
	if strings.HasPrefix(u.CommandLine(), "fail") {
		res.ExitCode = 1
		res.Status = runbatch.ResultStatusError
	}

	return res
}

func makeList(t *testing.T, n int) jobs.List {
	t.Helper()

	var sb strings.Builder
	for i := range n {
		fmt.Fprintf(&sb, "job %d\n", i)
	}

	list, err := jobs.Parse(strings.NewReader(sb.String()))
	require.NoError(t, err)
	require.Len(t, list, n)

	return list
}

func TestNew_InvalidWorkers(t *testing.T) {
	_, err := New(0, newFakeExecutor(), progress.NewTracker(0, nil))
	require.ErrorIs(t, err, ErrInvalidWorkers)
}

func TestPool_FinalCountEqualsJobCount(t *testing.T) {
	const jobCount = 12

	list := makeList(t, jobCount)

	for workers := 1; workers <= jobCount+10; workers++ {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			exec := newFakeExecutor()
			tracker := progress.NewTracker(jobCount, nil)

			p, err := New(workers, exec, tracker)
			require.NoError(t, err)

			results := p.Run(context.Background(), list)

			assert.Equal(t, jobCount, tracker.Count())
			assert.LessOrEqual(t, int(exec.peak.Load()), workers)

			for i, r := range results {
				require.NotNil(t, r)
				assert.Equal(t, list[i].CommandLine(), r.Command, "results are in list order")
				assert.Equal(t, 1, exec.started[r.Command], "each job runs exactly once")
			}
		})
	}
}

func TestPool_UsesAllWorkers(t *testing.T) {
	list := makeList(t, 8)
	exec := newFakeExecutor()

	for _, u := range list {
		exec.delays[u.CommandLine()] = 50 * time.Millisecond
	}

	p, err := New(4, exec, progress.NewTracker(len(list), nil))
	require.NoError(t, err)

	p.Run(context.Background(), list)
	assert.Equal(t, int32(4), exec.peak.Load())
}

func TestPool_DynamicDispatch(t *testing.T) {
	// One slow job must not hold back the others: with two workers the
	// remaining jobs all run on the free worker while the slow one sleeps.
	list := makeList(t, 6)
	exec := newFakeExecutor()
	exec.delays[list[0].CommandLine()] = 300 * time.Millisecond

	for _, u := range list[1:] {
		exec.delays[u.CommandLine()] = 20 * time.Millisecond
	}

	p, err := New(2, exec, progress.NewTracker(len(list), nil))
	require.NoError(t, err)

	start := time.Now()
	p.Run(context.Background(), list)

	assert.Less(t, time.Since(start), 600*time.Millisecond)
}

func TestPool_FailuresDoNotStopOtherJobs(t *testing.T) {
	list, err := jobs.Parse(strings.NewReader("fail 1\nok 2\nfail 3\nok 4\n"))
	require.NoError(t, err)

	var order []int

	tracker := progress.NewTracker(len(list), progress.RendererFunc(func(c, _ int) {
		order = append(order, c)
	}))

	p, err := New(2, newFakeExecutor(), tracker)
	require.NoError(t, err)

	results := p.Run(context.Background(), list)

	assert.Equal(t, []int{1, 2, 3, 4}, order)
	assert.True(t, results[0].Failed())
	assert.False(t, results[1].Failed())
	assert.True(t, results[2].Failed())
}

func TestPool_CancelStopsDispatch(t *testing.T) {
	list := makeList(t, 10)
	exec := newFakeExecutor()

	for _, u := range list {
		exec.delays[u.CommandLine()] = time.Second
	}

	tracker := progress.NewTracker(len(list), nil)

	p, err := New(2, exec, tracker)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	results := p.Run(ctx, list)

	assert.Less(t, time.Since(start), time.Second)
	assert.Less(t, tracker.Count(), len(list))

	started := 0

	for _, r := range results {
		if r != nil {
			started++
		}
	}

	assert.Equal(t, tracker.Count(), started)
}

func TestPool_Workers(t *testing.T) {
	p, err := New(7, newFakeExecutor(), progress.NewTracker(0, nil))
	require.NoError(t, err)
	assert.Equal(t, 7, p.Workers())
}
