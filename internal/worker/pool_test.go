package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPool_ProcessesEnqueuedJobs(t *testing.T) {
	pool := NewPool(2, 10)
	pool.Start()

	var validated int32
	done := make(chan struct{}, 4)
	job := JobFunc(func(ctx context.Context) error {
		atomic.AddInt32(&validated, 1)
		done <- struct{}{}
		return nil
	})

	for i := 0; i < 4; i++ {
		pool.Enqueue(job)
	}

	timeout := time.After(2 * time.Second)
	for i := 0; i < 4; i++ {
		select {
		case <-done:
		case <-timeout:
			t.Fatal("timeout waiting for jobs to run")
		}
	}
	pool.Stop()

	assert.Equal(t, int32(4), atomic.LoadInt32(&validated))
}

func TestPool_FailingJobDoesNotKillWorker(t *testing.T) {
	pool := NewPool(1, 10)
	pool.Start()

	done := make(chan struct{}, 1)
	pool.Enqueue(JobFunc(func(ctx context.Context) error {
		return errors.New("validator read failed")
	}))
	pool.Enqueue(JobFunc(func(ctx context.Context) error {
		done <- struct{}{}
		return nil
	}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not survive a failing job")
	}
	pool.Stop()
}
