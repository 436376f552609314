package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_RunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler()
	var runs atomic.Int32
	s.AddJob("count", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	s.Stop()

	// Registration is closed once started.
	s.AddJob("late", time.Hour, func(ctx context.Context) error { return nil })
	assert.Len(t, s.jobs, 1)
}

func TestScheduler_RunOnceContinuesAfterFailure(t *testing.T) {
	s := NewScheduler()
	var order []string
	s.AddJob("fails", time.Minute, func(ctx context.Context) error {
		order = append(order, "fails")
		return errors.New("boom")
	})
	s.AddJob("ok", time.Minute, func(ctx context.Context) error {
		order = append(order, "ok")
		return nil
	})

	s.RunOnce(context.Background())
	assert.Equal(t, []string{"fails", "ok"}, order)
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	s := NewScheduler()
	assert.NotPanics(t, s.Stop)
}
