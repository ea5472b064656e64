package engine

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestDeferred_LatestTokenWins(t *testing.T) {
	var d Deferred
	first := d.Arm()
	second := d.Arm()

	ran := 0
	if d.Fire(first, func() { ran++ }) {
		t.Error("superseded token fired")
	}
	if !d.Fire(second, func() { ran++ }) {
		t.Error("latest token refused")
	}
	if d.Fire(second, func() { ran++ }) {
		t.Error("token fired twice")
	}
	if ran != 1 {
		t.Errorf("ran %d times, want 1", ran)
	}
}

func TestDeferred_Cancel(t *testing.T) {
	var d Deferred
	tok := d.Arm()
	if !d.Pending(tok) {
		t.Fatal("fresh token should be pending")
	}
	d.Cancel()
	if d.Pending(tok) || d.Fire(tok, func() {}) {
		t.Error("cancelled token still live")
	}
	if d.Fire(0, func() {}) {
		t.Error("zero token fired")
	}
}

func TestDeferred_ScheduleSupersedes(t *testing.T) {
	var d Deferred
	var count atomic.Int32
	done := make(chan string, 2)

	d.Schedule(context.Background(), 20*time.Millisecond, func() {
		count.Add(1)
		done <- "first"
	})
	d.Schedule(context.Background(), 20*time.Millisecond, func() {
		count.Add(1)
		done <- "second"
	})

	select {
	case got := <-done:
		if got != "second" {
			t.Errorf("%s fired, want second", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled function never ran")
	}
	time.Sleep(50 * time.Millisecond)
	if n := count.Load(); n != 1 {
		t.Errorf("ran %d times, want 1", n)
	}
}

func TestDeferred_ScheduleContextCancelled(t *testing.T) {
	var d Deferred
	ctx, cancel := context.WithCancel(context.Background())
	var ran atomic.Bool

	tok := d.Schedule(ctx, 10*time.Millisecond, func() { ran.Store(true) })
	cancel()
	time.Sleep(50 * time.Millisecond)

	if ran.Load() {
		t.Error("cancelled context should stop the application")
	}
	if !d.Pending(tok) {
		t.Error("token stays armed until superseded")
	}
}
