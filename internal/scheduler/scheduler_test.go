package scheduler

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestModeSelectsTaskList(t *testing.T) {
	s, _, _ := newSyncer(newFakeAPI())

	push := New(PushAssisted, s, Intervals{}, zerolog.Nop())
	if slices.Contains(push.TaskNames(), "recent") {
		t.Fatal("push-assisted mode must not poll recent donations")
	}

	pull := New(PullOnly, s, Intervals{}, zerolog.Nop())
	if !slices.Contains(pull.TaskNames(), "recent") {
		t.Fatal("pull-only mode must poll recent donations")
	}
	for _, name := range []string{"metadata", "history"} {
		if !slices.Contains(pull.TaskNames(), name) || !slices.Contains(push.TaskNames(), name) {
			t.Fatalf("task %s must run in both modes", name)
		}
	}
}

func TestRunFiresCyclesUntilCancelled(t *testing.T) {
	api := newFakeAPI()
	s, _, _ := newSyncer(api)

	sched := New(PullOnly, s, Intervals{
		Metadata: 10 * time.Millisecond,
		History:  10 * time.Millisecond,
		Recent:   10 * time.Millisecond,
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	sched.Run(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if api.callCount("recent") > 0 && api.callCount("all") > 0 && api.callCount("polls") > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	if api.callCount("recent") == 0 {
		t.Fatal("recent cycle never fired")
	}
	if api.callCount("all") == 0 {
		t.Fatal("history cycle never fired")
	}
	if api.callCount("polls") == 0 {
		t.Fatal("metadata cycle never fired")
	}
}
