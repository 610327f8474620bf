package server

import (
	"context"
	"testing"
	"time"

	"github.com/storefront/quizwidget/internal/wizard"
)

func TestSessionsSweep(t *testing.T) {
	env := newTestEnv(t)
	sessions := env.srv.sessions
	ctx := context.Background()

	idle, err := sessions.open(ctx)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	active, err := sessions.open(ctx)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	closed, err := sessions.open(ctx)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := closed.ctrl.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	now := time.Now()
	idle.touch(now.Add(-2 * time.Minute))
	active.touch(now)

	ch := env.srv.sessions.broker.Subscribe(idle.id)
	if removed := sessions.Sweep(now); removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	if _, err := sessions.get(active.id); err != nil {
		t.Fatalf("active session swept: %v", err)
	}
	for _, id := range []string{idle.id, closed.id} {
		if _, err := sessions.get(id); err == nil {
			t.Fatalf("session %s survived sweep", id)
		}
	}
	if _, ok := <-ch; ok {
		t.Fatal("subscription of swept session still open")
	}
	if _, err := idle.ctrl.Dispatch(ctx, wizard.Open()); err != wizard.ErrStopped {
		t.Fatalf("swept controller still running: %v", err)
	}
}
