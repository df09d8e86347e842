package core

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestConnectAbandonedAfterQueueingIsDisconnected(t *testing.T) {
	coord := NewCoordinator(newTestState(), quietLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := coord.Connect(ctx, &recorder{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Connect() error = %v, expected deadline exceeded", err)
	}

	runCtx, stop := context.WithCancel(context.Background())
	defer stop()
	go coord.Run(runCtx)

	deadline := time.Now().Add(2 * time.Second)
	for {
		st, err := coord.Stats(runCtx)
		if err != nil {
			t.Fatalf("Stats() error = %v", err)
		}
		if st.Clients == 0 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("Stats().Clients = %d, expected the abandoned client dropped", st.Clients)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
