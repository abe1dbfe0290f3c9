package progress

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress_Update(t *testing.T) {
	ctx, tracker := WithNewTracker(context.Background(), "!node1", nil)

	UpdateCtx(ctx, Delta{Pages: 3})
	UpdateCtx(ctx, Delta{Sent: 1, Acked: 1})
	UpdateCtx(ctx, Delta{Sent: 1, Retries: 2})
	UpdateCtx(ctx, Delta{Failed: 1, Abandoned: 1})

	snapshot := tracker.Snapshot()
	assert.Equal(t, "!node1", snapshot.NodeID)
	assert.Equal(t, 3, snapshot.Pages)
	assert.Equal(t, 2, snapshot.Sent)
	assert.Equal(t, 1, snapshot.Acked)
	assert.Equal(t, 2, snapshot.Retries)
	assert.Equal(t, 1, snapshot.Failed)
	assert.Equal(t, 1, snapshot.Abandoned)
	assert.False(t, snapshot.StartedAt.IsZero())
}

func TestProgress_OnChange(t *testing.T) {
	var mu sync.Mutex
	var seen []Snapshot
	_, tracker := WithNewTracker(context.Background(), "!node1", func(s Snapshot) {
		mu.Lock()
		seen = append(seen, s)
		mu.Unlock()
	})

	tracker.Update(Delta{Pages: 2})
	tracker.Update(Delta{Sent: 1})

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, seen, 2)
	assert.Equal(t, 2, seen[0].Pages)
	assert.Equal(t, 1, seen[1].Sent)
}

func TestProgress_NilSafety(t *testing.T) {
	var tracker *Progress
	tracker.Update(Delta{Pages: 1})
	tracker.OnChange(nil)
	assert.Equal(t, Snapshot{}, tracker.Snapshot())

	// A context without a tracker is a no-op sink
	UpdateCtx(context.Background(), Delta{Pages: 1})
	_, ok := FromContext(context.Background())
	assert.False(t, ok)
	_, ok = GetSnapshot(context.Background())
	assert.False(t, ok)
}

func TestGetSnapshot(t *testing.T) {
	ctx, tracker := WithNewTracker(context.Background(), "!node1", nil)
	tracker.Update(Delta{Pages: 5})

	snapshot, ok := GetSnapshot(ctx)
	assert.True(t, ok)
	assert.Equal(t, 5, snapshot.Pages)
}
