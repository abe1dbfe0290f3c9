package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/meshgopher/internal/clock"
	"github.com/viant/meshgopher/model"
)

func pinClock(t *testing.T, at time.Time) {
	t.Helper()
	previous := clock.NowFunc
	clock.NowFunc = func() time.Time { return at }
	t.Cleanup(func() { clock.NowFunc = previous })
}

func TestManager_GetOrCreate(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	pinClock(t, base)
	manager := New(30 * time.Minute)

	created := manager.GetOrCreate("!node1")
	assert.Equal(t, "!node1", created.NodeID)
	assert.Equal(t, model.RootPath, created.CurrentPath)
	assert.Equal(t, base, created.LastActivity)
	assert.Equal(t, 1, manager.Count())

	// Later access returns the same session with refreshed activity
	later := base.Add(5 * time.Minute)
	pinClock(t, later)
	manager.Put("!node1", created.NavigateTo("/docs"))
	fetched := manager.GetOrCreate("!node1")
	assert.Equal(t, "/docs", fetched.CurrentPath)
	assert.Equal(t, later, fetched.LastActivity)
	assert.Equal(t, 1, manager.Count())
}

func TestManager_Get(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	manager := New(30 * time.Minute)

	_, ok := manager.Get("!node1")
	assert.False(t, ok)

	manager.Put("!node1", model.NewSession("!node1").NavigateTo("/docs").Touched(base))
	fetched, ok := manager.Get("!node1")
	assert.True(t, ok)
	assert.Equal(t, "/docs", fetched.CurrentPath)
	assert.Equal(t, base, fetched.LastActivity, "reads must not refresh activity")
}

func TestManager_PutLastWriterWins(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	manager := New(30 * time.Minute)

	fresh := model.NewSession("!node1").NavigateTo("/docs").Touched(base.Add(time.Minute))
	manager.Put("!node1", fresh)

	stale := model.NewSession("!node1").NavigateTo("/old").Touched(base)
	manager.Put("!node1", stale)
	kept := manager.GetOrCreate("!node1")
	assert.Equal(t, "/docs", kept.CurrentPath, "stale write must not clobber fresher state")

	fresher := model.NewSession("!node1").NavigateTo("/new").Touched(base.Add(2 * time.Minute))
	manager.Put("!node1", fresher)
	kept = manager.GetOrCreate("!node1")
	assert.Equal(t, "/new", kept.CurrentPath)
}

func TestManager_Sweep(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	manager := New(30 * time.Minute)

	manager.Put("!idle", model.NewSession("!idle").Touched(base))
	manager.Put("!active", model.NewSession("!active").Touched(base.Add(50*time.Minute)))

	removed := manager.Sweep(base.Add(time.Hour))
	assert.Equal(t, 1, removed)
	assert.Equal(t, []string{"!active"}, manager.Nodes())

	// A session exactly at the timeout boundary survives
	manager.Put("!edge", model.NewSession("!edge").Touched(base))
	removed = manager.Sweep(base.Add(30 * time.Minute))
	assert.Equal(t, 0, removed)
	assert.Equal(t, 2, manager.Count())
}

func TestManager_SweepDisabled(t *testing.T) {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	manager := New(0)
	manager.Put("!node1", model.NewSession("!node1").Touched(base))

	removed := manager.Sweep(base.Add(24 * time.Hour))
	assert.Equal(t, 0, removed)
	assert.Equal(t, 1, manager.Count())
}

func TestManager_Remove(t *testing.T) {
	manager := New(30 * time.Minute)
	manager.GetOrCreate("!node1")
	manager.GetOrCreate("!node2")

	manager.Remove("!node1")
	assert.Equal(t, []string{"!node2"}, manager.Nodes())

	// Removing an absent node is a no-op
	manager.Remove("!node1")
	assert.Equal(t, 1, manager.Count())
}
