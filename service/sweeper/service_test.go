package sweeper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/viant/meshgopher/internal/clock"
	"github.com/viant/meshgopher/model"
	"github.com/viant/meshgopher/service/session"
	"go.uber.org/goleak"
)

func TestService_SweepsIdleSessions(t *testing.T) {
	defer goleak.VerifyNone(t)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	previous := clock.NowFunc
	clock.NowFunc = func() time.Time { return base.Add(time.Hour) }
	defer func() { clock.NowFunc = previous }()

	manager := session.New(30 * time.Minute)
	manager.Put("!idle", model.NewSession("!idle").Touched(base))
	manager.Put("!warm", model.NewSession("!warm").Touched(base.Add(45*time.Minute)))

	service := New(manager, Config{Interval: 10 * time.Millisecond})
	done := make(chan error, 1)
	go func() {
		done <- service.Start(context.Background())
	}()

	assert.Eventually(t, func() bool { return manager.Count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"!warm"}, manager.Nodes())

	service.Shutdown()
	assert.NoError(t, <-done)
	service.Shutdown() // idempotent
}

func TestService_StopsOnContextEnd(t *testing.T) {
	defer goleak.VerifyNone(t)

	manager := session.New(30 * time.Minute)
	service := New(manager, Config{Interval: 10 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- service.Start(ctx)
	}()
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestNew_DefaultsInterval(t *testing.T) {
	service := New(session.New(0), Config{})
	assert.Equal(t, DefaultConfig().Interval, service.config.Interval)
}
