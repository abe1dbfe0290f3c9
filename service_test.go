package meshgopher_test

import (
	"context"
	"embed"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	_ "github.com/viant/afs/embed"
	"github.com/viant/meshgopher"
	tmemory "github.com/viant/meshgopher/service/transport/memory"
	"go.uber.org/goleak"
)

//go:embed testdata/*
var embedFS embed.FS

func TestService(t *testing.T) {
	defer goleak.VerifyNone(t)
	tr := tmemory.New(tmemory.DefaultConfig())
	srv, err := meshgopher.New(
		meshgopher.WithContentFsOptions(&embedFS),
		meshgopher.WithContentRootURL("embed:///testdata"),
		meshgopher.WithTransport(tr),
	)
	assert.NoError(t, err)

	ctx := context.Background()
	assert.NoError(t, srv.Start(ctx))
	defer func() {
		_ = srv.Shutdown(ctx)
		_ = tr.Close()
	}()

	assert.NoError(t, srv.SendWelcome(ctx, "!station"))
	assert.Eventually(t, func() bool {
		return len(tr.SentTo("!station")) >= 1
	}, time.Second, 2*time.Millisecond)
	assert.Equal(t, "[/]\n1. docs/\n2. welcome.txt", tr.SentTo("!station")[0])
	assert.Equal(t, 1, srv.SessionCount())

	assert.NoError(t, tr.Inject("!station", "2"))
	assert.Eventually(t, func() bool {
		return len(tr.SentTo("!station")) >= 2
	}, time.Second, 2*time.Millisecond)
	assert.Equal(t, "Welcome to the mesh gopher station.", tr.SentTo("!station")[1])
}

func TestService_DefaultsToMemoryProvider(t *testing.T) {
	defer goleak.VerifyNone(t)
	tr := tmemory.New(tmemory.DefaultConfig())
	srv, err := meshgopher.New(meshgopher.WithTransport(tr))
	assert.NoError(t, err)

	ctx := context.Background()
	assert.NoError(t, srv.Start(ctx))
	defer func() {
		_ = srv.Shutdown(ctx)
		_ = tr.Close()
	}()

	assert.NoError(t, srv.SendWelcome(ctx, "!node"))
	assert.Eventually(t, func() bool {
		return len(tr.SentTo("!node")) >= 1
	}, time.Second, 2*time.Millisecond)
	assert.Equal(t, "(empty)", tr.SentTo("!node")[0])
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	config := meshgopher.DefaultConfig()
	config.Gopher.MaxMessageSize = 5
	_, err := meshgopher.New(meshgopher.WithConfig(config))
	assert.EqualError(t, err, "gopher.maxMessageSize must be at least 20, had 5")
}
