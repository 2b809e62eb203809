package revalidate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestPublisher(t *testing.T) (*Publisher, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewPublisher(rdb, zap.NewNop()), mr
}

func TestPublisher_NilClientIsNoop(t *testing.T) {
	p := NewPublisher(nil, nil)
	assert.NoError(t, p.Revalidate(context.Background(), "/profile/edit"))
}

func TestPageKey(t *testing.T) {
	assert.Equal(t, "page:/profile/edit", PageKey("/profile/edit"))
}

func TestPublisher_Revalidate_DropsCachedPage(t *testing.T) {
	p, mr := newTestPublisher(t)

	require.NoError(t, mr.Set(PageKey("/profile/edit"), "<html>stale</html>"))
	require.NoError(t, mr.Set(PageKey("/other"), "<html>keep</html>"))

	require.NoError(t, p.Revalidate(context.Background(), "/profile/edit"))

	assert.False(t, mr.Exists(PageKey("/profile/edit")))
	assert.True(t, mr.Exists(PageKey("/other")))
}

func TestPublisher_Revalidate_Publishes(t *testing.T) {
	p, mr := newTestPublisher(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = listener.Close() }()
	sub := listener.Subscribe(ctx, Channel)
	defer func() { _ = sub.Close() }()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	require.NoError(t, p.Revalidate(ctx, "/profile/edit"))

	select {
	case msg := <-sub.Channel():
		assert.Equal(t, "/profile/edit", msg.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for revalidation message")
	}
}

func TestPublisher_Revalidate_ServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer func() { _ = rdb.Close() }()
	p := NewPublisher(rdb, zap.NewNop())
	mr.Close()

	err = p.Revalidate(context.Background(), "/profile/edit")
	assert.Error(t, err)
}
