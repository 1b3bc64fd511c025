package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sqlpulse/sqlpulse/pkg/logger"
	"github.com/sqlpulse/sqlpulse/pkg/models"
	"github.com/sqlpulse/sqlpulse/pkg/rpc"
)

func fastHandshakeConfig(attempts int) HandshakeConfig {
	return HandshakeConfig{
		ConnectGrace:  time.Millisecond,
		RetryInterval: time.Millisecond,
		MaxAttempts:   attempts,
	}
}

func TestHandshakeWarmsRegistry(t *testing.T) {
	reg, store := newTestRegistry(t)

	profiles := []models.ConnectionProfile{{ID: "conn_1", Server: "localhost"}}

	store.EXPECT().
		LoadConnections(gomock.Any()).
		Return(profiles, nil).
		Times(1)

	h := NewHandshake(reg, fastHandshakeConfig(5), logger.NewTestLogger())
	h.OnPeerConnected(context.Background(), rpc.Peer{ID: "peer-1"})
	h.Wait()

	assert.Equal(t, profiles, reg.List())
}

func TestHandshakeRetriesAreBounded(t *testing.T) {
	reg, store := newTestRegistry(t)

	const attempts = 3

	// A peer whose handlers never come up: exactly the cap, then stop,
	// without surfacing anything to the caller.
	store.EXPECT().
		LoadConnections(gomock.Any()).
		Return(nil, rpc.ErrHandlerNotReady).
		Times(attempts)

	h := NewHandshake(reg, fastHandshakeConfig(attempts), logger.NewTestLogger())
	h.OnPeerConnected(context.Background(), rpc.Peer{ID: "peer-1"})
	h.Wait()

	assert.Empty(t, reg.List(), "registry keeps its pre-handshake state")
}

func TestHandshakeSucceedsMidRetry(t *testing.T) {
	reg, store := newTestRegistry(t)

	profiles := []models.ConnectionProfile{{ID: "conn_1", Server: "localhost"}}

	gomock.InOrder(
		store.EXPECT().LoadConnections(gomock.Any()).Return(nil, rpc.ErrHandlerNotReady),
		store.EXPECT().LoadConnections(gomock.Any()).Return(nil, rpc.ErrHandlerNotReady),
		store.EXPECT().LoadConnections(gomock.Any()).Return(profiles, nil),
	)

	h := NewHandshake(reg, fastHandshakeConfig(5), logger.NewTestLogger())
	h.OnPeerConnected(context.Background(), rpc.Peer{ID: "peer-1"})
	h.Wait()

	assert.Equal(t, profiles, reg.List())
}

func TestHandshakeStopsOnNonRetryableFailure(t *testing.T) {
	reg, store := newTestRegistry(t)

	store.EXPECT().
		LoadConnections(gomock.Any()).
		Return(nil, &rpc.RemoteError{Method: "LoadConnections", Message: "storage broken"}).
		Times(1)

	h := NewHandshake(reg, fastHandshakeConfig(5), logger.NewTestLogger())
	h.OnPeerConnected(context.Background(), rpc.Peer{ID: "peer-1"})
	h.Wait()

	assert.Empty(t, reg.List())
}

func TestHandshakeCanceledDuringGrace(t *testing.T) {
	reg, _ := newTestRegistry(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// No store expectations: a canceled warm-up never reaches the peer.
	h := NewHandshake(reg, HandshakeConfig{ConnectGrace: time.Hour}, logger.NewTestLogger())
	h.OnPeerConnected(ctx, rpc.Peer{ID: "peer-1"})
	h.Wait()
}

func TestDisconnectDoesNotClearSnapshot(t *testing.T) {
	reg, store := newTestRegistry(t)

	ctrl := gomock.NewController(t)
	ch := rpc.NewMockChannel(ctrl)

	profiles := []models.ConnectionProfile{{ID: "conn_a", Server: "localhost"}}

	store.EXPECT().
		LoadConnections(gomock.Any()).
		Return(profiles, nil).
		Times(1)

	var onConnect func(rpc.Peer)

	// The coordinator subscribes to connect events only: there is no
	// disconnect hook anywhere in this package, so a transport drop
	// cannot touch the snapshot.
	ch.EXPECT().OnConnect(gomock.Any()).Do(func(fn func(rpc.Peer)) { onConnect = fn })

	h := NewHandshake(reg, fastHandshakeConfig(5), logger.NewTestLogger())
	h.Bind(ch)

	require.NotNil(t, onConnect)
	onConnect(rpc.Peer{ID: "peer-1"})
	h.Wait()

	require.Equal(t, profiles, reg.List())

	// Peer drops; stale data keeps serving.
	assert.Equal(t, profiles, reg.List())

	got, err := reg.Lookup(context.Background(), "conn_a")
	require.NoError(t, err)
	assert.Equal(t, profiles[0], got)
}
