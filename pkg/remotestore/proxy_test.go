package remotestore

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sqlpulse/sqlpulse/pkg/logger"
	"github.com/sqlpulse/sqlpulse/pkg/models"
	"github.com/sqlpulse/sqlpulse/pkg/rpc"
)

func respondWith(res operationResult) func(context.Context, string, any, any) error {
	return func(_ context.Context, _ string, _, result any) error {
		*result.(*operationResult) = res
		return nil
	}
}

func TestProxyLoadConnections(t *testing.T) {
	ctrl := gomock.NewController(t)
	ch := rpc.NewMockChannel(ctrl)

	profiles := []models.ConnectionProfile{
		{ID: "conn_1", DisplayName: "Local", Server: "localhost"},
		{ID: "conn_2", DisplayName: "Staging", Server: "staging.db.internal", Port: 1433},
	}
	data, err := json.Marshal(profiles)
	require.NoError(t, err)

	ch.EXPECT().
		Call(gomock.Any(), "LoadConnections", gomock.Nil(), gomock.Any()).
		DoAndReturn(respondWith(operationResult{Success: true, Data: data}))

	proxy := NewProxy(ch, logger.NewTestLogger())

	got, err := proxy.LoadConnections(context.Background())
	require.NoError(t, err)
	assert.Equal(t, profiles, got)
}

func TestProxyLoadConnectionsEmptyData(t *testing.T) {
	ctrl := gomock.NewController(t)
	ch := rpc.NewMockChannel(ctrl)

	ch.EXPECT().
		Call(gomock.Any(), "LoadConnections", gomock.Nil(), gomock.Any()).
		DoAndReturn(respondWith(operationResult{Success: true}))

	proxy := NewProxy(ch, logger.NewTestLogger())

	got, err := proxy.LoadConnections(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestProxyRemoteFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	ch := rpc.NewMockChannel(ctrl)

	ch.EXPECT().
		Call(gomock.Any(), "SaveConnection", gomock.Any(), gomock.Any()).
		DoAndReturn(respondWith(operationResult{Success: false, Error: "storage quota exceeded"}))

	proxy := NewProxy(ch, logger.NewTestLogger())

	err := proxy.SaveConnection(context.Background(), models.ConnectionProfile{ID: "conn_1"})
	require.Error(t, err)

	var remoteErr *rpc.RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Equal(t, "SaveConnection", remoteErr.Method)
	assert.Contains(t, remoteErr.Message, "quota")
}

func TestProxyTransportErrorPassesThrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	ch := rpc.NewMockChannel(ctrl)

	ch.EXPECT().
		Call(gomock.Any(), "LoadConnections", gomock.Nil(), gomock.Any()).
		Return(rpc.ErrNotConnected)

	proxy := NewProxy(ch, logger.NewTestLogger())

	_, err := proxy.LoadConnections(context.Background())
	assert.ErrorIs(t, err, rpc.ErrNotConnected)
}

func TestProxyUpdateAndDeletePayloads(t *testing.T) {
	ctrl := gomock.NewController(t)
	ch := rpc.NewMockChannel(ctrl)

	profile := models.ConnectionProfile{ID: "conn_1", Server: "localhost"}

	ch.EXPECT().
		Call(gomock.Any(), "UpdateConnection", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, params, result any) error {
			payload := params.(map[string]interface{})
			assert.Equal(t, "conn_1", payload["id"])
			assert.Equal(t, profile, payload["profile"])
			*result.(*operationResult) = operationResult{Success: true}
			return nil
		})

	ch.EXPECT().
		Call(gomock.Any(), "DeleteConnection", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, params, result any) error {
			payload := params.(map[string]interface{})
			assert.Equal(t, "conn_1", payload["id"])
			*result.(*operationResult) = operationResult{Success: true}
			return nil
		})

	proxy := NewProxy(ch, logger.NewTestLogger())

	require.NoError(t, proxy.UpdateConnection(context.Background(), "conn_1", profile))
	require.NoError(t, proxy.DeleteConnection(context.Background(), "conn_1"))
}

func TestProxyRunStatsPassthrough(t *testing.T) {
	ctrl := gomock.NewController(t)
	ch := rpc.NewMockChannel(ctrl)

	history := []models.RunStats{{RunID: "run_1", Iterations: 100}}
	data, err := json.Marshal(history)
	require.NoError(t, err)

	ch.EXPECT().
		Call(gomock.Any(), "SaveRunStats", gomock.Any(), gomock.Any()).
		DoAndReturn(respondWith(operationResult{Success: true}))
	ch.EXPECT().
		Call(gomock.Any(), "LoadRunHistory", gomock.Nil(), gomock.Any()).
		DoAndReturn(respondWith(operationResult{Success: true, Data: data}))

	proxy := NewProxy(ch, logger.NewTestLogger())

	require.NoError(t, proxy.SaveRunStats(context.Background(), history[0]))

	got, err := proxy.LoadRunHistory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, history, got)
}
