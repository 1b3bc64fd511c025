package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sqlpulse/sqlpulse/pkg/logger"
	"github.com/sqlpulse/sqlpulse/pkg/models"
	"github.com/sqlpulse/sqlpulse/pkg/registry"
	"github.com/sqlpulse/sqlpulse/pkg/remotestore"
	"github.com/sqlpulse/sqlpulse/pkg/rpc"
	"github.com/sqlpulse/sqlpulse/pkg/stress"
)

type fakeQueryExec struct {
	result *models.QueryResult
	err    error
}

func (f *fakeQueryExec) Execute(context.Context, models.ConnectionProfile, string, int) (*models.QueryResult, error) {
	return f.result, f.err
}

// stressExec satisfies stress.Executor without touching a database.
type stressExec struct{}

func (stressExec) Open(models.ConnectionProfile) (*sql.DB, error) { return nil, nil }

func (stressExec) Run(context.Context, *sql.DB, string, int) (*models.QueryResult, error) {
	return &models.QueryResult{RowCount: 1}, nil
}

type serverFixture struct {
	server *Server
	store  *remotestore.MockRemoteStore
	exec   *fakeQueryExec
}

func newServerFixture(t *testing.T, cfg Config) *serverFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	store := remotestore.NewMockRemoteStore(ctrl)

	log := logger.NewTestLogger()
	reg := registry.New(store, log)
	exec := &fakeQueryExec{result: &models.QueryResult{Columns: []string{"n"}, RowCount: 1}}
	engine := stress.NewEngine(reg, stressExec{}, nil, log)
	channel := rpc.NewWebSocketChannel(rpc.WebSocketChannelConfig{}, log)

	return &serverFixture{
		server: NewServer(cfg, reg, exec, engine, store, channel, log),
		store:  store,
		exec:   exec,
	}
}

func (f *serverFixture) warm(t *testing.T, profiles []models.ConnectionProfile) {
	t.Helper()

	require.NotEmpty(t, profiles)

	f.store.EXPECT().LoadConnections(gomock.Any()).Return(profiles, nil)

	// Prime the registry through its own reload-on-miss path.
	body, _ := json.Marshal(models.QueryRequest{ConnectionID: profiles[0].ID, Query: "SELECT 1"})
	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/query", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestListConnections(t *testing.T) {
	f := newServerFixture(t, Config{})

	profiles := []models.ConnectionProfile{{ID: "conn_1", DisplayName: "Local", Server: "localhost"}}

	f.store.EXPECT().LoadConnections(gomock.Any()).Return(profiles, nil)

	// Warm via a lookup miss on the query path first.
	body, _ := json.Marshal(models.QueryRequest{ConnectionID: "conn_1", Query: "SELECT 1"})
	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/query", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/connections", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []models.ConnectionProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, profiles, got)
}

func TestQueryUnknownConnectionIs404(t *testing.T) {
	f := newServerFixture(t, Config{})

	// The lookup miss triggers exactly one reload before giving up.
	f.store.EXPECT().LoadConnections(gomock.Any()).Return(nil, nil).Times(1)

	body, _ := json.Marshal(models.QueryRequest{ConnectionID: "ghost", Query: "SELECT 1"})
	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/query", bytes.NewReader(body)))

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "connection not found", resp["error"])
}

func TestQueryEmptyConnectionIDIs400(t *testing.T) {
	f := newServerFixture(t, Config{})

	body, _ := json.Marshal(models.QueryRequest{ConnectionID: "  ", Query: "SELECT 1"})
	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/query", bytes.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPIKeyEnforced(t *testing.T) {
	f := newServerFixture(t, Config{APIKey: "sekrit"})

	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/connections", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/connections", nil)
	req.Header.Set("X-API-Key", "sekrit")
	rec = httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStartStressUnknownConnectionIs404(t *testing.T) {
	f := newServerFixture(t, Config{})

	f.store.EXPECT().LoadConnections(gomock.Any()).Return(nil, nil).Times(1)

	body, _ := json.Marshal(models.StressConfig{ConnectionID: "ghost", Query: "SELECT 1", Iterations: 1})
	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/stress", bytes.NewReader(body)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStartStressAndStatus(t *testing.T) {
	f := newServerFixture(t, Config{})

	f.warm(t, []models.ConnectionProfile{{ID: "conn_1", Server: "localhost"}})

	body, _ := json.Marshal(models.StressConfig{ConnectionID: "conn_1", Query: "SELECT 1", Iterations: 3})
	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/stress", bytes.NewReader(body)))
	require.Equal(t, http.StatusAccepted, rec.Code)

	var stats models.RunStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.NotEmpty(t, stats.RunID)

	rec = httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stress/"+stats.RunID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStressStatusUnknownRunIs404(t *testing.T) {
	f := newServerFixture(t, Config{})

	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stress/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveConnectionRefreshesRegistry(t *testing.T) {
	f := newServerFixture(t, Config{})

	profile := models.ConnectionProfile{ID: "conn_1", DisplayName: "Local", Server: "localhost"}

	gomock.InOrder(
		f.store.EXPECT().SaveConnection(gomock.Any(), profile).Return(nil),
		f.store.EXPECT().LoadConnections(gomock.Any()).Return([]models.ConnectionProfile{profile}, nil),
	)

	body, _ := json.Marshal(profile)
	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/connections", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/connections", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got []models.ConnectionProfile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, []models.ConnectionProfile{profile}, got)
}

func TestSaveConnectionWithoutPeerIs503(t *testing.T) {
	f := newServerFixture(t, Config{})

	f.store.EXPECT().SaveConnection(gomock.Any(), gomock.Any()).Return(rpc.ErrNotConnected)

	body, _ := json.Marshal(models.ConnectionProfile{ID: "conn_1"})
	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/connections", bytes.NewReader(body)))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUpdateConnection(t *testing.T) {
	f := newServerFixture(t, Config{})

	profile := models.ConnectionProfile{ID: "conn_1", DisplayName: "Renamed", Server: "localhost"}

	gomock.InOrder(
		f.store.EXPECT().UpdateConnection(gomock.Any(), "conn_1", profile).Return(nil),
		f.store.EXPECT().LoadConnections(gomock.Any()).Return([]models.ConnectionProfile{profile}, nil),
	)

	body, _ := json.Marshal(profile)
	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/connections/conn_1", bytes.NewReader(body)))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteConnection(t *testing.T) {
	f := newServerFixture(t, Config{})

	gomock.InOrder(
		f.store.EXPECT().DeleteConnection(gomock.Any(), "conn_1").Return(nil),
		f.store.EXPECT().LoadConnections(gomock.Any()).Return(nil, nil),
	)

	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/connections/conn_1", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHistoryWithoutPeerIs503(t *testing.T) {
	f := newServerFixture(t, Config{})

	f.store.EXPECT().LoadRunHistory(gomock.Any()).Return(nil, rpc.ErrNotConnected)

	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStreamUnknownRunIs404(t *testing.T) {
	f := newServerFixture(t, Config{})

	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stress/nope/stream", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
