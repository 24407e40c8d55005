package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"featureboard-be/internal/bootstrap"
	"featureboard-be/internal/config"
	"featureboard-be/internal/pkg/logger"
	"featureboard-be/internal/pkg/serverutils"
	"featureboard-be/internal/repository/memory"
	"featureboard-be/internal/repository/unitofwork"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t   *testing.T
	srv *Server
}

func newTestServer(t *testing.T, factory unitofwork.RepositoryFactory) *testServer {
	t.Helper()
	return newTestServerWithOrigins(t, factory, "http://localhost:5173")
}

func newTestServerWithOrigins(t *testing.T, factory unitofwork.RepositoryFactory, origins string) *testServer {
	t.Helper()
	cfg := &config.Config{
		App: config.AppConfig{
			Port:               "0",
			Environment:        "test",
			BoardLogFilePath:   filepath.Join(t.TempDir(), "board.log"),
			CorsAllowedOrigins: origins,
		},
		Database: config.DatabaseConfig{StoreDriver: "memory"},
		Auth:     config.AuthConfig{JWTSecret: testSecret},
		Vote:     config.VoteConfig{LockDriver: "local", LockTTL: time.Second, ReconcileTopic: "VOTE_RECONCILE"},
		Cache:    config.CacheConfig{ProductTTL: time.Minute},
	}
	container := bootstrap.NewContainer(cfg, factory, logger.NewNopLogger())
	t.Cleanup(container.Close)
	return &testServer{t: t, srv: New(cfg, container)}
}

func (s *testServer) do(method, path, user string, body interface{}) (int, envelope) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		token, err := serverutils.SignToken(testSecret, user)
		require.NoError(s.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.srv.GetApp().Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(s.t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (s *testServer) createBoard() (productId, featureId int64) {
	s.t.Helper()
	status, env := s.do(http.MethodPost, "/api/product/v1", "owner", map[string]interface{}{
		"name":        "Board",
		"description": "Public product board",
	})
	require.Equal(s.t, http.StatusCreated, status, env.Message)
	productId = dataID(s.t, env)

	status, env = s.do(http.MethodPost, "/api/feature/v1", "alice", map[string]interface{}{
		"product_id":  productId,
		"title":       "Dark mode",
		"description": "A dark theme for the board",
		"category":    "UI/UX Improvement",
	})
	require.Equal(s.t, http.StatusCreated, status, env.Message)
	return productId, dataID(s.t, env)
}

func dataID(t *testing.T, env envelope) int64 {
	t.Helper()
	var data struct {
		Id int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.Id
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, memory.NewRepositoryFactory(memory.NewStore()))
	status, env := s.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
}

func TestCorsOrigins(t *testing.T) {
	preflight := func(s *testServer) *http.Response {
		req := httptest.NewRequest(http.MethodOptions, "/api/health", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		resp, err := s.srv.GetApp().Test(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("explicit origin allows credentials", func(t *testing.T) {
		s := newTestServer(t, memory.NewRepositoryFactory(memory.NewStore()))
		resp := preflight(s)
		assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
	})

	t.Run("wildcard drops credentials", func(t *testing.T) {
		var s *testServer
		require.NotPanics(t, func() {
			s = newTestServerWithOrigins(t, memory.NewRepositoryFactory(memory.NewStore()), "*")
		})
		resp := preflight(s)
		assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
		assert.Empty(t, resp.Header.Get("Access-Control-Allow-Credentials"))

		status, _ := s.do(http.MethodGet, "/api/health", "", nil)
		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("wildcard inside a list", func(t *testing.T) {
		assert.NotPanics(t, func() {
			newTestServerWithOrigins(t, memory.NewRepositoryFactory(memory.NewStore()), "http://a.test, *")
		})
	})
}

func TestVoteEndpoints(t *testing.T) {
	s := newTestServer(t, memory.NewRepositoryFactory(memory.NewStore()))
	_, featureId := s.createBoard()
	votePath := fmt.Sprintf("/api/feature/v1/%d/vote", featureId)

	status, env := s.do(http.MethodGet, votePath, "bob", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, fmt.Sprintf(`{"feature_id":%d,"voted":false}`, featureId), string(env.Data))

	status, env = s.do(http.MethodPost, votePath, "bob", nil)
	require.Equal(t, http.StatusCreated, status)
	var state struct {
		Voted     bool `json:"voted"`
		VoteCount int  `json:"vote_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.True(t, state.Voted)
	assert.Equal(t, 2, state.VoteCount, "author vote plus bob")

	status, env = s.do(http.MethodPost, votePath, "bob", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.False(t, env.Success)
	assert.Equal(t, "ALREADY_VOTED", env.Error)

	status, _ = s.do(http.MethodDelete, votePath, "bob", nil)
	assert.Equal(t, http.StatusOK, status)

	status, env = s.do(http.MethodDelete, votePath, "bob", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "VOTE_NOT_FOUND", env.Error)

	status, env = s.do(http.MethodPost, votePath+"/toggle", "bob", nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.True(t, state.Voted)

	status, env = s.do(http.MethodGet, "/api/vote/v1/me", "bob", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, fmt.Sprintf(`{"user_id":"bob","feature_ids":[%d]}`, featureId), string(env.Data))

	status, env = s.do(http.MethodGet, fmt.Sprintf("/api/feature/v1/%d/votes", featureId), "", nil)
	require.Equal(t, http.StatusOK, status)
	var voters []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &voters))
	assert.Len(t, voters, 2)
}

func TestVoteEndpointErrors(t *testing.T) {
	s := newTestServer(t, memory.NewRepositoryFactory(memory.NewStore()))
	_, featureId := s.createBoard()

	status, env := s.do(http.MethodPost, fmt.Sprintf("/api/feature/v1/%d/vote", featureId), "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", env.Error)

	status, env = s.do(http.MethodPost, "/api/feature/v1/9999/vote", "bob", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error)

	status, _ = s.do(http.MethodPost, "/api/feature/v1/abc/vote", "bob", nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestFeatureEndpoints(t *testing.T) {
	s := newTestServer(t, memory.NewRepositoryFactory(memory.NewStore()))
	productId, featureId := s.createBoard()

	status, env := s.do(http.MethodPost, "/api/feature/v1", "alice", map[string]interface{}{
		"product_id": productId,
		"title":      "x",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", env.Error)

	statusPath := fmt.Sprintf("/api/feature/v1/%d/status", featureId)
	status, env = s.do(http.MethodPatch, statusPath, "alice", map[string]interface{}{"status": "planned"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", env.Error)

	status, _ = s.do(http.MethodPatch, statusPath, "owner", map[string]interface{}{"status": "planned"})
	assert.Equal(t, http.StatusOK, status)

	status, env = s.do(http.MethodGet, fmt.Sprintf("/api/feature/v1?product_id=%d&status=planned&sort=votes-desc", productId), "", nil)
	require.Equal(t, http.StatusOK, status)
	var list []struct {
		Id        int64  `json:"id"`
		Status    string `json:"status"`
		VoteCount int    `json:"vote_count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, featureId, list[0].Id)
	assert.Equal(t, "planned", list[0].Status)
	assert.Equal(t, 1, list[0].VoteCount)

	status, env = s.do(http.MethodGet, fmt.Sprintf("/api/roadmap/v1/%d", productId), "", nil)
	require.Equal(t, http.StatusOK, status)
	var rm struct {
		Columns []struct {
			Status   string            `json:"status"`
			Features []json.RawMessage `json:"features"`
		} `json:"columns"`
		Dropped int `json:"dropped"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &rm))
	require.Len(t, rm.Columns, 6)
	assert.Equal(t, "planned", rm.Columns[2].Status)
	assert.Len(t, rm.Columns[2].Features, 1)
	assert.Zero(t, rm.Dropped)
}

func TestCommentEndpoints(t *testing.T) {
	s := newTestServer(t, memory.NewRepositoryFactory(memory.NewStore()))
	_, featureId := s.createBoard()
	commentsPath := fmt.Sprintf("/api/feature/v1/%d/comments", featureId)

	status, env := s.do(http.MethodPost, commentsPath, "owner", map[string]interface{}{"content": "On the roadmap", "author_name": "Team"})
	require.Equal(t, http.StatusCreated, status)
	var comment struct {
		Id         int64 `json:"id"`
		IsOfficial bool  `json:"is_official"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &comment))
	assert.True(t, comment.IsOfficial)

	status, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/comment/v1/%d", comment.Id), "alice", nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/comment/v1/%d", comment.Id), "owner", nil)
	assert.Equal(t, http.StatusOK, status)

	status, env = s.do(http.MethodGet, fmt.Sprintf("/api/comment/v1/%d", comment.Id), "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error)
}

// outageFactory lets reads through and fails every transaction.
type outageFactory struct {
	unitofwork.RepositoryFactory
}

func (f outageFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return outageUow{f.RepositoryFactory.NewUnitOfWork(ctx)}
}

type outageUow struct {
	unitofwork.UnitOfWork
}

func (outageUow) Begin(ctx context.Context) error {
	return errors.New("connection refused")
}

func TestStoreOutageIs503(t *testing.T) {
	store := memory.NewStore()
	healthy := newTestServer(t, memory.NewRepositoryFactory(store))
	_, featureId := healthy.createBoard()

	down := newTestServer(t, outageFactory{memory.NewRepositoryFactory(store)})
	status, env := down.do(http.MethodPost, fmt.Sprintf("/api/feature/v1/%d/vote", featureId), "bob", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "STORE_UNAVAILABLE", env.Error)

	// nothing was recorded
	status, env = healthy.do(http.MethodGet, fmt.Sprintf("/api/feature/v1/%d/vote", featureId), "bob", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, fmt.Sprintf(`{"feature_id":%d,"voted":false}`, featureId), string(env.Data))
}

func TestBoardFeedRoute(t *testing.T) {
	s := newTestServer(t, memory.NewRepositoryFactory(memory.NewStore()))
	productId, _ := s.createBoard()

	status, env := s.do(http.MethodGet, "/api/board/v1/9999/ws", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", env.Error)

	status, _ = s.do(http.MethodGet, fmt.Sprintf("/api/board/v1/%d/ws", productId), "", nil)
	assert.Equal(t, http.StatusUpgradeRequired, status)
}
