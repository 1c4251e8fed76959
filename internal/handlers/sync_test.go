package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xelth-com/storesync/internal/buildinfo"
	"github.com/xelth-com/storesync/internal/catalog"
	"github.com/xelth-com/storesync/internal/config"
	"github.com/xelth-com/storesync/internal/database/dbtest"
	"github.com/xelth-com/storesync/internal/models"
	"github.com/xelth-com/storesync/internal/sync"
	"github.com/xelth-com/storesync/internal/utils"
	"github.com/xelth-com/storesync/internal/wire"
)

type testServer struct {
	router *Router
	cfg    *config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db := dbtest.Open(t)
	cfg := &config.Config{JWTSecret: "handler-secret", AccessTokenTTL: time.Hour}
	cat, err := catalog.NewRetail()
	require.NoError(t, err)
	svc, err := sync.NewService(db.DB, cat, sync.Options{Audit: true})
	require.NoError(t, err)

	hash, err := utils.HashPassword("open-sesame")
	require.NoError(t, err)
	store := "s1"
	require.NoError(t, db.Create(&models.Store{ID: "s1", Name: "Main Street"}).Error)
	require.NoError(t, db.Create(&models.Store{ID: "s2", Name: "Harbour"}).Error)
	require.NoError(t, db.Create(&models.User{
		ID: "u1", Email: "clerk@shop.test", Username: "clerk@shop.test", FirstName: "Sam",
		Password: hash, Role: "staff", StoreID: &store, IsActive: true,
	}).Error)
	require.NoError(t, db.Create(&models.User{
		ID: "u2", Email: "boss@shop.test", Username: "boss@shop.test",
		Password: hash, Role: "admin", IsActive: true,
	}).Error)

	return &testServer{router: NewRouter(db, cfg, svc), cfg: cfg}
}

func (s *testServer) token(t *testing.T, email string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": "open-sesame"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Tokens struct {
			AccessToken string `json:"accessToken"`
		} `json:"tokens"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Tokens.AccessToken
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var out map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "central", body["server"])
	assert.Equal(t, buildinfo.Version(), body["version"])
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "Clerk@Shop.test", "password": "open-sesame"})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Contains(t, string(body["user"]), `"name":"Sam"`)
	assert.NotContains(t, rec.Body.String(), "$2a$")

	token := s.token(t, "clerk@shop.test")
	claims, err := utils.ValidateToken(token, s.cfg.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, "s1", claims["store_id"])

	rec = s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "clerk@shop.test", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSyncRequiresToken(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/api/sync/push", "/api/sync/pull"} {
		rec := s.do(t, http.MethodPost, path, "", map[string]string{})
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestPushEndpoint(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "clerk@shop.test")

	rec := s.do(t, http.MethodPost, "/api/sync/push", token, map[string]interface{}{
		"deviceId": "term-7",
		"payload": map[string]interface{}{
			"products":  []map[string]interface{}{{"id": "p1", "name": "Tea", "store_id": "s1", "selling_price": 3.5}},
			"customers": []map[string]interface{}{{"id": "c1", "name": "Ann", "store_id": "s1"}},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Status    string              `json:"status"`
		SyncedIDs map[string][]string `json:"synced_ids"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, []string{"p1"}, resp.SyncedIDs["products"])
	assert.Equal(t, []string{"c1"}, resp.SyncedIDs["customers"])
	assert.Equal(t, []string{}, resp.SyncedIDs["sales"])
}

func TestPushEndpointReportsFailingRow(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "boss@shop.test")

	rec := s.do(t, http.MethodPost, "/api/sync/push", token, map[string]interface{}{
		"deviceId": "term-7",
		"payload": map[string]interface{}{
			"customers": []map[string]interface{}{{"id": "c1", "name": "Ann", "store_id": "s9"}},
		},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode(t, rec)
	assert.JSONEq(t, `"error"`, string(body["status"]))
	assert.Contains(t, string(body["message"]), "customers row c1")

	rec = s.do(t, http.MethodPost, "/api/sync/push", token, "not an object")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPushEndpointForbidsOtherStores(t *testing.T) {
	s := newTestServer(t)
	clerk := s.token(t, "clerk@shop.test")

	rec := s.do(t, http.MethodPost, "/api/sync/push", clerk, map[string]interface{}{
		"deviceId": "term-7",
		"payload": map[string]interface{}{
			"customers": []map[string]interface{}{{"id": "c9", "name": "Elsewhere", "store_id": "s2"}},
		},
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, string(decode(t, rec)["message"]), "customers row c9")

	boss := s.token(t, "boss@shop.test")
	rec = s.do(t, http.MethodPost, "/api/sync/push", boss, map[string]interface{}{
		"payload": map[string]interface{}{
			"customers": []map[string]interface{}{{"id": "c9", "name": "Elsewhere", "store_id": "s2"}},
		},
	})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestPushEndpointBlocksAccountTakeover(t *testing.T) {
	s := newTestServer(t)
	clerk := s.token(t, "clerk@shop.test")

	rec := s.do(t, http.MethodPost, "/api/sync/push", clerk, map[string]interface{}{
		"deviceId": "term-7",
		"payload": map[string]interface{}{
			"users": []map[string]interface{}{{"id": "evil", "email": "boss@shop.test", "password": "pwned", "store_id": "s2"}},
		},
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"email": "boss@shop.test", "password": "pwned"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	s.token(t, "boss@shop.test")
}

func TestPushEndpointBlocksRoleEscalation(t *testing.T) {
	s := newTestServer(t)
	clerk := s.token(t, "clerk@shop.test")

	rec := s.do(t, http.MethodPost, "/api/sync/push", clerk, map[string]interface{}{
		"deviceId": "term-7",
		"payload": map[string]interface{}{
			"users": []map[string]interface{}{{"id": "u1", "role": "super_admin"}},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// a fresh token still carries no admin rights
	clerk = s.token(t, "clerk@shop.test")
	claims, err := utils.ValidateToken(clerk, s.cfg.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, "staff", claims["role"])
	assert.Equal(t, false, claims["admin"])

	rec = s.do(t, http.MethodPost, "/api/sync/pull", clerk, map[string]interface{}{"store_id": "s2"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/sync/history", clerk, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPullEndpoint(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, "clerk@shop.test")

	rec := s.do(t, http.MethodPost, "/api/sync/pull", token, map[string]interface{}{"store_id": "s1", "last_sync": nil})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Status     string                `json:"status"`
		Updates    map[string][]wire.Row `json:"updates"`
		ServerTime string                `json:"server_time"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	require.Len(t, resp.Updates["stores"], 1)
	assert.Equal(t, "s1", resp.Updates["stores"][0]["id"].Text())
	require.Len(t, resp.Updates["users"], 1)
	assert.Equal(t, "Sam", resp.Updates["users"][0]["name"].Text())

	// the cursor trails by the push timeout, so rows written just before are sent again
	cursor, err := wire.ParseTime(resp.ServerTime)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(-time.Minute), cursor, 5*time.Second)

	rec = s.do(t, http.MethodPost, "/api/sync/pull", token, map[string]interface{}{"store_id": "s1", "last_sync": wire.FormatTime(cursor)})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(decode(t, rec)["updates"]), `"stores"`)

	later := wire.FormatTime(time.Now().Add(time.Minute))
	rec = s.do(t, http.MethodPost, "/api/sync/pull", token, map[string]interface{}{"store_id": "s1", "last_sync": later})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, string(decode(t, rec)["updates"]))
}

func TestPullEndpointErrors(t *testing.T) {
	s := newTestServer(t)
	clerk := s.token(t, "clerk@shop.test")
	boss := s.token(t, "boss@shop.test")

	rec := s.do(t, http.MethodPost, "/api/sync/pull", clerk, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/sync/pull", clerk, map[string]interface{}{"store_id": "s2"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/sync/pull", clerk, map[string]interface{}{"store_id": "s1", "last_sync": "yesterday"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/sync/pull", boss, map[string]interface{}{"store_id": "s2"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/sync/pull", boss, map[string]interface{}{"store_id": "nowhere"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryEndpoint(t *testing.T) {
	s := newTestServer(t)
	clerk := s.token(t, "clerk@shop.test")
	boss := s.token(t, "boss@shop.test")

	s.do(t, http.MethodPost, "/api/sync/pull", clerk, map[string]interface{}{"store_id": "s1", "deviceId": "term-7"})

	rec := s.do(t, http.MethodGet, "/api/sync/history", clerk, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/sync/history?limit=5", boss, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"device_id":"term-7"`)
}
