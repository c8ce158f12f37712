package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agiseventos/agenda/internal/domain"
)

type fakeAPI struct {
	mu    sync.Mutex
	hits  map[string]int
	auths []string
}

func (f *fakeAPI) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data, "error": nil})
}

func writeErr(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"data": nil, "error": map[string]string{"code": code, "message": message}})
}

func newFakeServer(t *testing.T) (*fakeAPI, *httptest.Server) {
	t.Helper()
	api := &fakeAPI{hits: map[string]int{}}
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		api.hits[r.Method+" "+r.URL.RequestURI()]++
		api.auths = append(api.auths, r.Header.Get("Authorization"))
		api.mu.Unlock()

		switch r.Method + " " + r.URL.Path {
		case "POST /api/auth/login":
			var creds domain.Credentials
			_ = json.NewDecoder(r.Body).Decode(&creds)
			if creds.Password != "123456" {
				writeErr(w, http.StatusUnauthorized, "AUTH", "Email ou senha inválidos")
				return
			}
			writeData(w, http.StatusOK, AuthResult{User: domain.User{ID: 1, Email: creds.Email}, Token: "tok-1"})
		case "POST /api/auth/logout":
			writeData(w, http.StatusOK, map[string]string{"message": "ok"})
		case "GET /api/meeting-requests":
			writeData(w, http.StatusOK, []domain.MeetingRequest{{ID: 1, RequesterID: 4, TargetID: 1, Status: domain.RequestPending}})
		case "PUT /api/meeting-requests/1":
			writeData(w, http.StatusOK, domain.MeetingRequest{ID: 1, RequesterID: 4, TargetID: 1, Status: domain.RequestApproved})
		case "GET /api/meetings":
			writeData(w, http.StatusOK, []domain.Meeting{{ID: 1, FabricanteID: 1, RevendedorID: 2}})
		case "GET /api/stats":
			writeData(w, http.StatusOK, Stats{TotalMeetings: 1})
		case "GET /api/users/99":
			writeErr(w, http.StatusNotFound, "NOT_FOUND", "Usuário não encontrado")
		case "GET /api/meetings/export":
			w.Header().Set("Content-Type", "application/octet-stream")
			_, _ = w.Write([]byte("PK-xlsx"))
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return api, srv
}

func TestLoginSetsToken(t *testing.T) {
	api, srv := newFakeServer(t)
	c := New(srv.URL)

	res, err := c.Login(context.Background(), "joao@industriaabc.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", res.Token)
	assert.Equal(t, "tok-1", c.Token())

	_, err = c.Meetings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", api.auths[len(api.auths)-1])

	require.NoError(t, c.Logout(context.Background()))
	assert.Empty(t, c.Token())
}

func TestAPIError(t *testing.T) {
	_, srv := newFakeServer(t)
	c := New(srv.URL)

	_, err := c.Login(context.Background(), "joao@industriaabc.com", "errada")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))

	_, err = c.User(context.Background(), 99)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
	assert.Equal(t, "Usuário não encontrado", apiErr.Message)

	_, err = c.Events(context.Background())
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestQueryCacheAndInvalidation(t *testing.T) {
	api, srv := newFakeServer(t)
	c := New(srv.URL, WithToken("tok-1"))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		reqs, err := c.MeetingRequests(ctx)
		require.NoError(t, err)
		require.Len(t, reqs, 1)
		assert.Equal(t, domain.RequestPending, reqs[0].Status)
	}
	assert.Equal(t, 1, api.count("GET /api/meeting-requests"))

	_, err := c.Meetings(ctx)
	require.NoError(t, err)

	_, err = c.RespondMeetingRequest(ctx, 1, domain.RequestApproved, nil)
	require.NoError(t, err)

	_, err = c.MeetingRequests(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, api.count("GET /api/meeting-requests"))

	_, err = c.Meetings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, api.count("GET /api/meetings"), "reuniões não deveriam ser invalidadas")
}

func TestQueryCacheStaleTime(t *testing.T) {
	api, srv := newFakeServer(t)
	c := New(srv.URL, WithToken("tok-1"), WithStaleTime(time.Minute))
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := c.Stats(ctx)
	require.NoError(t, err)
	now = now.Add(30 * time.Second)
	_, err = c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, api.count("GET /api/stats"))

	now = now.Add(31 * time.Second)
	_, err = c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, api.count("GET /api/stats"))
}

func TestLoginClearsCache(t *testing.T) {
	api, srv := newFakeServer(t)
	c := New(srv.URL, WithToken("antigo"))
	ctx := context.Background()

	_, err := c.Meetings(ctx)
	require.NoError(t, err)
	_, err = c.Login(ctx, "ana@distribuidoranorte.com", "123456")
	require.NoError(t, err)
	_, err = c.Meetings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, api.count("GET /api/meetings"))
}

func TestExportMeetings(t *testing.T) {
	_, srv := newFakeServer(t)
	c := New(srv.URL, WithToken("tok-1"))

	var buf bytes.Buffer
	require.NoError(t, c.ExportMeetings(context.Background(), &buf))
	assert.Equal(t, "PK-xlsx", buf.String())
}
