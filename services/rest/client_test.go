package restsvc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/services/session"
)

func newTestClient(srvURL string, sess core.Session) *Client {
	return NewClient(core.APIConfig{BaseURL: srvURL, Timeout: 2 * time.Second}, sess, nil)
}

func TestClient_attachesBearerTokenAndJSONHeaders(t *testing.T) {
	var gotAuth, gotAccept, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": map[string]interface{}{"id": "x"}})
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, sessionsvc.NewMemory("tok123"))
	_, err := client.Create(context.Background(), "/api/notices", map[string]interface{}{"title": "hi"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok123", gotAuth)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "application/json", gotContentType)
}

func TestClient_listNormalizesEnvelopes(t *testing.T) {
	records := `[{"id":"a1","title":"Algebra HW"}]`
	bodies := map[string]string{
		"bare":         records,
		"data":         `{"data":` + records + `}`,
		"items":        `{"items":` + records + `}`,
		"success/data": `{"success":true,"data":` + records + `}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(body))
			}))
			defer srv.Close()

			client := newTestClient(srv.URL, sessionsvc.NewMemory())
			items, err := client.List(context.Background(), "/api/assignments", nil)
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, "a1", items[0].ID)
		})
	}
}

func TestClient_unauthorizedExpiresSessionOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"expired"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	sess := sessionsvc.NewMemory("stale-token")
	var expirations int
	sess.OnExpire(func() { expirations++ })

	client := newTestClient(srv.URL, sess)
	_, err := client.List(context.Background(), "/api/notices", nil)
	require.Error(t, err)
	assert.True(t, core.IsUnauthenticated(err))
	assert.Empty(t, sess.Token(), "credential is discarded")

	// a second bounce must not fire the redirect hook again
	_, _ = client.List(context.Background(), "/api/notices", nil)
	assert.Equal(t, 1, expirations)
}

func TestClient_rejectionSurfacesBackendMessageVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"Duplicate code"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, sessionsvc.NewMemory())
	_, err := client.Create(context.Background(), "/api/inventory", map[string]interface{}{"code": "X1"})
	require.Error(t, err)

	var apiErr *core.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "Duplicate code", apiErr.Message)
}

func TestClient_nonJSONFailureIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, sessionsvc.NewMemory())
	_, err := client.List(context.Background(), "/api/notices", nil)
	require.Error(t, err)
	assert.True(t, core.IsUnavailable(err))
}

func TestClient_nonJSONSuccessIsUnavailable(t *testing.T) {
	// a misconfigured proxy can answer 200 with an HTML page; that is still a
	// connectivity failure, never a raw decode error
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>It works!</html>"))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, sessionsvc.NewMemory())

	_, err := client.List(context.Background(), "/api/notices", nil)
	require.Error(t, err)
	assert.True(t, core.IsUnavailable(err))

	_, err = client.Create(context.Background(), "/api/notices", map[string]interface{}{"title": "hi"})
	require.Error(t, err)
	assert.True(t, core.IsUnavailable(err))
}

func TestClient_connectionRefusedIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // backend process not running

	client := newTestClient(srv.URL, sessionsvc.NewMemory())
	_, err := client.List(context.Background(), "/api/notices", nil)
	require.Error(t, err)
	assert.True(t, core.IsUnavailable(err))
}

func TestClient_login(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "amina", body["username"])

		_ = json.NewEncoder(w).Encode(map[string]string{"token": "fresh-token"})
	}))
	defer srv.Close()

	sess := sessionsvc.NewMemory()
	client := newTestClient(srv.URL, sess)
	require.NoError(t, client.Login(context.Background(), "amina", "s3cret"))
	assert.Equal(t, "fresh-token", sess.Token())
}

func TestClient_listForwardsQueryParams(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, sessionsvc.NewMemory())
	_, err := client.List(context.Background(), "/api/assignments", url.Values{"classSection": {"7b"}})
	require.NoError(t, err)
	assert.Equal(t, "classSection=7b", gotQuery)
}
