package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patientDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func newTestClient(url string) *Client {
	return NewClient(url, 2*time.Second, zerolog.Nop())
}

func TestClient_FetchInto(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/patients", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		w.Write([]byte(`{"code":0,"data":[{"id":1,"name":"张三"},{"id":2,"name":"李四"}]}`))
	}))
	defer srv.Close()

	patients, err := FetchInto[[]patientDTO](context.Background(), newTestClient(srv.URL), "/api/patients")
	require.NoError(t, err)
	require.Len(t, patients, 2)
	assert.Equal(t, "张三", patients[0].Name)
}

func TestClient_RejectedSurfacesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":3,"msg":"号源已满","data":null}`))
	}))
	defer srv.Close()

	_, err := FetchInto[[]patientDTO](context.Background(), newTestClient(srv.URL), "/api/registrations")
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindRejected, kind)
	assert.Equal(t, "号源已满", err.Error())
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	_, err := FetchInto[[]patientDTO](context.Background(), newTestClient(srv.URL), "/api/patients")
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindUnreachable, kind)
}

func TestClient_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer srv.Close()

	_, err := FetchInto[[]patientDTO](context.Background(), newTestClient(srv.URL), "/api/patients")
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindMalformed, kind)
}

func TestClient_CookiePersistsAcrossCalls(t *testing.T) {
	var sawCookie bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			http.SetCookie(w, &http.Cookie{Name: "HOSPITAL_AUTH_TOKEN", Value: "tok", Path: "/"})
			w.Write([]byte(`{"code":0,"data":{"username":"alice","role":"DOCTOR"}}`))
		default:
			_, err := r.Cookie("HOSPITAL_AUTH_TOKEN")
			sawCookie = err == nil
			w.Write([]byte(`{"code":0,"data":[]}`))
		}
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Post(context.Background(), "/api/auth/login", map[string]string{"username": "alice"})
	require.NoError(t, err)
	_, err = c.Get(context.Background(), "/api/doctors/registrations")
	require.NoError(t, err)
	assert.True(t, sawCookie, "session cookie should ride on subsequent requests")
}

func TestClient_DeleteUnwraps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.Write([]byte(`{"code":0,"data":null}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Delete(context.Background(), "/api/registrations/5")
	require.NoError(t, err)
}
