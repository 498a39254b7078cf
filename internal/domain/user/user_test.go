package user

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hospreg/hospreg/internal/platform/api"
)

func TestGetByUsername_Path(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(`{"code":0,"data":{"id":9,"username":"zhangsan","role":"PATIENT"}}`))
	}))
	defer srv.Close()

	svc := NewService(api.NewClient(srv.URL, 2*time.Second, zerolog.Nop()), zerolog.Nop())
	u, err := svc.GetByUsername(context.Background(), "zhangsan")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/api/users/username/zhangsan" {
		t.Errorf("unexpected path: %s", path)
	}
	if u.ID != 9 {
		t.Errorf("unexpected user: %+v", u)
	}
}

func TestList_RejectedSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":403,"msg":"无权限","data":null}`))
	}))
	defer srv.Close()

	svc := NewService(api.NewClient(srv.URL, 2*time.Second, zerolog.Nop()), zerolog.Nop())
	if _, err := svc.List(context.Background()); err == nil || err.Error() != "无权限" {
		t.Fatalf("expected server message, got %v", err)
	}
}
