package patient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hospreg/hospreg/internal/platform/api"
)

func serviceAgainst(t *testing.T, handler http.HandlerFunc) (*Service, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	client := api.NewClient(srv.URL, 2*time.Second, zerolog.Nop())
	return NewService(client, zerolog.Nop()), srv.Close
}

func TestCurrentDetails_ResolutionChain(t *testing.T) {
	var paths []string
	svc, closeSrv := serviceAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/api/auth/me":
			w.Write([]byte(`{"code":0,"data":{"username":"zhangsan"}}`))
		case "/api/users/username/zhangsan":
			w.Write([]byte(`{"code":0,"data":{"id":9}}`))
		case "/api/patients/user/9":
			w.Write([]byte(`{"code":0,"data":{"id":1001,"name":"张三"}}`))
		case "/api/patients/1001/details":
			w.Write([]byte(`{"code":0,"data":{"id":1001,"name":"张三","visitHistory":[{"id":1,"status":"COMPLETED"}]}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})
	defer closeSrv()

	d, err := svc.CurrentDetails(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.ID != 1001 || d.Name != "张三" {
		t.Fatalf("unexpected profile: %+v", d)
	}
	if d.VisitHistory[0].Status != VisitCompleted {
		t.Errorf("visit status not normalized: %s", d.VisitHistory[0].Status)
	}
	if len(paths) != 4 {
		t.Errorf("expected 4-hop resolution, got %v", paths)
	}
}

func TestCurrentDetails_StopsOnFirstFailure(t *testing.T) {
	var calls int
	svc, closeSrv := serviceAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"code":401,"msg":"未登录","data":null}`))
	})
	defer closeSrv()

	if _, err := svc.CurrentDetails(context.Background()); err == nil {
		t.Fatal("expected rejection to surface")
	}
	if calls != 1 {
		t.Errorf("chain must stop at the failing hop, made %d calls", calls)
	}
}

func TestListDetails_NormalizesEachItem(t *testing.T) {
	svc, closeSrv := serviceAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/patients/details" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"code":0,"data":[{"id":1,"name":"张三"},{"id":2,"name":"李四","visitHistory":[{"id":5,"status":"CANCELLED"}]}]}`))
	})
	defer closeSrv()

	items, err := svc.ListDetails(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items[0].VisitHistory == nil || items[0].MedicalHistory == nil {
		t.Error("nil histories should normalize to empty slices")
	}
	if items[1].VisitHistory[0].Status != VisitCancelled {
		t.Errorf("status not normalized: %s", items[1].VisitHistory[0].Status)
	}
}

func TestUpdateProfile_PutsAndDecodes(t *testing.T) {
	svc, closeSrv := serviceAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/patients/1001" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"code":0,"data":{"id":1001,"name":"张三","phone":"13800138000"}}`))
	})
	defer closeSrv()

	updated, err := svc.UpdateProfile(context.Background(), 1001, Basic{ID: 1001, Name: "张三", Phone: "13800138000"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Phone != "13800138000" {
		t.Errorf("authoritative record not decoded: %+v", updated)
	}
}

func TestDetailsForDoctor_Path(t *testing.T) {
	svc, closeSrv := serviceAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/doctors/patients/7" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"code":0,"data":{"id":7,"name":"王五"}}`))
	})
	defer closeSrv()

	d, err := svc.DetailsForDoctor(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Name != "王五" || d.VisitHistory == nil {
		t.Errorf("unexpected details: %+v", d)
	}
}
