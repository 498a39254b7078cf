package doctor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hospreg/hospreg/internal/platform/api"
	"github.com/hospreg/hospreg/internal/platform/fallback"
)

func serviceAgainst(t *testing.T, handler http.HandlerFunc, mode fallback.Mode) (*Service, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	client := api.NewClient(srv.URL, 2*time.Second, zerolog.Nop())
	svc := NewService(client, mode, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2025, 11, 10, 12, 0, 0, 0, time.UTC) }
	return svc, srv.Close
}

func unreachableService(t *testing.T, mode fallback.Mode) *Service {
	t.Helper()
	srv := httptest.NewServer(nil)
	srv.Close()
	client := api.NewClient(srv.URL, time.Second, zerolog.Nop())
	svc := NewService(client, mode, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2025, 11, 10, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestCurrent_NormalizesAvatar(t *testing.T) {
	svc, closeSrv := serviceAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/doctors/current" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"code":0,"data":{"id":1,"name":"李医生","avatar":"li.png"}}`))
	}, fallback.ModeNever)
	defer closeSrv()

	d, err := svc.Current(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Avatar != "/files/li.png" {
		t.Errorf("avatar not normalized: %s", d.Avatar)
	}
}

func TestCurrent_FallsBackWhenUnreachable(t *testing.T) {
	svc := unreachableService(t, fallback.ModeAuto)

	d, err := svc.Current(context.Background())
	if err != nil {
		t.Fatalf("degrading view must not surface transport errors: %v", err)
	}
	if d.Name != "李医生" || d.Department != "内科" || d.Title != "副主任医师" {
		t.Errorf("unexpected fixture profile: %+v", d)
	}
}

func TestCurrent_NeverModeSurfaces(t *testing.T) {
	svc := unreachableService(t, fallback.ModeNever)
	if _, err := svc.Current(context.Background()); err == nil {
		t.Fatal("never mode must surface the transport error")
	}
}

func TestLeaveRequests_NormalizedAndAnchored(t *testing.T) {
	svc, closeSrv := serviceAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":0,"data":[{"id":1,"startDate":"2025-11-20","endDate":"2025-11-21","status":"APPROVED"},{"id":2,"startDate":"2025-12-01","endDate":"2025-12-01"}]}`))
	}, fallback.ModeAuto)
	defer closeSrv()

	items, err := svc.LeaveRequests(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if items[0].Status != LeaveApproved || items[1].Status != LeavePending {
		t.Errorf("statuses not normalized: %+v", items)
	}

	offline := unreachableService(t, fallback.ModeAuto)
	fb, err := offline.LeaveRequests(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fb) != 2 || fb[0].StartDate != "2025-11-10" {
		t.Errorf("fixture must be anchored on the injected clock: %+v", fb)
	}
}

func TestSubmitLeaveRequest_Body(t *testing.T) {
	var got map[string]string
	svc, closeSrv := serviceAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/doctors/leave-requests" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"code":0,"data":{"id":9,"startDate":"2025-12-01","endDate":"2025-12-02","status":"PENDING"}}`))
	}, fallback.ModeNever)
	defer closeSrv()

	created, err := svc.SubmitLeaveRequest(context.Background(), "2025-12-01", "2025-12-02", "年假")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["reason"] != "年假" {
		t.Errorf("unexpected body: %v", got)
	}
	if created.ID != 9 || created.Status != LeavePending {
		t.Errorf("unexpected created record: %+v", created)
	}
}

func TestSaveWorkingHours_NeverDegrades(t *testing.T) {
	svc := unreachableService(t, fallback.ModeAuto)
	if err := svc.SaveWorkingHours(context.Background(), FallbackWorkingHours()); err == nil {
		t.Fatal("writes must surface transport errors even in auto mode")
	}
}

func TestTasksAndNotifications_Fixtures(t *testing.T) {
	svc := unreachableService(t, fallback.ModeAuto)

	tasks, err := svc.Tasks(context.Background())
	if err != nil || len(tasks) == 0 {
		t.Fatalf("expected fixture tasks, got %v / %v", tasks, err)
	}
	notes, err := svc.Notifications(context.Background())
	if err != nil || len(notes) == 0 {
		t.Fatalf("expected fixture notifications, got %v / %v", notes, err)
	}
}

func TestListByDepartment_Path(t *testing.T) {
	var path string
	svc, closeSrv := serviceAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(`{"code":0,"data":[{"id":1,"name":"李医生"}]}`))
	}, fallback.ModeNever)
	defer closeSrv()

	items, err := svc.ListByDepartment(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/api/departments/3/doctors" {
		t.Errorf("unexpected path: %s", path)
	}
	if items[0].Avatar != "/files/Default.gif" {
		t.Errorf("avatar should default: %s", items[0].Avatar)
	}
}
