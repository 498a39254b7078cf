package stats

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hospreg/hospreg/internal/domain/registration"
	"github.com/hospreg/hospreg/internal/platform/api"
	"github.com/hospreg/hospreg/internal/platform/fallback"
)

type fakeRegs struct {
	items []registration.Registration
	err   error
}

func (f *fakeRegs) ListForDoctor(context.Context) ([]registration.Registration, error) {
	return f.items, f.err
}

func TestAdmin_NormalizesNilSlices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admin/stats" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"code":0,"data":{"totalUsers":120,"todayRegistrations":8}}`))
	}))
	defer srv.Close()

	svc := NewService(api.NewClient(srv.URL, 2*time.Second, zerolog.Nop()), &fakeRegs{}, fallback.ModeNever, zerolog.Nop())
	st, err := svc.Admin(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.TotalUsers != 120 {
		t.Errorf("unexpected stats: %+v", st)
	}
	if st.RegistrationByDepartment == nil || st.RecentRegistrations == nil {
		t.Error("nil slices must normalize to empty")
	}
}

func TestAdmin_NeverDegrades(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close()

	svc := NewService(api.NewClient(srv.URL, time.Second, zerolog.Nop()), &fakeRegs{}, fallback.ModeAuto, zerolog.Nop())
	if _, err := svc.Admin(context.Background()); err == nil {
		t.Fatal("admin counters must surface transport errors even in auto mode")
	}
}

func TestDoctorCards_FallsBackWhenUnreachable(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close()

	svc := NewService(api.NewClient(srv.URL, time.Second, zerolog.Nop()), &fakeRegs{}, fallback.ModeAuto, zerolog.Nop())
	cards, err := svc.DoctorCards(context.Background())
	if err != nil {
		t.Fatalf("degrading view must not surface transport errors: %v", err)
	}
	if len(cards) != 4 || cards[0].Title != "今日接诊" {
		t.Errorf("unexpected fixture cards: %+v", cards)
	}
}

func TestReport_UsesRegistrationSourceAndClock(t *testing.T) {
	regs := &fakeRegs{items: []registration.Registration{
		{ID: 1, AppointmentTime: "2025-11-10T09:00:00", Status: registration.StatusPending},
	}}
	svc := NewService(nil, regs, fallback.ModeNever, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2025, 11, 10, 18, 0, 0, 0, time.UTC) }

	r, err := svc.Report(context.Background(), RangeDay)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Workload[9].Count != 1 {
		t.Errorf("report not built from source rows: %+v", r.Workload[9])
	}
}
