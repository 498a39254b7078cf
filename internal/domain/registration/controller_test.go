package registration

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/hospreg/hospreg/internal/platform/viewstate"
)

// fakeSource counts write calls so guard tests can assert that no network
// call was issued.
type fakeSource struct {
	items       []Registration
	listErr     error
	statusErr   error
	statusCalls int
	batchErr    error
	batchCalls  int
}

func (f *fakeSource) ListForDoctor(context.Context) ([]Registration, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.items, nil
}

func (f *fakeSource) UpdateStatus(_ context.Context, id int64, status Status) error {
	f.statusCalls++
	return f.statusErr
}

func (f *fakeSource) BatchUpdateStatus(_ context.Context, ids []int64, status Status) error {
	f.batchCalls++
	return f.batchErr
}

func loadedController(t *testing.T, src *fakeSource) *Controller {
	t.Helper()
	c := NewController(src)
	c.Load(context.Background())
	if c.Store().Phase() != viewstate.Ready {
		t.Fatalf("expected Ready after load, got %v", c.Store().Phase())
	}
	return c
}

func TestTransition_OptimisticThenReconciled(t *testing.T) {
	src := &fakeSource{items: []Registration{{ID: 1, Status: StatusPending}}}
	c := loadedController(t, src)

	done, err := c.Transition(context.Background(), 1, StatusProcessing)
	if err != nil {
		t.Fatalf("unexpected guard error: %v", err)
	}

	// Optimistic state is visible before the server settles.
	if got := c.Store().Items(); got[0].Status != StatusProcessing {
		t.Fatalf("expected immediate optimistic status, got %+v", got)
	}

	if err := <-done; err != nil {
		t.Fatalf("unexpected settle error: %v", err)
	}
	if got := c.Store().Items(); got[0].Status != StatusProcessing {
		t.Fatalf("idempotent reconciliation changed the item: %+v", got)
	}
	if src.statusCalls != 1 {
		t.Errorf("expected exactly one status call, got %d", src.statusCalls)
	}
}

func TestTransition_RollbackOnServerFailure(t *testing.T) {
	before := []Registration{{ID: 1, Status: StatusPending}, {ID: 2, Status: StatusProcessing}}
	src := &fakeSource{items: before, statusErr: errors.New("duplicate")}
	c := loadedController(t, src)

	done, err := c.Transition(context.Background(), 1, StatusProcessing)
	if err != nil {
		t.Fatalf("unexpected guard error: %v", err)
	}
	if err := <-done; err == nil {
		t.Fatal("expected surfaced server error")
	}

	if got := c.Store().Items(); !reflect.DeepEqual(got, before) {
		t.Fatalf("rollback must restore the pre-mutation collection: %+v", got)
	}
	if c.Store().Err() != "duplicate" {
		t.Errorf("expected surfaced message, got %q", c.Store().Err())
	}
}

func TestTransition_GuardBlocksBeforeNetwork(t *testing.T) {
	src := &fakeSource{items: []Registration{{ID: 1, Status: StatusProcessing}}} // no medical note
	c := loadedController(t, src)

	_, err := c.Transition(context.Background(), 1, StatusCompleted)
	if err == nil {
		t.Fatal("expected guard error")
	}
	var guard *GuardError
	if !errors.As(err, &guard) {
		t.Fatalf("expected GuardError, got %T", err)
	}
	if src.statusCalls != 0 {
		t.Errorf("guard-blocked transition must not issue the network call, got %d calls", src.statusCalls)
	}
	if got := c.Store().Items(); got[0].Status != StatusProcessing {
		t.Errorf("guard-blocked transition must not mutate items: %+v", got)
	}
}

func TestTransition_InvalidEdgeBlocked(t *testing.T) {
	src := &fakeSource{items: []Registration{{ID: 1, Status: StatusPending}}}
	c := loadedController(t, src)

	if _, err := c.Transition(context.Background(), 1, StatusCompleted); err == nil {
		t.Fatal("pending -> completed is not in the status graph")
	}
	if src.statusCalls != 0 {
		t.Error("blocked transition must not reach the server")
	}
}

func TestTransition_UnknownID(t *testing.T) {
	src := &fakeSource{items: []Registration{{ID: 1, Status: StatusPending}}}
	c := loadedController(t, src)

	if _, err := c.Transition(context.Background(), 404, StatusProcessing); err == nil {
		t.Fatal("expected error for unknown registration")
	}
}

func TestTransitionChecked_AllOrNothing(t *testing.T) {
	before := []Registration{
		{ID: 1, Status: StatusPending},
		{ID: 2, Status: StatusPending},
		{ID: 3, Status: StatusCompleted, MedicalNote: "done"},
	}
	src := &fakeSource{items: before, batchErr: errors.New("partial failure")}
	c := loadedController(t, src)

	c.Store().Toggle(1)
	c.Store().Toggle(2)

	done, err := c.TransitionChecked(context.Background(), StatusCancelled)
	if err != nil {
		t.Fatalf("unexpected guard error: %v", err)
	}
	if err := <-done; err == nil {
		t.Fatal("expected surfaced batch error")
	}

	if got := c.Store().Items(); !reflect.DeepEqual(got, before) {
		t.Fatalf("failed batch must revert every member: %+v", got)
	}
}

func TestTransitionChecked_GuardBlocksWholeBatch(t *testing.T) {
	src := &fakeSource{items: []Registration{
		{ID: 1, Status: StatusProcessing, MedicalNote: "ok"},
		{ID: 2, Status: StatusProcessing}, // missing note
	}}
	c := loadedController(t, src)
	c.Store().Toggle(1)
	c.Store().Toggle(2)

	if _, err := c.TransitionChecked(context.Background(), StatusCompleted); err == nil {
		t.Fatal("one blocked member must block the whole batch")
	}
	if src.batchCalls != 0 {
		t.Error("blocked batch must not reach the server")
	}
	if got := c.Store().Items(); got[0].Status != StatusProcessing || got[1].Status != StatusProcessing {
		t.Errorf("blocked batch must not mutate items: %+v", got)
	}
}

func TestTransitionChecked_Success(t *testing.T) {
	src := &fakeSource{items: []Registration{
		{ID: 1, Status: StatusPending},
		{ID: 2, Status: StatusPending},
	}}
	c := loadedController(t, src)
	c.Store().ToggleAll()

	done, err := c.TransitionChecked(context.Background(), StatusProcessing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("unexpected settle error: %v", err)
	}
	for _, r := range c.Store().Items() {
		if r.Status != StatusProcessing {
			t.Errorf("expected processing, got %+v", r)
		}
	}
	if len(c.Store().CheckedIDs()) != 0 {
		t.Error("batch selection should clear after submission")
	}
	if src.batchCalls != 1 {
		t.Errorf("expected one batch call, got %d", src.batchCalls)
	}
}

func TestTransitionChecked_EmptySelection(t *testing.T) {
	src := &fakeSource{items: []Registration{{ID: 1, Status: StatusPending}}}
	c := loadedController(t, src)

	if _, err := c.TransitionChecked(context.Background(), StatusCancelled); err == nil {
		t.Fatal("expected error for empty selection")
	}
}

func TestLoadFailure_BlockingView(t *testing.T) {
	src := &fakeSource{listErr: errors.New("no session")}
	c := NewController(src)
	c.Load(context.Background())

	if c.Store().Phase() != viewstate.Failed {
		t.Fatalf("expected Failed, got %v", c.Store().Phase())
	}
	if c.Store().Err() == "" {
		t.Error("expected surfaced error message")
	}
}

func TestMatchFilter_SearchesPatientIDAndDisease(t *testing.T) {
	r := Registration{ID: 1, PatientID: 1001, PatientName: "张三", Disease: "感冒"}
	if !MatchFilter(r, viewstate.FilterSpec{Search: "1001"}) {
		t.Error("search should match the patient id")
	}
	if !MatchFilter(r, viewstate.FilterSpec{Search: "感冒"}) {
		t.Error("search should match the disease")
	}
	if MatchFilter(r, viewstate.FilterSpec{Search: "高血压"}) {
		t.Error("non-matching search should exclude")
	}
}
