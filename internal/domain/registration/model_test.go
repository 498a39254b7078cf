package registration

import (
	"encoding/json"
	"testing"
)

func TestNormalizeStatus(t *testing.T) {
	cases := map[string]Status{
		"pending":    StatusPending,
		"PROCESSING": StatusProcessing,
		"Completed":  StatusCompleted,
		"cancelled":  StatusCancelled,
		"":           StatusPending,
		"unknown":    StatusPending,
		"  pending ": StatusPending,
	}
	for raw, want := range cases {
		if got := NormalizeStatus(raw); got != want {
			t.Errorf("NormalizeStatus(%q) = %s, want %s", raw, got, want)
		}
	}
}

func TestStatusGraph(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusPending, StatusProcessing},
		{StatusPending, StatusCancelled},
		{StatusProcessing, StatusCompleted},
		{StatusProcessing, StatusCancelled},
	}
	for _, c := range allowed {
		if !c.from.CanTransitionTo(c.to) {
			t.Errorf("%s -> %s should be allowed", c.from, c.to)
		}
	}

	blocked := []struct{ from, to Status }{
		{StatusPending, StatusCompleted},
		{StatusCompleted, StatusProcessing},
		{StatusCompleted, StatusCancelled},
		{StatusCancelled, StatusPending},
		{StatusProcessing, StatusPending},
	}
	for _, c := range blocked {
		if c.from.CanTransitionTo(c.to) {
			t.Errorf("%s -> %s should be blocked", c.from, c.to)
		}
	}

	if !StatusCompleted.Terminal() || !StatusCancelled.Terminal() {
		t.Error("completed and cancelled are terminal")
	}
}

func TestCheckTransition_MedicalNoteGuard(t *testing.T) {
	r := Registration{ID: 1, Status: StatusProcessing}
	err := CheckTransition(r, StatusCompleted)
	if err == nil {
		t.Fatal("completing without a medical note must be blocked")
	}
	var guard *GuardError
	if !asGuard(err, &guard) {
		t.Fatalf("expected GuardError, got %T", err)
	}

	r.MedicalNote = "上呼吸道感染，已开药"
	if err := CheckTransition(r, StatusCompleted); err != nil {
		t.Errorf("unexpected guard error: %v", err)
	}
}

func asGuard(err error, target **GuardError) bool {
	g, ok := err.(*GuardError)
	if ok {
		*target = g
	}
	return ok
}

func TestNormalize_EmbeddedShapes(t *testing.T) {
	raw := `{
		"id": 9,
		"patient": {"id": 1001, "name": "张三"},
		"doctor": {"id": 2, "name": "李医生"},
		"department": "内科",
		"appointmentTime": "2025-11-10T09:00:00",
		"status": "PENDING"
	}`
	var r Registration
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatal(err)
	}
	r = Normalize(r)

	if r.Status != StatusPending {
		t.Errorf("status not normalized: %s", r.Status)
	}
	if r.PatientID != 1001 {
		t.Errorf("patient id should be lifted from the embedded ref, got %d", r.PatientID)
	}
	if r.DisplayPatient() != "张三" {
		t.Errorf("unexpected patient display: %s", r.DisplayPatient())
	}
	if r.DepartmentName() != "内科" {
		t.Errorf("unexpected department display: %s", r.DepartmentName())
	}
}

func TestDepartmentName_Placeholder(t *testing.T) {
	var r Registration
	if r.DepartmentName() != "未分类" {
		t.Errorf("absent department should display the placeholder, got %s", r.DepartmentName())
	}
}
