package registration

import (
	"fmt"
	"strings"

	"github.com/hospreg/hospreg/internal/domain/ref"
)

// Status is the registration lifecycle enumeration.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// NormalizeStatus maps a raw server value onto the enumeration. Unknown or
// missing values default to pending instead of failing.
func NormalizeStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "processing":
		return StatusProcessing
	case "completed":
		return StatusCompleted
	case "cancelled":
		return StatusCancelled
	default:
		return StatusPending
	}
}

// CanTransitionTo encodes the status graph: pending may move to processing
// or cancelled, processing to completed or cancelled; completed and
// cancelled are terminal.
func (s Status) CanTransitionTo(to Status) bool {
	switch s {
	case StatusPending:
		return to == StatusProcessing || to == StatusCancelled
	case StatusProcessing:
		return to == StatusCompleted || to == StatusCancelled
	default:
		return false
	}
}

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Label returns the user-facing status text.
func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "待确认"
	case StatusProcessing:
		return "处理中"
	case StatusCompleted:
		return "已完成"
	case StatusCancelled:
		return "已取消"
	}
	return string(s)
}

// Registration is the canonical local model. Department and Doctor arrive
// in several shapes depending on the endpoint (plain name for the doctor
// views, embedded objects for the admin views); ref.Ref absorbs both.
type Registration struct {
	ID              int64   `json:"id"`
	PatientID       int64   `json:"patientId,omitempty"`
	PatientName     string  `json:"patientName,omitempty"`
	Patient         ref.Ref `json:"patient,omitzero"`
	Doctor          ref.Ref `json:"doctor,omitzero"`
	Department      ref.Ref `json:"department,omitzero"`
	Disease         string  `json:"disease,omitempty"`
	AppointmentTime string  `json:"appointmentTime,omitempty"`
	Status          Status  `json:"status"`
	MedicalNote     string  `json:"medicalNote,omitempty"`
}

// DepartmentName is the canonical display string for the department.
func (r Registration) DepartmentName() string {
	return r.Department.Display("未分类")
}

// DisplayPatient prefers the flat doctor-view field, then the embedded
// admin-view reference.
func (r Registration) DisplayPatient() string {
	if r.PatientName != "" {
		return r.PatientName
	}
	return r.Patient.Display("未知")
}

// Normalize canonicalizes a freshly decoded record. Applied once at
// ingestion, never per filter pass.
func Normalize(r Registration) Registration {
	r.Status = NormalizeStatus(string(r.Status))
	if r.PatientID == 0 {
		r.PatientID = r.Patient.ID
	}
	return r
}

// NormalizeAll canonicalizes a collection in place order.
func NormalizeAll(items []Registration) []Registration {
	out := make([]Registration, len(items))
	for i, r := range items {
		out[i] = Normalize(r)
	}
	return out
}

// GuardError is a domain precondition that blocks a requested state
// transition before any mutation or network call happens.
type GuardError struct {
	Reason string
}

func (e *GuardError) Error() string { return e.Reason }

// CheckTransition is the transition guard: the move must exist in the
// status graph, and completing a registration requires a recorded medical
// note.
func CheckTransition(r Registration, to Status) error {
	if !r.Status.CanTransitionTo(to) {
		return &GuardError{Reason: fmt.Sprintf("挂号状态不能从%s变更为%s", r.Status.Label(), to.Label())}
	}
	if to == StatusCompleted && strings.TrimSpace(r.MedicalNote) == "" {
		return &GuardError{Reason: "该挂号尚未录入病历，不能标记为已完成"}
	}
	return nil
}
