package patient

import "strings"

// VisitStatus is the patient-side visit lifecycle.
type VisitStatus string

const (
	VisitPending   VisitStatus = "pending"
	VisitCompleted VisitStatus = "completed"
	VisitCancelled VisitStatus = "cancelled"
)

// NormalizeVisitStatus maps raw server values onto the enumeration,
// defaulting to pending.
func NormalizeVisitStatus(raw string) VisitStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "completed":
		return VisitCompleted
	case "cancelled":
		return VisitCancelled
	default:
		return VisitPending
	}
}

// MedicalRecord is one entry of a patient's medical history.
type MedicalRecord struct {
	ID          int64    `json:"id"`
	VisitDate   string   `json:"visitDate"`
	Diagnosis   string   `json:"diagnosis,omitempty"`
	Treatment   string   `json:"treatment,omitempty"`
	Medications []string `json:"medications"`
	Doctor      string   `json:"doctor,omitempty"`
	Symptoms    string   `json:"symptoms,omitempty"`
}

// VisitRecord is one entry of a patient's visit history.
type VisitRecord struct {
	ID              int64       `json:"id"`
	AppointmentTime string      `json:"appointmentTime"`
	Department      string      `json:"department,omitempty"`
	Doctor          string      `json:"doctor,omitempty"`
	Disease         string      `json:"disease,omitempty"`
	Status          VisitStatus `json:"status"`
	Symptoms        string      `json:"symptoms,omitempty"`
}

// Details is the full patient profile consumed by the profile, records,
// and registration views.
type Details struct {
	ID             int64           `json:"id"`
	Username       string          `json:"username,omitempty"`
	Name           string          `json:"name,omitempty"`
	Gender         string          `json:"gender,omitempty"`
	Age            int             `json:"age,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Address        string          `json:"address,omitempty"`
	MedicalHistory []MedicalRecord `json:"medicalHistory"`
	VisitHistory   []VisitRecord   `json:"visitHistory"`
}

// Basic is the registration-time patient record keyed to a user account.
type Basic struct {
	ID      int64  `json:"id"`
	UserID  int64  `json:"userId,omitempty"`
	Name    string `json:"name"`
	Gender  string `json:"gender,omitempty"`
	Age     int    `json:"age,omitempty"`
	IDCard  string `json:"idCard,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Summary is the row the doctor's patient list shows.
type Summary struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Gender  string `json:"gender,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Normalize canonicalizes a decoded profile: nil histories become empty
// slices and every visit status maps onto the enumeration.
func Normalize(d Details) Details {
	if d.MedicalHistory == nil {
		d.MedicalHistory = []MedicalRecord{}
	}
	if d.VisitHistory == nil {
		d.VisitHistory = []VisitRecord{}
	}
	for i, v := range d.VisitHistory {
		d.VisitHistory[i].Status = NormalizeVisitStatus(string(v.Status))
	}
	return d
}
