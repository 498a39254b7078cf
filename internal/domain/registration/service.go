package registration

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hospreg/hospreg/internal/domain/ref"
	"github.com/hospreg/hospreg/internal/platform/api"
	"github.com/hospreg/hospreg/internal/platform/fallback"
)

func deptRef(name string) ref.Ref { return ref.Ref{Name: name} }

// Service performs the registration data access. Doctor-facing reads are
// degrading views (fixture data on transport failure); everything else is
// blocking.
type Service struct {
	client *api.Client
	mode   fallback.Mode
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(client *api.Client, mode fallback.Mode, logger zerolog.Logger) *Service {
	return &Service{
		client: client,
		mode:   mode,
		logger: logger.With().Str("component", "registration").Logger(),
		now:    time.Now,
	}
}

// List fetches the admin-wide registration collection. Blocking view.
func (s *Service) List(ctx context.Context) ([]Registration, error) {
	items, err := api.FetchInto[[]Registration](ctx, s.client, "/api/registrations")
	if err != nil {
		return nil, err
	}
	return NormalizeAll(items), nil
}

// ListForDoctor fetches the logged-in doctor's registrations. Degrading
// view: transport failures substitute the fixture dataset.
func (s *Service) ListForDoctor(ctx context.Context) ([]Registration, error) {
	return fallback.Resolve(ctx, s.mode, s.logger,
		func(ctx context.Context) ([]Registration, error) {
			items, err := api.FetchInto[[]Registration](ctx, s.client, "/api/doctors/registrations")
			if err != nil {
				return nil, err
			}
			return NormalizeAll(items), nil
		},
		func() []Registration { return FallbackRegistrations(s.now()) },
	)
}

// Create books a registration for a patient with a doctor. The server
// assigns the id and the initial status.
func (s *Service) Create(ctx context.Context, patientID, doctorID int64, appointmentTime string) (*Registration, error) {
	body := map[string]any{
		"patient":         map[string]int64{"id": patientID},
		"doctor":          map[string]int64{"id": doctorID},
		"appointmentTime": appointmentTime,
	}
	data, err := s.client.Post(ctx, "/api/registrations", body)
	if err != nil {
		return nil, err
	}
	created, err := api.Decode[Registration](data)
	if err != nil {
		return nil, err
	}
	created = Normalize(created)
	return &created, nil
}

// Update rewrites a registration record.
func (s *Service) Update(ctx context.Context, r Registration) (*Registration, error) {
	data, err := s.client.Put(ctx, fmt.Sprintf("/api/doctors/registrations/%d", r.ID), r)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	updated, err := api.Decode[Registration](data)
	if err != nil {
		return nil, err
	}
	updated = Normalize(updated)
	return &updated, nil
}

// UpdateStatus issues the status-transition write for one registration.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) error {
	_, err := s.client.Put(ctx, fmt.Sprintf("/api/doctors/registrations/%d/status", id), map[string]Status{"status": status})
	return err
}

// BatchUpdateStatus issues one write for a set of registrations. The server
// treats the batch atomically.
func (s *Service) BatchUpdateStatus(ctx context.Context, ids []int64, status Status) error {
	_, err := s.client.Put(ctx, "/api/doctors/registrations/batch/status", map[string]any{
		"ids":    ids,
		"status": status,
	})
	return err
}

// Cancel deletes a patient's registration.
func (s *Service) Cancel(ctx context.Context, id int64) error {
	_, err := s.client.Delete(ctx, fmt.Sprintf("/api/registrations/%d", id))
	return err
}

// FallbackRegistrations is the deterministic offline dataset for the doctor
// registration views, anchored on the given day.
func FallbackRegistrations(now time.Time) []Registration {
	today := now.Format("2006-01-02")
	return []Registration{
		{ID: 1, PatientID: 1001, PatientName: "张三", Department: deptRef("内科"), Disease: "感冒", AppointmentTime: today + "T09:00:00", Status: StatusPending},
		{ID: 2, PatientID: 1002, PatientName: "李四", Department: deptRef("内科"), Disease: "高血压", AppointmentTime: today + "T10:00:00", Status: StatusProcessing, MedicalNote: "复诊，血压已控制"},
		{ID: 3, PatientID: 1003, PatientName: "王五", Department: deptRef("内科"), Disease: "糖尿病", AppointmentTime: today + "T14:00:00", Status: StatusPending},
		{ID: 4, PatientID: 1004, PatientName: "赵六", Department: deptRef("内科"), Disease: "胃炎", AppointmentTime: today + "T15:30:00", Status: StatusCompleted, MedicalNote: "慢性胃炎，已开药"},
	}
}
