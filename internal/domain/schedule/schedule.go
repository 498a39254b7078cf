// Package schedule covers outpatient shift plans: the admin schedule board
// with its department/status/date/keyword filtering.
package schedule

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hospreg/hospreg/internal/domain/ref"
	"github.com/hospreg/hospreg/internal/platform/api"
)

// ShiftStatus is the shift lifecycle on the board.
type ShiftStatus string

const (
	ShiftOpen    ShiftStatus = "OPEN"
	ShiftRunning ShiftStatus = "RUNNING"
	ShiftFull    ShiftStatus = "FULL"
	ShiftPaused  ShiftStatus = "PAUSED"
)

// NormalizeShiftStatus maps raw server values onto the enumeration,
// defaulting to OPEN.
func NormalizeShiftStatus(raw string) ShiftStatus {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "RUNNING":
		return ShiftRunning
	case "FULL":
		return ShiftFull
	case "PAUSED":
		return ShiftPaused
	default:
		return ShiftOpen
	}
}

// Label returns the display string.
func (s ShiftStatus) Label() string {
	switch s {
	case ShiftRunning:
		return "进行中"
	case ShiftFull:
		return "满号"
	case ShiftPaused:
		return "暂停"
	default:
		return "开放"
	}
}

// Schedule is one shift row.
type Schedule struct {
	ID         int64       `json:"id"`
	Doctor     ref.Ref     `json:"doctor,omitzero"`
	Department ref.Ref     `json:"department,omitzero"`
	WorkDate   string      `json:"workDate"`
	StartTime  string      `json:"startTime,omitempty"`
	EndTime    string      `json:"endTime,omitempty"`
	Capacity   int         `json:"capacity,omitempty"`
	Booked     int         `json:"booked,omitempty"`
	Status     ShiftStatus `json:"status"`
}

// DepartmentName returns the department display name, with the board's
// placeholder for unassigned shifts.
func (s Schedule) DepartmentName() string {
	return s.Department.Display("未分配")
}

// Normalize canonicalizes one decoded shift.
func Normalize(s Schedule) Schedule {
	s.Status = NormalizeShiftStatus(string(s.Status))
	return s
}

// Service performs schedule data access. The board is a blocking view: an
// invented shift plan could send a patient to an empty clinic.
type Service struct {
	client *api.Client
	logger zerolog.Logger
}

func NewService(client *api.Client, logger zerolog.Logger) *Service {
	return &Service{
		client: client,
		logger: logger.With().Str("component", "schedule").Logger(),
	}
}

// List fetches every shift.
func (s *Service) List(ctx context.Context) ([]Schedule, error) {
	items, err := api.FetchInto[[]Schedule](ctx, s.client, "/api/schedules")
	if err != nil {
		return nil, err
	}
	for i, sc := range items {
		items[i] = Normalize(sc)
	}
	return items, nil
}

// Create adds a shift.
func (s *Service) Create(ctx context.Context, sc Schedule) (*Schedule, error) {
	data, err := s.client.Post(ctx, "/api/schedules", sc)
	if err != nil {
		return nil, err
	}
	created, err := api.Decode[Schedule](data)
	if err != nil {
		return nil, err
	}
	created = Normalize(created)
	return &created, nil
}

// Update rewrites a shift.
func (s *Service) Update(ctx context.Context, sc Schedule) error {
	_, err := s.client.Put(ctx, fmt.Sprintf("/api/schedules/%d", sc.ID), sc)
	return err
}

// Delete removes a shift.
func (s *Service) Delete(ctx context.Context, id int64) error {
	_, err := s.client.Delete(ctx, fmt.Sprintf("/api/schedules/%d", id))
	return err
}
