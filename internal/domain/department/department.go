// Package department covers the hospital's department catalogue: the
// patient-side browsing list and the admin management panel.
package department

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hospreg/hospreg/internal/platform/api"
	"github.com/hospreg/hospreg/internal/platform/fallback"
)

// Status is the department operating state.
type Status string

const (
	StatusOpen      Status = "open"
	StatusAdjusting Status = "adjusting"
	StatusPaused    Status = "paused"
)

// NormalizeStatus maps raw server values onto the enumeration. Older
// records store the Chinese display strings directly.
func NormalizeStatus(raw string) Status {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "paused", "暂停":
		return StatusPaused
	case "adjusting", "调整中":
		return StatusAdjusting
	default:
		return StatusOpen
	}
}

// Label returns the display string.
func (s Status) Label() string {
	switch s {
	case StatusPaused:
		return "暂停"
	case StatusAdjusting:
		return "调整中"
	default:
		return "开放"
	}
}

// Department is one catalogue entry.
type Department struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Lead        string `json:"lead,omitempty"`
	DoctorCount int    `json:"doctorCount"`
	RoomCount   int    `json:"roomCount,omitempty"`
	Status      Status `json:"status"`
	Focus       string `json:"focus,omitempty"`
}

// Service performs department data access. The catalogue is a degrading
// view so the booking flow stays browsable offline.
type Service struct {
	client *api.Client
	mode   fallback.Mode
	logger zerolog.Logger
}

func NewService(client *api.Client, mode fallback.Mode, logger zerolog.Logger) *Service {
	return &Service{
		client: client,
		mode:   mode,
		logger: logger.With().Str("component", "department").Logger(),
	}
}

// List fetches the catalogue. Degrading view.
func (s *Service) List(ctx context.Context) ([]Department, error) {
	return fallback.Resolve(ctx, s.mode, s.logger,
		func(ctx context.Context) ([]Department, error) {
			items, err := api.FetchInto[[]Department](ctx, s.client, "/api/departments")
			if err != nil {
				return nil, err
			}
			for i, d := range items {
				items[i].Status = NormalizeStatus(string(d.Status))
			}
			return items, nil
		},
		FallbackDepartments,
	)
}

// Create adds a department. Admin only; writes never degrade.
func (s *Service) Create(ctx context.Context, d Department) (*Department, error) {
	data, err := s.client.Post(ctx, "/api/departments", d)
	if err != nil {
		return nil, err
	}
	created, err := api.Decode[Department](data)
	if err != nil {
		return nil, err
	}
	created.Status = NormalizeStatus(string(created.Status))
	return &created, nil
}

// Update rewrites a department record.
func (s *Service) Update(ctx context.Context, d Department) error {
	_, err := s.client.Put(ctx, fmt.Sprintf("/api/departments/%d", d.ID), d)
	return err
}

// Delete removes a department.
func (s *Service) Delete(ctx context.Context, id int64) error {
	_, err := s.client.Delete(ctx, fmt.Sprintf("/api/departments/%d", id))
	return err
}

// FallbackDepartments is the offline catalogue.
func FallbackDepartments() []Department {
	return []Department{
		{ID: 1, Name: "内科", Lead: "王磊", DoctorCount: 18, RoomCount: 12, Status: StatusOpen, Focus: "慢病复诊，糖尿病随访"},
		{ID: 2, Name: "儿科", Lead: "林静", DoctorCount: 12, RoomCount: 8, Status: StatusOpen, Focus: "疫苗咨询、发热门诊"},
		{ID: 3, Name: "外科", Lead: "陈思", DoctorCount: 14, RoomCount: 10, Status: StatusAdjusting, Focus: "择期手术节奏优化"},
		{ID: 4, Name: "眼科", Lead: "李言", DoctorCount: 9, RoomCount: 6, Status: StatusOpen, Focus: "白内障、视光复查"},
		{ID: 5, Name: "骨科", Lead: "张驰", DoctorCount: 11, RoomCount: 7, Status: StatusPaused, Focus: "影像升级中，号源收敛"},
	}
}
