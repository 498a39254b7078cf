package stats

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hospreg/hospreg/internal/domain/registration"
	"github.com/hospreg/hospreg/internal/platform/api"
	"github.com/hospreg/hospreg/internal/platform/fallback"
)

// RegistrationSource feeds the report builder; registration.Service
// satisfies it.
type RegistrationSource interface {
	ListForDoctor(ctx context.Context) ([]registration.Registration, error)
}

// Service performs dashboard data access. The admin counters are blocking;
// the doctor's workspace cards degrade.
type Service struct {
	client *api.Client
	regs   RegistrationSource
	mode   fallback.Mode
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(client *api.Client, regs RegistrationSource, mode fallback.Mode, logger zerolog.Logger) *Service {
	return &Service{
		client: client,
		regs:   regs,
		mode:   mode,
		logger: logger.With().Str("component", "stats").Logger(),
		now:    time.Now,
	}
}

// Admin fetches the admin dashboard counters. Blocking view: made-up
// hospital totals would mislead.
func (s *Service) Admin(ctx context.Context) (*AdminStats, error) {
	st, err := api.FetchInto[AdminStats](ctx, s.client, "/api/admin/stats")
	if err != nil {
		return nil, err
	}
	if st.RegistrationByDepartment == nil {
		st.RegistrationByDepartment = []DepartmentCount{}
	}
	if st.RecentRegistrations == nil {
		st.RecentRegistrations = []RecentRegistration{}
	}
	return &st, nil
}

// DoctorCards fetches the workspace counter cards. Degrading view.
func (s *Service) DoctorCards(ctx context.Context) ([]Statistic, error) {
	return fallback.Resolve(ctx, s.mode, s.logger,
		func(ctx context.Context) ([]Statistic, error) {
			return api.FetchInto[[]Statistic](ctx, s.client, "/api/doctors/statistics")
		},
		FallbackStatistics,
	)
}

// Report builds the chart bundle for one time range from the doctor's
// registrations. The registration source already degrades, so the report
// stays available offline.
func (s *Service) Report(ctx context.Context, rng TimeRange) (Report, error) {
	regs, err := s.regs.ListForDoctor(ctx)
	if err != nil {
		return Report{}, err
	}
	return BuildReport(regs, rng, s.now()), nil
}

// FallbackStatistics is the offline set of workspace cards.
func FallbackStatistics() []Statistic {
	return []Statistic{
		{ID: 1, Title: "今日接诊", Value: 15, Icon: "👥"},
		{ID: 2, Title: "本月接诊", Value: 234, Icon: "📅"},
		{ID: 3, Title: "待处理挂号", Value: 5, Icon: "⏰"},
		{ID: 4, Title: "患者满意度", Value: 95, Icon: "⭐"},
	}
}
