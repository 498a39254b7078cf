package doctor

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hospreg/hospreg/internal/platform/api"
	"github.com/hospreg/hospreg/internal/platform/fallback"
)

// Service performs the doctor workspace data access. The workspace is a
// degrading surface: profile, leaves, tasks and notifications substitute
// fixture data when the backend is unreachable, so the doctor can keep
// working against the cached schedule.
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
		logger: logger.With().Str("component", "doctor").Logger(),
		now:    time.Now,
	}
}

// Current fetches the logged-in doctor's profile. Degrading view.
func (s *Service) Current(ctx context.Context) (Doctor, error) {
	return fallback.Resolve(ctx, s.mode, s.logger,
		func(ctx context.Context) (Doctor, error) {
			d, err := api.FetchInto[Doctor](ctx, s.client, "/api/doctors/current")
			if err != nil {
				return Doctor{}, err
			}
			return Normalize(d), nil
		},
		FallbackDoctor,
	)
}

// List fetches every doctor, for the patient-side booking picker and the
// admin roster. Blocking view.
func (s *Service) List(ctx context.Context) ([]Doctor, error) {
	items, err := api.FetchInto[[]Doctor](ctx, s.client, "/api/doctors")
	if err != nil {
		return nil, err
	}
	for i, d := range items {
		items[i] = Normalize(d)
	}
	return items, nil
}

// ListByDepartment fetches the bookable doctors of one department.
func (s *Service) ListByDepartment(ctx context.Context, departmentID int64) ([]Doctor, error) {
	items, err := api.FetchInto[[]Doctor](ctx, s.client, fmt.Sprintf("/api/departments/%d/doctors", departmentID))
	if err != nil {
		return nil, err
	}
	for i, d := range items {
		items[i] = Normalize(d)
	}
	return items, nil
}

// WorkingHours fetches the doctor's weekly schedule settings. Degrading view.
func (s *Service) WorkingHours(ctx context.Context) ([]WorkingHour, error) {
	return fallback.Resolve(ctx, s.mode, s.logger,
		func(ctx context.Context) ([]WorkingHour, error) {
			return api.FetchInto[[]WorkingHour](ctx, s.client, "/api/doctors/working-hours")
		},
		FallbackWorkingHours,
	)
}

// SaveWorkingHours rewrites the weekly schedule. Writes never degrade.
func (s *Service) SaveWorkingHours(ctx context.Context, hours []WorkingHour) error {
	_, err := s.client.Put(ctx, "/api/doctors/working-hours", hours)
	return err
}

// LeaveRequests fetches the doctor's leave history. Degrading view.
func (s *Service) LeaveRequests(ctx context.Context) ([]LeaveRequest, error) {
	return fallback.Resolve(ctx, s.mode, s.logger,
		func(ctx context.Context) ([]LeaveRequest, error) {
			items, err := api.FetchInto[[]LeaveRequest](ctx, s.client, "/api/doctors/leave-requests")
			if err != nil {
				return nil, err
			}
			return NormalizeLeaves(items), nil
		},
		func() []LeaveRequest { return FallbackLeaveRequests(s.now()) },
	)
}

// SubmitLeaveRequest files a new leave application. The server assigns the
// id and the initial pending status.
func (s *Service) SubmitLeaveRequest(ctx context.Context, startDate, endDate, reason string) (*LeaveRequest, error) {
	data, err := s.client.Post(ctx, "/api/doctors/leave-requests", map[string]string{
		"startDate": startDate,
		"endDate":   endDate,
		"reason":    reason,
	})
	if err != nil {
		return nil, err
	}
	created, err := api.Decode[LeaveRequest](data)
	if err != nil {
		return nil, err
	}
	created.Status = NormalizeLeaveStatus(string(created.Status))
	return &created, nil
}

// CancelLeaveRequest withdraws a pending application.
func (s *Service) CancelLeaveRequest(ctx context.Context, id int64) error {
	_, err := s.client.Delete(ctx, fmt.Sprintf("/api/doctors/leave-requests/%d", id))
	return err
}

// Tasks fetches the workspace to-do list. Degrading view.
func (s *Service) Tasks(ctx context.Context) ([]Task, error) {
	return fallback.Resolve(ctx, s.mode, s.logger,
		func(ctx context.Context) ([]Task, error) {
			return api.FetchInto[[]Task](ctx, s.client, "/api/doctors/tasks/pending")
		},
		FallbackTasks,
	)
}

// Notifications fetches the workspace inbox. Degrading view.
func (s *Service) Notifications(ctx context.Context) ([]Notification, error) {
	return fallback.Resolve(ctx, s.mode, s.logger,
		func(ctx context.Context) ([]Notification, error) {
			return api.FetchInto[[]Notification](ctx, s.client, "/api/doctors/notifications")
		},
		FallbackNotifications,
	)
}

// FallbackDoctor is the offline profile card.
func FallbackDoctor() Doctor {
	return Doctor{
		ID:         1,
		Name:       "李医生",
		Department: "内科",
		Title:      "副主任医师",
		Avatar:     defaultAvatar,
		Intro:      "从事内科临床工作十余年，擅长常见病、多发病的诊治。",
	}
}

// FallbackWorkingHours is the offline weekly schedule: weekdays on,
// weekend off.
func FallbackWorkingHours() []WorkingHour {
	hours := make([]WorkingHour, 0, 7)
	for wd := 1; wd <= 7; wd++ {
		hours = append(hours, WorkingHour{
			Weekday:   wd,
			Enabled:   wd <= 5,
			StartTime: "08:30",
			EndTime:   "17:30",
		})
	}
	return hours
}

// FallbackLeaveRequests is the deterministic offline leave history,
// anchored on the given day.
func FallbackLeaveRequests(now time.Time) []LeaveRequest {
	day := now.Format("2006-01-02")
	return []LeaveRequest{
		{ID: 1, StartDate: day, EndDate: day, Reason: "年假", Status: LeaveApproved, CreatedAt: day},
		{ID: 2, StartDate: day, EndDate: day, Reason: "学术会议", Status: LeavePending, CreatedAt: day},
	}
}

// FallbackTasks is the offline to-do list.
func FallbackTasks() []Task {
	return []Task{
		{ID: 1, Title: "查看今日挂号", Time: "09:00", Urgency: "high"},
		{ID: 2, Title: "完成病历记录", Time: "11:00", Urgency: "medium"},
		{ID: 3, Title: "科室例会", Time: "15:00", Urgency: "low"},
	}
}

// FallbackNotifications is the offline inbox.
func FallbackNotifications() []Notification {
	return []Notification{
		{ID: 1, Title: "排班调整", Content: "下周三门诊调整至上午。", Time: "08:15"},
		{ID: 2, Title: "系统维护", Content: "今晚 23:00 起系统维护两小时。", Time: "10:30", Read: true},
	}
}
