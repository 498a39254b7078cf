package devserver

import (
	"github.com/labstack/echo/v4"

	"github.com/hospreg/hospreg/internal/domain/doctor"
	"github.com/hospreg/hospreg/internal/domain/patient"
)

func (s *Server) listDoctors(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	items := make([]doctor.Doctor, len(s.state.doctors))
	copy(items, s.state.doctors)
	return ok(c, items)
}

func (s *Server) currentDoctor(c echo.Context) error {
	cl := currentClaims(c)
	if cl.Role != "DOCTOR" {
		return fail(c, 403, "仅医生账号可访问")
	}
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	if len(s.state.doctors) == 0 {
		return fail(c, 404, "医生信息不存在")
	}
	return ok(c, s.state.doctors[0])
}

func (s *Server) listDoctorPatients(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	out := make([]patient.Summary, 0, len(s.state.patients))
	for _, p := range s.state.patients {
		out = append(out, patient.Summary{
			ID: p.ID, Name: p.Name, Gender: p.Gender, Phone: p.Phone, Address: p.Address,
		})
	}
	return ok(c, out)
}

func (s *Server) getWorkingHours(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	hours := make([]doctor.WorkingHour, len(s.state.workingHours))
	copy(hours, s.state.workingHours)
	return ok(c, hours)
}

func (s *Server) saveWorkingHours(c echo.Context) error {
	var hours []doctor.WorkingHour
	if err := c.Bind(&hours); err != nil {
		return fail(c, 400, "请求格式不正确")
	}
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	s.state.workingHours = hours
	return ok(c, nil)
}

func (s *Server) listLeaveRequests(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	items := make([]doctor.LeaveRequest, len(s.state.leaves))
	copy(items, s.state.leaves)
	return ok(c, items)
}

func (s *Server) createLeaveRequest(c echo.Context) error {
	var req struct {
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
		Reason    string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, 400, "请求格式不正确")
	}
	if req.StartDate == "" || req.EndDate == "" {
		return fail(c, 400, "请假日期不能为空")
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	created := doctor.LeaveRequest{
		ID:        s.state.allocID(),
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Reason:    req.Reason,
		Status:    doctor.LeavePending,
		CreatedAt: s.now().Format("2006-01-02"),
	}
	s.state.leaves = append(s.state.leaves, created)
	return ok(c, created)
}

func (s *Server) cancelLeaveRequest(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, 400, "无效的编号")
	}
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	for i, l := range s.state.leaves {
		if l.ID != id {
			continue
		}
		if l.Status != doctor.LeavePending {
			return fail(c, 422, "已审批的请假不能撤回")
		}
		s.state.leaves = append(s.state.leaves[:i], s.state.leaves[i+1:]...)
		return ok(c, nil)
	}
	return fail(c, 404, "请假申请不存在")
}

func (s *Server) listTasks(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	items := make([]doctor.Task, len(s.state.tasks))
	copy(items, s.state.tasks)
	return ok(c, items)
}

func (s *Server) listNotifications(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	items := make([]doctor.Notification, len(s.state.notifications))
	copy(items, s.state.notifications)
	return ok(c, items)
}
