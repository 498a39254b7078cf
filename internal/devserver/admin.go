package devserver

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hospreg/hospreg/internal/domain/announcement"
	"github.com/hospreg/hospreg/internal/domain/department"
	"github.com/hospreg/hospreg/internal/domain/doctor"
	"github.com/hospreg/hospreg/internal/domain/registration"
	"github.com/hospreg/hospreg/internal/domain/schedule"
	"github.com/hospreg/hospreg/internal/domain/stats"
)

func (s *Server) listUsers(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return ok(c, s.state.users())
}

func (s *Server) getUserByUsername(c echo.Context) error {
	username := c.Param("username")
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	acct, found := s.state.findAccount(username)
	if !found {
		return fail(c, 404, "账号不存在")
	}
	return ok(c, acct.User)
}

func (s *Server) listDepartments(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	items := make([]department.Department, len(s.state.departments))
	copy(items, s.state.departments)
	return ok(c, items)
}

func (s *Server) listDepartmentDoctors(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, 400, "无效的编号")
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	var deptName string
	for _, d := range s.state.departments {
		if d.ID == id {
			deptName = d.Name
			break
		}
	}
	if deptName == "" {
		return fail(c, 404, "科室不存在")
	}
	out := make([]doctor.Doctor, 0)
	for _, d := range s.state.doctors {
		if d.Department == deptName {
			out = append(out, d)
		}
	}
	return ok(c, out)
}

func (s *Server) createDepartment(c echo.Context) error {
	var req department.Department
	if err := c.Bind(&req); err != nil {
		return fail(c, 400, "请求格式不正确")
	}
	if strings.TrimSpace(req.Name) == "" {
		return fail(c, 400, "科室名称不能为空")
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	for _, d := range s.state.departments {
		if d.Name == req.Name {
			return fail(c, 409, "科室已存在")
		}
	}
	req.ID = s.state.allocID()
	req.Status = department.NormalizeStatus(string(req.Status))
	s.state.departments = append(s.state.departments, req)
	return ok(c, req)
}

func (s *Server) updateDepartment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, 400, "无效的编号")
	}
	var req department.Department
	if err := c.Bind(&req); err != nil {
		return fail(c, 400, "请求格式不正确")
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	for i, d := range s.state.departments {
		if d.ID == id {
			req.ID = id
			req.Status = department.NormalizeStatus(string(req.Status))
			s.state.departments[i] = req
			return ok(c, nil)
		}
	}
	return fail(c, 404, "科室不存在")
}

func (s *Server) deleteDepartment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, 400, "无效的编号")
	}
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	for i, d := range s.state.departments {
		if d.ID == id {
			s.state.departments = append(s.state.departments[:i], s.state.departments[i+1:]...)
			return ok(c, nil)
		}
	}
	return fail(c, 404, "科室不存在")
}

func (s *Server) listAnnouncements(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	items := make([]announcement.Announcement, len(s.state.announcements))
	copy(items, s.state.announcements)
	return ok(c, items)
}

func (s *Server) createAnnouncement(c echo.Context) error {
	var req announcement.Announcement
	if err := c.Bind(&req); err != nil {
		return fail(c, 400, "请求格式不正确")
	}
	if strings.TrimSpace(req.Title) == "" {
		return fail(c, 400, "公告标题不能为空")
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	req.ID = s.state.allocID()
	req.Status = announcement.NormalizeStatus(string(req.Status))
	s.state.announcements = append(s.state.announcements, req)
	return ok(c, req)
}

func (s *Server) updateAnnouncement(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, 400, "无效的编号")
	}
	var req announcement.Announcement
	if err := c.Bind(&req); err != nil {
		return fail(c, 400, "请求格式不正确")
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	for i, a := range s.state.announcements {
		if a.ID == id {
			req.ID = id
			req.Status = announcement.NormalizeStatus(string(req.Status))
			s.state.announcements[i] = req
			return ok(c, nil)
		}
	}
	return fail(c, 404, "公告不存在")
}

func (s *Server) deleteAnnouncement(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, 400, "无效的编号")
	}
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	for i, a := range s.state.announcements {
		if a.ID == id {
			s.state.announcements = append(s.state.announcements[:i], s.state.announcements[i+1:]...)
			return ok(c, nil)
		}
	}
	return fail(c, 404, "公告不存在")
}

func (s *Server) listSchedules(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	items := make([]schedule.Schedule, len(s.state.schedules))
	copy(items, s.state.schedules)
	return ok(c, items)
}

func (s *Server) createSchedule(c echo.Context) error {
	var req schedule.Schedule
	if err := c.Bind(&req); err != nil {
		return fail(c, 400, "请求格式不正确")
	}
	if req.WorkDate == "" {
		return fail(c, 400, "排班日期不能为空")
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	req.ID = s.state.allocID()
	req = schedule.Normalize(req)
	s.state.schedules = append(s.state.schedules, req)
	return ok(c, req)
}

func (s *Server) updateSchedule(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, 400, "无效的编号")
	}
	var req schedule.Schedule
	if err := c.Bind(&req); err != nil {
		return fail(c, 400, "请求格式不正确")
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	for i, sc := range s.state.schedules {
		if sc.ID == id {
			req.ID = id
			s.state.schedules[i] = schedule.Normalize(req)
			return ok(c, nil)
		}
	}
	return fail(c, 404, "排班不存在")
}

func (s *Server) deleteSchedule(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, 400, "无效的编号")
	}
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	for i, sc := range s.state.schedules {
		if sc.ID == id {
			s.state.schedules = append(s.state.schedules[:i], s.state.schedules[i+1:]...)
			return ok(c, nil)
		}
	}
	return fail(c, 404, "排班不存在")
}

func (s *Server) adminStats(c echo.Context) error {
	cl := currentClaims(c)
	if cl.Role != "ADMIN" {
		return fail(c, 403, "仅管理员可访问")
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	today := s.now().Format("2006-01-02")
	month := s.now().Format("2006-01")

	byDept := map[string]int{}
	todayCount, monthCount := 0, 0
	recent := make([]stats.RecentRegistration, 0, 5)
	for i := len(s.state.registrations) - 1; i >= 0; i-- {
		r := s.state.registrations[i]
		byDept[r.DepartmentName()]++
		if strings.HasPrefix(r.AppointmentTime, today) {
			todayCount++
		}
		if strings.HasPrefix(r.AppointmentTime, month) {
			monthCount++
		}
		if len(recent) < 5 {
			recent = append(recent, stats.RecentRegistration{
				ID:              r.ID,
				PatientName:     r.DisplayPatient(),
				DoctorName:      r.Doctor.Display(""),
				Department:      r.DepartmentName(),
				Disease:         r.Disease,
				Status:          string(r.Status),
				AppointmentTime: r.AppointmentTime,
			})
		}
	}

	deptCounts := make([]stats.DepartmentCount, 0, len(byDept))
	for name, n := range byDept {
		deptCounts = append(deptCounts, stats.DepartmentCount{Department: name, Count: n})
	}

	diseases := map[string]struct{}{}
	for _, r := range s.state.registrations {
		if r.Disease != "" {
			diseases[r.Disease] = struct{}{}
		}
	}

	return ok(c, stats.AdminStats{
		TotalUsers:               len(s.state.accounts),
		TotalDoctors:             len(s.state.doctors),
		TotalPatients:            len(s.state.patients),
		TotalDiseases:            len(diseases),
		DepartmentCount:          len(s.state.departments),
		TodayRegistrations:       todayCount,
		MonthRegistrations:       monthCount,
		RegistrationByDepartment: deptCounts,
		RecentRegistrations:      recent,
	})
}

func (s *Server) doctorStatistics(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	today := s.now().Format("2006-01-02")
	todayCount, pending := 0, 0
	for _, r := range s.state.registrations {
		if strings.HasPrefix(r.AppointmentTime, today) {
			todayCount++
		}
		if r.Status == registration.StatusPending {
			pending++
		}
	}
	return ok(c, []stats.Statistic{
		{ID: 1, Title: "今日接诊", Value: todayCount, Icon: "👥"},
		{ID: 2, Title: "本月接诊", Value: len(s.state.registrations), Icon: "📅"},
		{ID: 3, Title: "待处理挂号", Value: pending, Icon: "⏰"},
		{ID: 4, Title: "患者满意度", Value: 95, Icon: "⭐"},
	})
}
