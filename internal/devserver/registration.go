package devserver

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hospreg/hospreg/internal/domain/ref"
	"github.com/hospreg/hospreg/internal/domain/registration"
)

func (s *Server) listRegistrations(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	items := make([]registration.Registration, len(s.state.registrations))
	copy(items, s.state.registrations)
	return ok(c, items)
}

func (s *Server) createRegistration(c echo.Context) error {
	var req struct {
		Patient         ref.Ref `json:"patient"`
		Doctor          ref.Ref `json:"doctor"`
		AppointmentTime string  `json:"appointmentTime"`
		Disease         string  `json:"disease"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, 400, "请求格式不正确")
	}
	if req.AppointmentTime == "" {
		return fail(c, 400, "预约时间不能为空")
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	for _, r := range s.state.registrations {
		if r.PatientID == req.Patient.ID && r.AppointmentTime == req.AppointmentTime && !r.Status.Terminal() {
			return fail(c, 409, "该时段已有挂号，请勿重复提交")
		}
	}

	patientName := ""
	if i, found := s.state.findPatient(req.Patient.ID); found {
		patientName = s.state.patients[i].Name
	}
	created := registration.Registration{
		ID:              s.state.allocID(),
		PatientID:       req.Patient.ID,
		PatientName:     patientName,
		Doctor:          ref.Ref{ID: req.Doctor.ID, Name: s.state.doctorName(req.Doctor.ID)},
		Disease:         req.Disease,
		AppointmentTime: req.AppointmentTime,
		Status:          registration.StatusPending,
	}
	s.state.registrations = append(s.state.registrations, created)
	return ok(c, created)
}

func (s *Server) updateRegistration(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, 400, "无效的编号")
	}
	var req registration.Registration
	if err := c.Bind(&req); err != nil {
		return fail(c, 400, "请求格式不正确")
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	i, found := s.state.findRegistration(id)
	if !found {
		return fail(c, 404, "挂号记录不存在")
	}
	req.ID = id
	s.state.registrations[i] = registration.Normalize(req)
	return ok(c, s.state.registrations[i])
}

func (s *Server) updateRegistrationStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, 400, "无效的编号")
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, 400, "请求格式不正确")
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	i, found := s.state.findRegistration(id)
	if !found {
		return fail(c, 404, "挂号记录不存在")
	}
	to := registration.NormalizeStatus(req.Status)
	if err := registration.CheckTransition(s.state.registrations[i], to); err != nil {
		return fail(c, 422, err.Error())
	}
	s.state.registrations[i].Status = to
	return ok(c, nil)
}

func (s *Server) batchUpdateRegistrationStatus(c echo.Context) error {
	var req struct {
		IDs    []int64 `json:"ids"`
		Status string  `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, 400, "请求格式不正确")
	}
	if len(req.IDs) == 0 {
		return fail(c, 400, "未选择任何挂号记录")
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	to := registration.NormalizeStatus(req.Status)

	// Validate the whole batch before touching anything.
	indices := make([]int, 0, len(req.IDs))
	for _, id := range req.IDs {
		i, found := s.state.findRegistration(id)
		if !found {
			return fail(c, 404, "挂号记录不存在")
		}
		if err := registration.CheckTransition(s.state.registrations[i], to); err != nil {
			return fail(c, 422, err.Error())
		}
		indices = append(indices, i)
	}
	for _, i := range indices {
		s.state.registrations[i].Status = to
	}
	return ok(c, nil)
}

func (s *Server) cancelRegistration(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, 400, "无效的编号")
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	i, found := s.state.findRegistration(id)
	if !found {
		return fail(c, 404, "挂号记录不存在")
	}
	if err := registration.CheckTransition(s.state.registrations[i], registration.StatusCancelled); err != nil {
		return fail(c, 422, err.Error())
	}
	s.state.registrations[i].Status = registration.StatusCancelled
	return ok(c, nil)
}

func pathID(c echo.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
