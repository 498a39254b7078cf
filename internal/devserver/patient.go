package devserver

import (
	"github.com/labstack/echo/v4"

	"github.com/hospreg/hospreg/internal/domain/patient"
)

func (s *Server) listPatientDetails(c echo.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	items := make([]patient.Details, len(s.state.patients))
	copy(items, s.state.patients)
	return ok(c, items)
}

func (s *Server) getPatientDetails(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, 400, "无效的编号")
	}
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	i, found := s.state.findPatient(id)
	if !found {
		return fail(c, 404, "患者信息不存在")
	}
	return ok(c, s.state.patients[i])
}

// getPatientByUser resolves a patient record from a user-account id, the
// middle hop of the client's profile lookup chain.
func (s *Server) getPatientByUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, 400, "无效的编号")
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	var username string
	for _, a := range s.state.accounts {
		if a.ID == id {
			username = a.Username
			break
		}
	}
	if username == "" {
		return fail(c, 404, "账号不存在")
	}
	p, found := s.state.findPatientByUser(username)
	if !found {
		return fail(c, 404, "患者信息不存在")
	}
	return ok(c, patient.Basic{
		ID: p.ID, UserID: id, Name: p.Name, Gender: p.Gender,
		Age: p.Age, Phone: p.Phone, Address: p.Address,
	})
}

func (s *Server) updatePatient(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, 400, "无效的编号")
	}
	var req patient.Basic
	if err := c.Bind(&req); err != nil {
		return fail(c, 400, "请求格式不正确")
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	i, found := s.state.findPatient(id)
	if !found {
		return fail(c, 404, "患者信息不存在")
	}
	p := &s.state.patients[i]
	p.Name = req.Name
	p.Gender = req.Gender
	p.Age = req.Age
	p.Phone = req.Phone
	p.Address = req.Address
	return ok(c, patient.Basic{
		ID: p.ID, Name: p.Name, Gender: p.Gender,
		Age: p.Age, Phone: p.Phone, Address: p.Address,
	})
}
