package devserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hospreg/hospreg/internal/domain/patient"
	"github.com/hospreg/hospreg/internal/domain/user"
	"github.com/hospreg/hospreg/internal/platform/session"
)

func (s *Server) login(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, 400, "请求格式不正确")
	}

	s.state.mu.Lock()
	acct, found := s.state.findAccount(req.Username)
	s.state.mu.Unlock()
	if !found || acct.Password != req.Password {
		return fail(c, 401, "用户名或密码错误")
	}

	token, err := s.issueToken(acct.Username, acct.Role)
	if err != nil {
		return fail(c, 500, "签发令牌失败")
	}
	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Expires:  s.now().Add(tokenTTL),
	})
	return ok(c, map[string]string{
		"token":    token,
		"username": acct.Username,
		"role":     acct.Role,
	})
}

func (s *Server) register(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Email    string `json:"email"`
		Name     string `json:"name"`
		Gender   string `json:"gender"`
		Age      int    `json:"age"`
		IDCard   string `json:"idCard"`
		Phone    string `json:"phone"`
		Address  string `json:"address"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, 400, "请求格式不正确")
	}
	if req.Username == "" || req.Password == "" {
		return fail(c, 400, "用户名和密码不能为空")
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if _, exists := s.state.findAccount(req.Username); exists {
		return fail(c, 409, "用户名已存在")
	}

	day := s.now().Format("2006-01-02")
	acct := account{
		User: user.User{
			ID:        s.state.allocID(),
			Username:  req.Username,
			Role:      "PATIENT",
			Email:     req.Email,
			CreatedAt: day,
		},
		Password: req.Password,
	}
	s.state.accounts = append(s.state.accounts, acct)
	s.state.patients = append(s.state.patients, patient.Details{
		ID:             s.state.allocID(),
		Username:       req.Username,
		Name:           req.Name,
		Gender:         req.Gender,
		Age:            req.Age,
		Phone:          req.Phone,
		Address:        req.Address,
		MedicalHistory: []patient.MedicalRecord{},
		VisitHistory:   []patient.VisitRecord{},
	})

	return ok(c, map[string]any{
		"id":       acct.ID,
		"username": acct.Username,
		"role":     acct.Role,
		"email":    acct.Email,
		"name":     req.Name,
	})
}

func (s *Server) sendResetCode(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, 400, "请求格式不正确")
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if _, found := s.state.findAccount(req.Username); !found {
		return fail(c, 404, "账号不存在")
	}
	// Fixed code instead of mail delivery; logged so the developer can
	// complete the flow.
	code := fmt.Sprintf("%06d", len(req.Username)*111111%1000000)
	s.state.resetCodes[req.Username] = code
	s.logger.Info().Str("username", req.Username).Str("code", code).Msg("reset code issued")
	return ok(c, nil)
}

func (s *Server) resetPassword(c echo.Context) error {
	var req struct {
		Username    string `json:"username"`
		Email       string `json:"email"`
		Code        string `json:"code"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.Bind(&req); err != nil {
		return fail(c, 400, "请求格式不正确")
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	want, issued := s.state.resetCodes[req.Username]
	if !issued || want != req.Code {
		return fail(c, 400, "验证码不正确")
	}
	for i, a := range s.state.accounts {
		if a.Username == req.Username {
			s.state.accounts[i].Password = req.NewPassword
			delete(s.state.resetCodes, req.Username)
			return ok(c, nil)
		}
	}
	return fail(c, 404, "账号不存在")
}

func (s *Server) me(c echo.Context) error {
	cl := currentClaims(c)
	return ok(c, map[string]string{
		"username": cl.Username,
		"role":     cl.Role,
	})
}

func (s *Server) logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:   session.CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	return ok(c, nil)
}
