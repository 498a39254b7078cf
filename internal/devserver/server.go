// Package devserver is the development backend: an in-memory echo server
// speaking the same envelope protocol and cookie auth as the real one, so
// the client can be exercised end to end without a hospital deployment.
package devserver

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/hospreg/hospreg/internal/platform/session"
)

const tokenTTL = 12 * time.Hour

// envelope is the wire format: code 0 carries data, anything else carries
// a user-facing message.
type envelope struct {
	Code int    `json:"code"`
	Msg  string `json:"msg,omitempty"`
	Data any    `json:"data"`
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, envelope{Code: 0, Data: data})
}

func fail(c echo.Context, code int, msg string) error {
	return c.JSON(http.StatusOK, envelope{Code: code, Msg: msg})
}

// Server is the dev backend.
type Server struct {
	echo   *echo.Echo
	state  *state
	secret []byte
	logger zerolog.Logger
	now    func() time.Time
}

func New(jwtSecret string, logger zerolog.Logger) *Server {
	s := &Server{
		echo:   echo.New(),
		secret: []byte(jwtSecret),
		logger: logger.With().Str("component", "devserver").Logger(),
		now:    time.Now,
	}
	s.state = newState(s.now())

	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.Recover())
	s.echo.Use(s.requestLogger)

	s.routes()
	return s
}

// Handler exposes the server for httptest.
func (s *Server) Handler() http.Handler { return s.echo }

// Start serves until the listener fails.
func (s *Server) Start(addr string) error {
	s.logger.Info().Str("addr", addr).Msg("dev server listening")
	return s.echo.Start(addr)
}

// Shutdown stops the listener.
func (s *Server) Shutdown() error { return s.echo.Close() }

func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		s.logger.Debug().
			Str("method", c.Request().Method).
			Str("path", c.Request().URL.Path).
			Msg("request")
		return err
	}
}

func (s *Server) routes() {
	api := s.echo.Group("/api")

	api.POST("/auth/login", s.login)
	api.POST("/debug/login", s.login)
	api.POST("/auth/register", s.register)
	api.POST("/auth/password/send-code", s.sendResetCode)
	api.POST("/auth/password/reset", s.resetPassword)

	authed := api.Group("", s.requireAuth)
	authed.GET("/auth/me", s.me)
	authed.POST("/auth/logout", s.logout)

	authed.GET("/registrations", s.listRegistrations)
	authed.POST("/registrations", s.createRegistration)
	authed.DELETE("/registrations/:id", s.cancelRegistration)

	authed.GET("/doctors", s.listDoctors)
	authed.GET("/doctors/current", s.currentDoctor)
	authed.GET("/doctors/registrations", s.listRegistrations)
	authed.PUT("/doctors/registrations/:id", s.updateRegistration)
	authed.PUT("/doctors/registrations/:id/status", s.updateRegistrationStatus)
	authed.PUT("/doctors/registrations/batch/status", s.batchUpdateRegistrationStatus)
	authed.GET("/doctors/patients", s.listDoctorPatients)
	authed.GET("/doctors/patients/:id", s.getPatientDetails)
	authed.GET("/doctors/working-hours", s.getWorkingHours)
	authed.PUT("/doctors/working-hours", s.saveWorkingHours)
	authed.GET("/doctors/leave-requests", s.listLeaveRequests)
	authed.POST("/doctors/leave-requests", s.createLeaveRequest)
	authed.DELETE("/doctors/leave-requests/:id", s.cancelLeaveRequest)
	authed.GET("/doctors/tasks/pending", s.listTasks)
	authed.GET("/doctors/notifications", s.listNotifications)
	authed.GET("/doctors/statistics", s.doctorStatistics)

	authed.GET("/patients/details", s.listPatientDetails)
	authed.GET("/patients/:id/details", s.getPatientDetails)
	authed.GET("/patients/user/:id", s.getPatientByUser)
	authed.PUT("/patients/:id", s.updatePatient)

	authed.GET("/users", s.listUsers)
	authed.GET("/users/username/:username", s.getUserByUsername)

	authed.GET("/departments", s.listDepartments)
	authed.GET("/departments/:id/doctors", s.listDepartmentDoctors)
	authed.POST("/departments", s.createDepartment)
	authed.PUT("/departments/:id", s.updateDepartment)
	authed.DELETE("/departments/:id", s.deleteDepartment)

	authed.GET("/announcements", s.listAnnouncements)
	authed.POST("/announcements", s.createAnnouncement)
	authed.PUT("/announcements/:id", s.updateAnnouncement)
	authed.DELETE("/announcements/:id", s.deleteAnnouncement)

	authed.GET("/schedules", s.listSchedules)
	authed.POST("/schedules", s.createSchedule)
	authed.PUT("/schedules/:id", s.updateSchedule)
	authed.DELETE("/schedules/:id", s.deleteSchedule)

	authed.GET("/admin/stats", s.adminStats)
}

type claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func (s *Server) issueToken(username, role string) (string, error) {
	now := s.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	})
	return tok.SignedString(s.secret)
}

func (s *Server) parseToken(raw string) (*claims, error) {
	var cl claims
	_, err := jwt.ParseWithClaims(raw, &cl, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return &cl, nil
}

// requireAuth authenticates via the session cookie and stashes the claims
// on the context.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(session.CookieName)
		if err != nil || cookie.Value == "" {
			return fail(c, 401, "未登录")
		}
		cl, err := s.parseToken(cookie.Value)
		if err != nil {
			return fail(c, 401, "登录已过期，请重新登录")
		}
		c.Set("claims", cl)
		return next(c)
	}
}

func currentClaims(c echo.Context) *claims {
	cl, _ := c.Get("claims").(*claims)
	return cl
}
