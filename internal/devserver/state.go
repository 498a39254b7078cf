package devserver

import (
	"fmt"
	"sync"
	"time"

	"github.com/hospreg/hospreg/internal/domain/announcement"
	"github.com/hospreg/hospreg/internal/domain/department"
	"github.com/hospreg/hospreg/internal/domain/doctor"
	"github.com/hospreg/hospreg/internal/domain/patient"
	"github.com/hospreg/hospreg/internal/domain/ref"
	"github.com/hospreg/hospreg/internal/domain/registration"
	"github.com/hospreg/hospreg/internal/domain/schedule"
	"github.com/hospreg/hospreg/internal/domain/user"
)

// account pairs a roster row with its password. Fixture accounts only; the
// dev server never sees real credentials.
type account struct {
	user.User
	Password string
}

// state is the in-memory dataset the dev server mutates. Everything resets
// on restart.
type state struct {
	mu sync.Mutex

	accounts      []account
	doctors       []doctor.Doctor
	patients      []patient.Details
	registrations []registration.Registration
	departments   []department.Department
	announcements []announcement.Announcement
	schedules     []schedule.Schedule
	workingHours  []doctor.WorkingHour
	leaves        []doctor.LeaveRequest
	tasks         []doctor.Task
	notifications []doctor.Notification

	nextID int64

	// username -> reset code issued by the password flow.
	resetCodes map[string]string
}

func newState(now time.Time) *state {
	day := now.Format("2006-01-02")
	st := &state{
		accounts: []account{
			{User: user.User{ID: 1, Username: "admin", Role: "ADMIN", CreatedAt: day}, Password: "admin123"},
			{User: user.User{ID: 2, Username: "lidoc", Role: "DOCTOR", CreatedAt: day}, Password: "doctor123"},
			{User: user.User{ID: 3, Username: "zhangsan", Role: "PATIENT", CreatedAt: day}, Password: "patient123"},
		},
		doctors: []doctor.Doctor{
			{ID: 1, Name: "李医生", Department: "内科", Title: "副主任医师", Avatar: "/files/Default.gif"},
			{ID: 2, Name: "王医生", Department: "外科", Title: "主治医师", Avatar: "/files/Default.gif"},
		},
		patients: []patient.Details{
			{
				ID: 1001, Username: "zhangsan", Name: "张三", Gender: "MALE", Age: 34,
				Phone: "13800138000", Address: "朝阳区",
				MedicalHistory: []patient.MedicalRecord{
					{ID: 1, VisitDate: day, Diagnosis: "感冒", Treatment: "多喝水", Medications: []string{"布洛芬"}, Doctor: "李医生"},
				},
				VisitHistory: []patient.VisitRecord{
					{ID: 1, AppointmentTime: day + "T09:00:00", Department: "内科", Doctor: "李医生", Disease: "感冒", Status: patient.VisitCompleted},
				},
			},
		},
		registrations: registration.FallbackRegistrations(now),
		departments:   department.FallbackDepartments(),
		announcements: announcement.FallbackAnnouncements(),
		schedules: []schedule.Schedule{
			{ID: 1, Doctor: ref.Ref{ID: 1, Name: "李医生"}, Department: ref.Ref{ID: 1, Name: "内科"}, WorkDate: day, StartTime: "08:30", EndTime: "12:00", Capacity: 30, Booked: 12, Status: schedule.ShiftRunning},
			{ID: 2, Doctor: ref.Ref{ID: 2, Name: "王医生"}, Department: ref.Ref{ID: 3, Name: "外科"}, WorkDate: day, StartTime: "14:00", EndTime: "17:30", Capacity: 20, Booked: 20, Status: schedule.ShiftFull},
		},
		workingHours:  doctor.FallbackWorkingHours(),
		leaves:        doctor.FallbackLeaveRequests(now),
		tasks:         doctor.FallbackTasks(),
		notifications: doctor.FallbackNotifications(),
		nextID:        10000,
		resetCodes:    map[string]string{},
	}
	return st
}

func (st *state) allocID() int64 {
	st.nextID++
	return st.nextID
}

func (st *state) findAccount(username string) (account, bool) {
	for _, a := range st.accounts {
		if a.Username == username {
			return a, true
		}
	}
	return account{}, false
}

func (st *state) findRegistration(id int64) (int, bool) {
	for i, r := range st.registrations {
		if r.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (st *state) findPatientByUser(username string) (patient.Details, bool) {
	for _, p := range st.patients {
		if p.Username == username {
			return p, true
		}
	}
	return patient.Details{}, false
}

func (st *state) findPatient(id int64) (int, bool) {
	for i, p := range st.patients {
		if p.ID == id {
			return i, true
		}
	}
	return 0, false
}

func (st *state) users() []user.User {
	out := make([]user.User, 0, len(st.accounts))
	for _, a := range st.accounts {
		out = append(out, a.User)
	}
	return out
}

func (st *state) doctorName(id int64) string {
	for _, d := range st.doctors {
		if d.ID == id {
			return d.Name
		}
	}
	return fmt.Sprintf("医生 %d", id)
}
