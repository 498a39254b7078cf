// Package stats covers the dashboards: admin-wide counters, the doctor's
// workspace cards, and the client-side report built from registrations.
package stats

// AdminStats is the admin dashboard payload.
type AdminStats struct {
	TotalUsers               int                  `json:"totalUsers"`
	TotalDoctors             int                  `json:"totalDoctors"`
	TotalPatients            int                  `json:"totalPatients"`
	TotalDiseases            int                  `json:"totalDiseases"`
	DepartmentCount          int                  `json:"departmentCount"`
	TodayRegistrations       int                  `json:"todayRegistrations"`
	MonthRegistrations       int                  `json:"monthRegistrations"`
	RegistrationByDepartment []DepartmentCount    `json:"registrationByDepartment"`
	RecentRegistrations      []RecentRegistration `json:"recentRegistrations"`
}

// RecentRegistration is one row of the dashboard's activity feed.
type RecentRegistration struct {
	ID              int64  `json:"id"`
	PatientName     string `json:"patientName,omitempty"`
	DoctorName      string `json:"doctorName,omitempty"`
	Department      string `json:"department,omitempty"`
	Disease         string `json:"disease,omitempty"`
	Status          string `json:"status"`
	AppointmentTime string `json:"appointmentTime,omitempty"`
}

// Statistic is one doctor workspace card.
type Statistic struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Value int    `json:"value"`
	Icon  string `json:"icon,omitempty"`
}

// WorkloadPoint is one bucket of the workload chart.
type WorkloadPoint struct {
	Date        string `json:"date"`
	Count       int    `json:"count"`
	AvgDuration int    `json:"avgDuration"`
}

// DepartmentCount is one slice of the department chart.
type DepartmentCount struct {
	Name  string `json:"name,omitempty"`
	Count int    `json:"count"`

	// The admin payload uses "department" for the same field.
	Department string `json:"department,omitempty"`
}

// DisplayName returns whichever name field the payload carried.
func (d DepartmentCount) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Department
}

// SatisfactionShare is one rating bucket.
type SatisfactionShare struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

// IncomePoint is one period of the income chart.
type IncomePoint struct {
	Period string `json:"month"`
	Amount int    `json:"amount"`
}

// AgeShare is one bucket of the age-distribution chart.
type AgeShare struct {
	Range string `json:"ageRange"`
	Count int    `json:"count"`
}

// Report is the assembled chart bundle for one time range.
type Report struct {
	Workload        []WorkloadPoint     `json:"workloadData"`
	Departments     []DepartmentCount   `json:"departmentData"`
	Satisfaction    []SatisfactionShare `json:"satisfactionData"`
	Income          []IncomePoint       `json:"incomeData"`
	AgeDistribution []AgeShare          `json:"ageDistributionData"`
}
