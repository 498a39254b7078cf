package registration

import (
	"fmt"

	"github.com/hospreg/hospreg/internal/platform/export"
)

// Table renders a registration collection for file export, in the same
// column order the management view shows.
func Table(items []Registration) export.Table {
	t := export.Table{
		Name:    "挂号记录",
		Headers: []string{"编号", "患者", "科室", "疾病", "预约时间", "状态", "病历记录"},
	}
	for _, r := range items {
		t.Rows = append(t.Rows, []string{
			fmt.Sprintf("%d", r.ID),
			r.DisplayPatient(),
			r.DepartmentName(),
			r.Disease,
			r.AppointmentTime,
			r.Status.Label(),
			r.MedicalNote,
		})
	}
	return t
}
