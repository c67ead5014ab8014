// roster 包实现对班表集合的纯统计折叠，不访问存储
// 调用方负责从存储中取出正确日期范围内的班表
package roster

import (
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/timeutil"
)

// ShiftWithContext 是班次加上它在树中的位置信息
type ShiftWithContext struct {
	domain.Shift
	Date          string `json:"date"`
	Department    string `json:"department"`
	SubDepartment string `json:"subDepartment"`
}

type EmployeeMetrics struct {
	HoursWorked float64            `json:"hoursWorked"`
	TotalPay    float64            `json:"totalPay"`
	Shifts      []ShiftWithContext `json:"shifts"`
}

// ComputeMetrics 遍历传入班表中的所有班次，统计分配给该员工的净工时和薪酬
// 每个班次按自己的休息时长计算净时长，薪酬 = 净工时 x 级别时薪
func ComputeMetrics(employeeID int64, tier domain.Tier, rosters []*domain.Roster) (*EmployeeMetrics, error) {
	metrics := &EmployeeMetrics{
		Shifts: make([]ShiftWithContext, 0),
	}

	for _, r := range rosters {
		for _, group := range r.Groups {
			for _, subGroup := range group.SubGroups {
				for _, shift := range subGroup.Shifts {
					if shift.EmployeeID == nil || *shift.EmployeeID != employeeID {
						continue
					}

					net, err := timeutil.NetDuration(shift.StartTime, shift.EndTime, shift.BreakDuration)
					if err != nil {
						return nil, err
					}

					metrics.HoursWorked += net.TotalHours()
					metrics.Shifts = append(metrics.Shifts, ShiftWithContext{
						Shift:         shift,
						Date:          r.Date,
						Department:    group.Name,
						SubDepartment: subGroup.Name,
					})
				}
			}
		}
	}

	metrics.TotalPay = metrics.HoursWorked * domain.HourlyRate(tier)

	return metrics, nil
}
