package roster

import (
	"testing"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

func ptr(id int64) *int64 { return &id }

func makeRosters() []*domain.Roster {
	return []*domain.Roster{
		{
			ID: 1, Date: "2024-06-10", Published: true,
			Groups: []domain.Group{
				{
					ID: 1, Name: "客服部", Color: "#3b82f6",
					SubGroups: []domain.SubGroup{
						{
							ID: 1, Name: "呼入组",
							Shifts: []domain.Shift{
								// 9 小时扣 1 小时休息 = 8 净工时
								{ID: 11, Role: "接线员", StartTime: "08:00", EndTime: "17:00", BreakDuration: "01:00", RemunerationLevel: 2, EmployeeID: ptr(101), Filled: true},
								// 别人的班次，不应计入
								{ID: 12, Role: "接线员", StartTime: "13:00", EndTime: "21:00", BreakDuration: "00:30", RemunerationLevel: 2, EmployeeID: ptr(102), Filled: true},
								// 空班次
								{ID: 13, Role: "接线员", StartTime: "21:00", EndTime: "23:00", BreakDuration: "00:00", RemunerationLevel: 1},
							},
						},
					},
				},
			},
		},
		{
			ID: 2, Date: "2024-06-11", Published: true,
			Groups: []domain.Group{
				{
					ID: 2, Name: "安保部", Color: "#ef4444",
					SubGroups: []domain.SubGroup{
						{
							ID: 2, Name: "夜巡组",
							Shifts: []domain.Shift{
								// 跨天班次 22:00-06:00 扣 1 小时休息 = 7 净工时
								{ID: 21, Role: "巡逻员", StartTime: "22:00", EndTime: "06:00", BreakDuration: "01:00", RemunerationLevel: 3, EmployeeID: ptr(101), Filled: true},
							},
						},
					},
				},
			},
		},
	}
}

func TestComputeMetrics_SeniorPay(t *testing.T) {
	// 资深员工（时薪 30）两个班次共 15 净工时，总薪酬应为 450
	metrics, err := ComputeMetrics(101, domain.TierSenior, makeRosters())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if metrics.HoursWorked != 15 {
		t.Fatalf("hours worked = %v, want 15", metrics.HoursWorked)
	}
	if metrics.TotalPay != 450 {
		t.Fatalf("total pay = %v, want 450", metrics.TotalPay)
	}
	if len(metrics.Shifts) != 2 {
		t.Fatalf("expected 2 shifts, got %d", len(metrics.Shifts))
	}
}

func TestComputeMetrics_ShiftContext(t *testing.T) {
	metrics, err := ComputeMetrics(101, domain.TierSenior, makeRosters())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	first := metrics.Shifts[0]
	if first.Date != "2024-06-10" || first.Department != "客服部" || first.SubDepartment != "呼入组" {
		t.Fatalf("unexpected context for first shift: %+v", first)
	}

	second := metrics.Shifts[1]
	if second.Date != "2024-06-11" || second.Department != "安保部" {
		t.Fatalf("unexpected context for second shift: %+v", second)
	}
}

func TestComputeMetrics_DefaultRate(t *testing.T) {
	// 未知级别按默认时薪 25 计算
	metrics, err := ComputeMetrics(102, domain.Tier("实习"), makeRosters())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if metrics.HoursWorked != 7.5 {
		t.Fatalf("hours worked = %v, want 7.5", metrics.HoursWorked)
	}
	if metrics.TotalPay != 187.5 {
		t.Fatalf("total pay = %v, want 187.5", metrics.TotalPay)
	}
}

func TestComputeMetrics_NoShifts(t *testing.T) {
	metrics, err := ComputeMetrics(999, domain.TierJunior, makeRosters())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if metrics.HoursWorked != 0 || metrics.TotalPay != 0 || len(metrics.Shifts) != 0 {
		t.Fatalf("expected empty metrics, got %+v", metrics)
	}
}
