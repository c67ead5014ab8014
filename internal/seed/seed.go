package seed

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/repository"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/utils"
)

// 演示环境使用的固定可用时间模板
var demoPresets = []*domain.AvailabilityPreset{
	{
		Name: "标准班 (9-5)",
		Slots: []domain.PresetSlot{
			{StartTime: "09:00", EndTime: "17:00", Status: domain.StatusAvailable},
		},
	},
	{
		Name: "早晚可用",
		Slots: []domain.PresetSlot{
			{StartTime: "06:00", EndTime: "10:00", Status: domain.StatusAvailable},
			{StartTime: "18:00", EndTime: "22:00", Status: domain.StatusAvailable},
		},
	},
	{
		Name: "仅夜班",
		Slots: []domain.PresetSlot{
			{StartTime: "09:00", EndTime: "18:00", Status: domain.StatusUnavailable},
			{StartTime: "22:00", EndTime: "06:00", Status: domain.StatusAvailable},
		},
	},
}

// SeedDemoData 构建一套可以直接演示的完整数据：
// 员工、可用时间模板、从今天开始的一周班表（第一天已发布）以及若干竞班申请
func SeedDemoData(r *repository.Repository, employeePassword string, emailDomain string) {
	// 插入员工
	employees := make([]*domain.Employee, 0, 8)
	for i := 0; i < 8; i++ {
		employee, err := utils.GenerateRandomEmployee(employeePassword, emailDomain)
		if err != nil {
			slog.Error("无法生成随机员工", "error", err)
			continue
		}
		if err := r.CreateEmployee(employee); err != nil {
			slog.Error("插入员工失败", "error", err)
			continue
		}
		employees = append(employees, employee)
	}
	if len(employees) == 0 {
		slog.Error("没有插入任何员工，终止")
		return
	}

	// 插入可用时间模板
	for _, preset := range demoPresets {
		if err := r.CreatePreset(preset); err != nil {
			slog.Error("插入可用时间模板失败", "error", err)
		}
	}

	// 为每个员工用标准班模板填充下一周的可用时间
	today := time.Now().Format(utils.DateLayout)
	weekEnd := time.Now().AddDate(0, 0, 6).Format(utils.DateLayout)
	dates, err := utils.DatesInRange(today, weekEnd)
	if err != nil {
		slog.Error("展开日期区间失败", "error", err)
		return
	}

	standardSlots := demoPresets[0].ExpandSlots()
	for _, employee := range employees {
		if _, err := r.ReplaceAvailabilityRange(employee.ID, dates, standardSlots, "演示数据"); err != nil {
			slog.Error("写入可用时间失败", "error", err)
		}
	}

	// 插入一周的班表，第一天直接发布
	openShiftIDs := make([]int64, 0)
	for i, date := range dates {
		roster := utils.GenerateRandomRoster(date)

		// 随机把一部分班次先分配出去，留下的作为可竞班次
		for gi := range roster.Groups {
			for si := range roster.Groups[gi].SubGroups {
				for shi := range roster.Groups[gi].SubGroups[si].Shifts {
					if rand.Intn(2) == 0 {
						employee := employees[rand.Intn(len(employees))]
						roster.Groups[gi].SubGroups[si].Shifts[shi].EmployeeID = &employee.ID
					}
				}
			}
		}

		if err := r.CreateRoster(roster); err != nil {
			slog.Error("插入班表失败", "error", err, "date", date)
			continue
		}

		if i == 0 {
			if err := r.PublishRoster(roster); err != nil {
				slog.Error("发布班表失败", "error", err)
			}
		}

		for _, group := range roster.Groups {
			for _, subGroup := range group.SubGroups {
				for _, shift := range subGroup.Shifts {
					if shift.EmployeeID == nil {
						openShiftIDs = append(openShiftIDs, shift.ID)
					}
				}
			}
		}
	}

	// 对空闲班次提交竞班申请
	bidCount := 0
	for _, shiftID := range openShiftIDs {
		if rand.Intn(2) == 0 {
			continue
		}

		employee := employees[rand.Intn(len(employees))]
		bid := utils.GenerateRandomBid(employee.ID, shiftID)
		if err := r.CreateBid(bid); err != nil {
			slog.Error("插入竞班申请失败", "error", err)
			continue
		}
		bidCount++
	}

	// 把昨天之前的日期锁定，演示锁定日期的效果
	cutoff := time.Now().Format(utils.DateLayout)
	if err := r.UpdateCutoffDate(&cutoff); err != nil {
		slog.Error("设置锁定日期失败", "error", err)
	}

	slog.Info("演示数据插入完成", "employees", len(employees), "rosters", len(dates), "bids", bidCount)
}
