package utils

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/timeutil"
)

const DateLayout = "2006-01-02"

func ValidateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("日期 %s 格式错误，应为 2006-01-02", date)
	}
	return nil
}

func ValidateDateRange(startDate string, endDate string) error {
	if err := ValidateDate(startDate); err != nil {
		return err
	}
	if err := ValidateDate(endDate); err != nil {
		return err
	}
	if startDate > endDate {
		return fmt.Errorf("开始日期不能晚于结束日期")
	}
	return nil
}

// DatesInRange 展开 [startDate, endDate] 闭区间内的所有日历日
func DatesInRange(startDate string, endDate string) ([]string, error) {
	if err := ValidateDateRange(startDate, endDate); err != nil {
		return nil, err
	}

	start, _ := time.Parse(DateLayout, startDate)
	end, _ := time.Parse(DateLayout, endDate)

	dates := make([]string, 0)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}

	return dates, nil
}

// ValidateTimeSlots 检查时间段列表的格式和状态是否合法
// 注意时间段之间允许重叠，结束时间小于开始时间表示跨天，同样合法
func ValidateTimeSlots(slots []domain.TimeSlot) error {
	if len(slots) == 0 {
		return fmt.Errorf("时间段列表不能为空")
	}

	for i, slot := range slots {
		if _, err := timeutil.Duration(slot.StartTime, slot.EndTime); err != nil {
			return fmt.Errorf("第 %d 个时间段非法: %w", i+1, err)
		}

		switch slot.Status {
		case domain.StatusAvailable, domain.StatusUnavailable, domain.StatusPartial:
		default:
			return fmt.Errorf("第 %d 个时间段的状态 %s 非法", i+1, slot.Status)
		}
	}

	return nil
}

// ValidateShift 检查单个班次的时间是否合法
// 休息时长大于等于班次时长时返回 domain.ErrInvalidShift
func ValidateShift(shift *domain.Shift) error {
	if shift.Role == "" {
		return fmt.Errorf("班次岗位不能为空")
	}
	if _, err := timeutil.NetDuration(shift.StartTime, shift.EndTime, shift.BreakDuration); err != nil {
		return err
	}
	return nil
}

// ValidateRoster 检查整张班表的结构和其中所有班次的时间
func ValidateRoster(r *domain.Roster) error {
	if err := ValidateDate(r.Date); err != nil {
		return err
	}

	for _, group := range r.Groups {
		if group.Name == "" {
			return fmt.Errorf("部门名称不能为空")
		}
		for _, subGroup := range group.SubGroups {
			if subGroup.Name == "" {
				return fmt.Errorf("部门 %s 下的子部门名称不能为空", group.Name)
			}
			for i := range subGroup.Shifts {
				if err := ValidateShift(&subGroup.Shifts[i]); err != nil {
					return fmt.Errorf("子部门 %s 的第 %d 个班次非法: %w", subGroup.Name, i+1, err)
				}
			}
		}
	}

	return nil
}
