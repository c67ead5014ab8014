package timeutil

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

const ClockLayout = "15:04"

const minutesPerDay = 24 * 60

type HourMinute struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

func (hm HourMinute) TotalMinutes() int {
	return hm.Hours*60 + hm.Minutes
}

func (hm HourMinute) TotalHours() float64 {
	return float64(hm.TotalMinutes()) / 60
}

// parseClock 把 15:04 格式的时间解析成当天的第几分钟
func parseClock(clock string) (int, error) {
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return 0, fmt.Errorf("时间 %s 格式错误", clock)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Duration 计算 start 到 end 的时长
// 结束时间小于开始时间时视为跨天（加上 24 小时），这是明确的策略，不是输入错误
func Duration(start string, end string) (HourMinute, error) {
	startMin, err := parseClock(start)
	if err != nil {
		return HourMinute{}, err
	}
	endMin, err := parseClock(end)
	if err != nil {
		return HourMinute{}, err
	}

	diff := endMin - startMin
	if diff < 0 {
		diff += minutesPerDay
	}

	return HourMinute{Hours: diff / 60, Minutes: diff % 60}, nil
}

// NetDuration 计算扣除休息时间后的净时长
// 休息时长大于等于班次时长是校验错误（ErrInvalidShift），不会被静默截断成零
func NetDuration(start string, end string, breakDuration string) (HourMinute, error) {
	total, err := Duration(start, end)
	if err != nil {
		return HourMinute{}, err
	}

	brkMin, err := parseClock(breakDuration)
	if err != nil {
		return HourMinute{}, err
	}

	net := total.TotalMinutes() - brkMin
	if net <= 0 {
		return HourMinute{}, domain.ErrInvalidShift
	}

	return HourMinute{Hours: net / 60, Minutes: net % 60}, nil
}

// Position 把一个时间点线性映射到 [rangeStartHour, rangeEndHour] 展示区间中的百分比位置
// 多个视图依赖这个公式做视觉对齐，公式必须保持 (time - rangeStart) / (rangeEnd - rangeStart) * 100
func Position(clock string, rangeStartHour int, rangeEndHour int) (float64, error) {
	if rangeEndHour <= rangeStartHour {
		return 0, fmt.Errorf("展示区间 [%d, %d] 非法", rangeStartHour, rangeEndHour)
	}

	clockMin, err := parseClock(clock)
	if err != nil {
		return 0, err
	}

	pos := float64(clockMin-rangeStartHour*60) / float64((rangeEndHour-rangeStartHour)*60) * 100
	if pos < 0 {
		pos = 0
	}
	if pos > 100 {
		pos = 100
	}

	return pos, nil
}
