package domain

import "time"

type AvailabilityStatus string

const (
	StatusAvailable    AvailabilityStatus = "空闲"
	StatusUnavailable  AvailabilityStatus = "不空闲"
	StatusPartial      AvailabilityStatus = "部分空闲"
	StatusTentative    AvailabilityStatus = "待定"
	StatusOnLeave      AvailabilityStatus = "休假"
	StatusNotSpecified AvailabilityStatus = "未设置"
)

type TimeSlot struct {
	ID        int64              `json:"id"`
	StartTime string             `json:"startTime"` // 格式为 15:04，结束时间小于开始时间表示跨天
	EndTime   string             `json:"endTime"`
	Status    AvailabilityStatus `json:"status"`
}

// DayAvailability 表示某个员工某一天的可用时间
// Status 是由 TimeSlots 推导出来的，读写时都要通过 AggregateStatus 重新计算，
// 不允许直接信任存储中的值，防止和时间段列表产生分歧
type DayAvailability struct {
	ID         int64              `json:"id"`
	EmployeeID int64              `json:"employeeID"`
	Date       string             `json:"date"` // 格式为 2006-01-02
	Status     AvailabilityStatus `json:"status"`
	TimeSlots  []TimeSlot         `json:"timeSlots"`
	Notes      string             `json:"notes"`
	CreatedAt  time.Time          `json:"createdAt"`
	Version    int32              `json:"-"`
}

// AggregateStatus 根据时间段列表推导当天的状态：
// 全部不空闲则为不空闲，全部空闲则为空闲，否则为部分空闲
// 空列表没有意义，返回未设置（这样的记录不应该被持久化）
func AggregateStatus(slots []TimeSlot) AvailabilityStatus {
	if len(slots) == 0 {
		return StatusNotSpecified
	}

	allAvailable := true
	allUnavailable := true
	for _, slot := range slots {
		if slot.Status != StatusAvailable {
			allAvailable = false
		}
		if slot.Status != StatusUnavailable {
			allUnavailable = false
		}
	}

	switch {
	case allUnavailable:
		return StatusUnavailable
	case allAvailable:
		return StatusAvailable
	default:
		return StatusPartial
	}
}

// StatusColor 返回状态对应的展示颜色
func StatusColor(status AvailabilityStatus) string {
	switch status {
	case StatusAvailable:
		return "green"
	case StatusUnavailable:
		return "red"
	case StatusPartial:
		return "yellow"
	case StatusTentative:
		return "blue"
	case StatusOnLeave:
		return "purple"
	default:
		return "gray"
	}
}

type PresetSlot struct {
	StartTime string             `json:"startTime"`
	EndTime   string             `json:"endTime"`
	Status    AvailabilityStatus `json:"status"` // 为空时默认为空闲
}

type AvailabilityPreset struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	Slots     []PresetSlot `json:"slots"`
	CreatedAt time.Time    `json:"createdAt"`
	Version   int32        `json:"-"`
}

// ExpandSlots 把模板中的时间段展开成真正的时间段列表
func (p *AvailabilityPreset) ExpandSlots() []TimeSlot {
	slots := make([]TimeSlot, 0, len(p.Slots))
	for _, ps := range p.Slots {
		status := ps.Status
		if status == "" {
			status = StatusAvailable
		}
		slots = append(slots, TimeSlot{
			StartTime: ps.StartTime,
			EndTime:   ps.EndTime,
			Status:    status,
		})
	}
	return slots
}
