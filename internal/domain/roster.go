package domain

import "time"

// Shift 的归属是严格树形的：一个班次只属于一个子部门，一个子部门只属于一个部门，
// 一个部门只属于某一天的班表
// 跨天班次用 EndTime < StartTime 表示，它仍然挂在开始的那一天上
type Shift struct {
	ID                int64  `json:"id"`
	Role              string `json:"role"`
	StartTime         string `json:"startTime"` // 格式为 15:04
	EndTime           string `json:"endTime"`
	BreakDuration     string `json:"breakDuration"` // 格式为 15:04
	RemunerationLevel int32  `json:"remunerationLevel"`
	EmployeeID        *int64 `json:"employeeID"` // 为 nil 时表示该班次还没有人值守
	Filled            bool   `json:"filled"`
	Version           int32  `json:"-"`
}

type SubGroup struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Shifts []Shift `json:"shifts"`
}

type Group struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"` // 部门名称
	Color     string     `json:"color"`
	SubGroups []SubGroup `json:"subGroups"`
}

// Roster 表示某一天的完整班表，每个日历日最多只有一张
type Roster struct {
	ID        int64     `json:"id"`
	Date      string    `json:"date"` // 格式为 2006-01-02
	Published bool      `json:"published"`
	Groups    []Group   `json:"groups"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}
