package domain

import "time"

type BidStatus string

const (
	BidPending   BidStatus = "待处理"
	BidApproved  BidStatus = "已批准"
	BidRejected  BidStatus = "已拒绝"
	BidConfirmed BidStatus = "已确认"
)

// Bid 是员工对某个空闲班次的竞班申请，它通过 ShiftID 引用班次但不拥有班次
type Bid struct {
	ID         int64     `json:"id"`
	EmployeeID int64     `json:"employeeID"`
	ShiftID    int64     `json:"shiftID"`
	Status     BidStatus `json:"status"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"createdAt"`
	Version    int32     `json:"-"`
}

// CanTransition 判断竞班申请能否从 from 状态转移到 to 状态
// 待处理可以转移到已批准或已拒绝，已批准可以转移到已确认，其余都是终态
func CanTransition(from BidStatus, to BidStatus) bool {
	switch from {
	case BidPending:
		return to == BidApproved || to == BidRejected
	case BidApproved:
		return to == BidConfirmed
	default:
		return false
	}
}

// BidRecord 是竞班申请加上冗余的班次上下文，供查询引擎在内存中过滤排序使用
type BidRecord struct {
	Bid
	EmployeeName      string  `json:"employeeName"`
	EmployeeTier      Tier    `json:"employeeTier"`
	Date              string  `json:"date"`
	Department        string  `json:"department"`
	SubDepartment     string  `json:"subDepartment"`
	ShiftRole         string  `json:"shiftRole"`
	StartTime         string  `json:"startTime"`
	EndTime           string  `json:"endTime"`
	BreakDuration     string  `json:"breakDuration"`
	RemunerationLevel int32   `json:"remunerationLevel"`
	NetHours          float64 `json:"netHours"`
	Assigned          bool    `json:"assigned"`
	RosterPublished   bool    `json:"rosterPublished"`
}
