// query 包实现对已加载的竞班申请集合的内存内过滤、排序与分组
// 它不访问存储，不持有共享状态，也绝不修改传入的切片，
// 同样的输入调用多少次都会得到同样的输出
package query

import (
	"sort"
	"strconv"
	"strings"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

// Filters 中为空（零值或 nil）的条件不参与过滤，非空条件之间按与（AND）组合
type Filters struct {
	StartDate         string             `json:"startDate"` // 含边界
	EndDate           string             `json:"endDate"`   // 含边界
	Statuses          []domain.BidStatus `json:"statuses"`
	Department        string             `json:"department"`
	SubDepartment     string             `json:"subDepartment"`
	ShiftRole         string             `json:"shiftRole"`
	RemunerationLevel *int32             `json:"remunerationLevel"`
	MinNetHours       *float64           `json:"minNetHours"`
	MaxNetHours       *float64           `json:"maxNetHours"`
	Published         *bool              `json:"published"`
	Assigned          *bool              `json:"assigned"`
	Search            string             `json:"search"`
}

func matches(record *domain.BidRecord, f Filters) bool {
	// 日期是 2006-01-02 格式的字符串，字典序就是时间序
	if f.StartDate != "" && record.Date < f.StartDate {
		return false
	}
	if f.EndDate != "" && record.Date > f.EndDate {
		return false
	}

	if len(f.Statuses) > 0 {
		found := false
		for _, status := range f.Statuses {
			if record.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.Department != "" && record.Department != f.Department {
		return false
	}
	if f.SubDepartment != "" && record.SubDepartment != f.SubDepartment {
		return false
	}
	if f.ShiftRole != "" && record.ShiftRole != f.ShiftRole {
		return false
	}
	if f.RemunerationLevel != nil && record.RemunerationLevel != *f.RemunerationLevel {
		return false
	}
	if f.MinNetHours != nil && record.NetHours < *f.MinNetHours {
		return false
	}
	if f.MaxNetHours != nil && record.NetHours > *f.MaxNetHours {
		return false
	}
	if f.Published != nil && record.RosterPublished != *f.Published {
		return false
	}
	if f.Assigned != nil && record.Assigned != *f.Assigned {
		return false
	}

	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		haystacks := []string{
			strings.ToLower(record.EmployeeName),
			strconv.FormatInt(record.ShiftID, 10),
			strings.ToLower(record.ShiftRole),
			strings.ToLower(record.Notes),
		}
		found := false
		for _, haystack := range haystacks {
			if strings.Contains(haystack, needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// Filter 返回满足所有条件的记录，输入切片不会被修改
func Filter(records []*domain.BidRecord, f Filters) []*domain.BidRecord {
	result := make([]*domain.BidRecord, 0, len(records))
	for _, record := range records {
		if matches(record, f) {
			result = append(result, record)
		}
	}
	return result
}

type SortKey string

const (
	SortByDate         SortKey = "date"
	SortByNetHours     SortKey = "netHours"
	SortByStatus       SortKey = "status"
	SortByShiftRole    SortKey = "shiftRole"
	SortByDepartment   SortKey = "department"
	SortByEmployeeName SortKey = "employeeName"
	SortByCreatedAt    SortKey = "createdAt"
	SortByTier         SortKey = "tier" // 用员工级别近似适配度
)

// 级别越高适配度越高
func tierRank(tier domain.Tier) int {
	switch tier {
	case domain.TierSenior:
		return 3
	case domain.TierRegular:
		return 2
	case domain.TierJunior:
		return 1
	default:
		return 0
	}
}

func less(a *domain.BidRecord, b *domain.BidRecord, key SortKey) bool {
	switch key {
	case SortByNetHours:
		return a.NetHours < b.NetHours
	case SortByStatus:
		return a.Status < b.Status
	case SortByShiftRole:
		return a.ShiftRole < b.ShiftRole
	case SortByDepartment:
		return a.Department < b.Department
	case SortByEmployeeName:
		return a.EmployeeName < b.EmployeeName
	case SortByCreatedAt:
		return a.CreatedAt.Before(b.CreatedAt)
	case SortByTier:
		return tierRank(a.EmployeeTier) < tierRank(b.EmployeeTier)
	default:
		// 默认按班次日期加开始时间排序
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		return a.StartTime < b.StartTime
	}
}

// Sort 返回排序后的新切片，使用稳定排序保证结果确定
func Sort(records []*domain.BidRecord, key SortKey, desc bool) []*domain.BidRecord {
	sorted := make([]*domain.BidRecord, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		if desc {
			return less(sorted[j], sorted[i], key)
		}
		return less(sorted[i], sorted[j], key)
	})

	return sorted
}

// GroupByDate 按日历日把记录分组，返回与输入顺序一致的日期键列表和分组映射
// 每条记录恰好落在一个分组中，不会重复也不会丢失
func GroupByDate(records []*domain.BidRecord) ([]string, map[string][]*domain.BidRecord) {
	keys := make([]string, 0)
	groups := make(map[string][]*domain.BidRecord)

	for _, record := range records {
		if _, exists := groups[record.Date]; !exists {
			keys = append(keys, record.Date)
		}
		groups[record.Date] = append(groups[record.Date], record)
	}

	return keys, groups
}
