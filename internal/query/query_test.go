package query

import (
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

func makeRecords() []*domain.BidRecord {
	return []*domain.BidRecord{
		{
			Bid: domain.Bid{
				ID: 1, EmployeeID: 101, ShiftID: 11, Status: domain.BidPending,
				Notes: "希望排早班", CreatedAt: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC),
			},
			EmployeeName: "王伟", EmployeeTier: domain.TierSenior,
			Date: "2024-06-10", Department: "客服部", SubDepartment: "呼入组",
			ShiftRole: "接线员", StartTime: "09:00", EndTime: "17:00", BreakDuration: "01:00",
			RemunerationLevel: 2, NetHours: 7, Assigned: false, RosterPublished: true,
		},
		{
			Bid: domain.Bid{
				ID: 2, EmployeeID: 102, ShiftID: 12, Status: domain.BidApproved,
				CreatedAt: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
			},
			EmployeeName: "李芳", EmployeeTier: domain.TierJunior,
			Date: "2024-06-10", Department: "客服部", SubDepartment: "呼出组",
			ShiftRole: "质检员", StartTime: "13:00", EndTime: "21:00", BreakDuration: "00:30",
			RemunerationLevel: 1, NetHours: 7.5, Assigned: true, RosterPublished: true,
		},
		{
			Bid: domain.Bid{
				ID: 3, EmployeeID: 103, ShiftID: 13, Status: domain.BidPending,
				CreatedAt: time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC),
			},
			EmployeeName: "张敏", EmployeeTier: domain.TierRegular,
			Date: "2024-06-11", Department: "安保部", SubDepartment: "夜巡组",
			ShiftRole: "巡逻员", StartTime: "22:00", EndTime: "06:00", BreakDuration: "00:30",
			RemunerationLevel: 3, NetHours: 7.5, Assigned: false, RosterPublished: false,
		},
		{
			Bid: domain.Bid{
				ID: 4, EmployeeID: 101, ShiftID: 14, Status: domain.BidRejected,
				Notes: "时间冲突", CreatedAt: time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC),
			},
			EmployeeName: "王伟", EmployeeTier: domain.TierSenior,
			Date: "2024-06-12", Department: "客服部", SubDepartment: "呼入组",
			ShiftRole: "接线员", StartTime: "09:00", EndTime: "13:00", BreakDuration: "00:15",
			RemunerationLevel: 2, NetHours: 3.75, Assigned: false, RosterPublished: true,
		},
	}
}

func idsOf(records []*domain.BidRecord) []int64 {
	ids := make([]int64, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.ID)
	}
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilter_AndSemantics(t *testing.T) {
	records := makeRecords()

	got := Filter(records, Filters{
		Department: "客服部",
		Statuses:   []domain.BidStatus{domain.BidPending},
	})

	if !equalIDs(idsOf(got), []int64{1}) {
		t.Fatalf("expected [1], got %v", idsOf(got))
	}
}

func TestFilter_Commutative(t *testing.T) {
	records := makeRecords()

	// 先过滤 A 再过滤 B 和先 B 再 A 必须得到相同的集合
	byDept := Filters{Department: "客服部"}
	byDate := Filters{StartDate: "2024-06-10", EndDate: "2024-06-11"}

	ab := Filter(Filter(records, byDept), byDate)
	ba := Filter(Filter(records, byDate), byDept)

	if !equalIDs(idsOf(ab), idsOf(ba)) {
		t.Fatalf("filter order changed result: %v vs %v", idsOf(ab), idsOf(ba))
	}

	// 并且和一次性组合过滤等价
	combined := Filter(records, Filters{Department: "客服部", StartDate: "2024-06-10", EndDate: "2024-06-11"})
	if !equalIDs(idsOf(ab), idsOf(combined)) {
		t.Fatalf("sequential filters differ from combined: %v vs %v", idsOf(ab), idsOf(combined))
	}
}

func TestFilter_NetHoursRange(t *testing.T) {
	records := makeRecords()

	minH, maxH := 7.0, 7.5
	got := Filter(records, Filters{MinNetHours: &minH, MaxNetHours: &maxH})

	if !equalIDs(idsOf(got), []int64{1, 2, 3}) {
		t.Fatalf("expected [1 2 3], got %v", idsOf(got))
	}
}

func TestFilter_Search(t *testing.T) {
	records := makeRecords()

	// 搜索覆盖员工姓名、班次编号、岗位和备注，大小写不敏感的子串匹配
	cases := []struct {
		search string
		want   []int64
	}{
		{"王伟", []int64{1, 4}},
		{"13", []int64{3}},
		{"巡逻", []int64{3}},
		{"时间冲突", []int64{4}},
	}

	for _, tc := range cases {
		got := Filter(records, Filters{Search: tc.search})
		if !equalIDs(idsOf(got), tc.want) {
			t.Fatalf("search %q: expected %v, got %v", tc.search, tc.want, idsOf(got))
		}
	}
}

func TestFilter_AssignedAndPublished(t *testing.T) {
	records := makeRecords()

	assigned := true
	got := Filter(records, Filters{Assigned: &assigned})
	if !equalIDs(idsOf(got), []int64{2}) {
		t.Fatalf("expected [2], got %v", idsOf(got))
	}

	published := false
	got = Filter(records, Filters{Published: &published})
	if !equalIDs(idsOf(got), []int64{3}) {
		t.Fatalf("expected [3], got %v", idsOf(got))
	}
}

func TestSort(t *testing.T) {
	records := makeRecords()

	byDate := Sort(records, SortByDate, false)
	if !equalIDs(idsOf(byDate), []int64{1, 2, 3, 4}) {
		t.Fatalf("sort by date: got %v", idsOf(byDate))
	}

	byDateDesc := Sort(records, SortByDate, true)
	if !equalIDs(idsOf(byDateDesc), []int64{4, 3, 2, 1}) {
		t.Fatalf("sort by date desc: got %v", idsOf(byDateDesc))
	}

	byTierDesc := Sort(records, SortByTier, true)
	if byTierDesc[0].EmployeeTier != domain.TierSenior {
		t.Fatalf("sort by tier desc: expected senior first, got %s", byTierDesc[0].EmployeeTier)
	}
	if byTierDesc[len(byTierDesc)-1].EmployeeTier != domain.TierJunior {
		t.Fatalf("sort by tier desc: expected junior last")
	}

	byCreated := Sort(records, SortByCreatedAt, false)
	if !equalIDs(idsOf(byCreated), []int64{2, 1, 3, 4}) {
		t.Fatalf("sort by createdAt: got %v", idsOf(byCreated))
	}
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	records := makeRecords()
	before := idsOf(records)

	_ = Sort(records, SortByNetHours, true)

	if !equalIDs(idsOf(records), before) {
		t.Fatalf("Sort mutated its input: %v", idsOf(records))
	}
}

func TestGroupByDate_Partition(t *testing.T) {
	records := Sort(makeRecords(), SortByDate, false)

	keys, groups := GroupByDate(records)

	if len(keys) != 3 {
		t.Fatalf("expected 3 date groups, got %d (%v)", len(keys), keys)
	}
	// 分组键的顺序和排序后的记录顺序一致
	if keys[0] != "2024-06-10" || keys[1] != "2024-06-11" || keys[2] != "2024-06-12" {
		t.Fatalf("unexpected key order: %v", keys)
	}

	// 分组是一个划分：每条记录恰好出现一次
	total := 0
	seen := make(map[int64]bool)
	for _, key := range keys {
		for _, record := range groups[key] {
			if record.Date != key {
				t.Fatalf("record %d grouped under %s but has date %s", record.ID, key, record.Date)
			}
			if seen[record.ID] {
				t.Fatalf("record %d appears in more than one group", record.ID)
			}
			seen[record.ID] = true
			total++
		}
	}
	if total != len(records) {
		t.Fatalf("partition dropped records: %d != %d", total, len(records))
	}
}

func TestFilter_Deterministic(t *testing.T) {
	records := makeRecords()
	f := Filters{Department: "客服部", Search: "接线"}

	first := Filter(records, f)
	second := Filter(records, f)

	if !equalIDs(idsOf(first), idsOf(second)) {
		t.Fatalf("same input produced different output: %v vs %v", idsOf(first), idsOf(second))
	}
}
