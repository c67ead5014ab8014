package repository

import (
	"database/sql"
	"errors"
	"math/rand"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/config"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// 数据库集成测试，需要一个已执行过 migrations 的 Postgres 实例
// 通过 TEST_DATABASE_DSN 指定连接串，未设置时整组测试跳过

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("未设置 TEST_DATABASE_DSN，跳过数据库集成测试")
	}

	dbpool, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatalf("无法创建数据库连接池: %v", err)
	}
	t.Cleanup(func() {
		_ = dbpool.Close()
	})

	cfg := &config.Config{}
	cfg.Database.DSN = dsn
	cfg.Database.QueryTimeout = 10
	cfg.Database.TransactionTimeout = 20

	return NewRepository(cfg, dbpool)
}

func createTestEmployee(t *testing.T, r *Repository) *domain.Employee {
	t.Helper()

	// 随机用户名偶尔会撞唯一约束，换一个重试
	for attempt := 0; attempt < 5; attempt++ {
		employee, err := utils.GenerateRandomEmployee("integration-test", "test.local")
		if err != nil {
			t.Fatalf("无法生成随机员工: %v", err)
		}
		if err := r.CreateEmployee(employee); err != nil {
			continue
		}
		return employee
	}

	t.Fatalf("多次尝试后仍无法插入员工")
	return nil
}

// testDate 返回一个远未来的随机日期，避免和历史数据或其它测试撞上唯一约束
func testDate(offset int) string {
	return time.Now().AddDate(0, 0, 10000+rand.Intn(1000000)+offset).Format(dateLayout)
}

// createTestRoster 插入一张只有一个部门一个子部门两个班次的班表
// 第一个班次的值守员工由 firstShiftEmployee 指定，第二个班次始终空闲
func createTestRoster(t *testing.T, r *Repository, firstShiftEmployee *int64) *domain.Roster {
	t.Helper()

	roster := &domain.Roster{
		Date: testDate(0),
		Groups: []domain.Group{
			{
				Name:  "客服部",
				Color: "#3b82f6",
				SubGroups: []domain.SubGroup{
					{
						Name: "呼入组",
						Shifts: []domain.Shift{
							{Role: "接线员", StartTime: "09:00", EndTime: "17:00", BreakDuration: "00:30", RemunerationLevel: 1, EmployeeID: firstShiftEmployee},
							{Role: "接线员", StartTime: "14:00", EndTime: "22:00", BreakDuration: "00:00", RemunerationLevel: 1},
						},
					},
				},
			},
		},
	}

	if err := r.CreateRoster(roster); err != nil {
		t.Fatalf("无法插入班表: %v", err)
	}
	return roster
}

func TestCreateRosterPreassignedShiftIsFilled(t *testing.T) {
	repo := newTestRepository(t)

	owner := createTestEmployee(t, repo)
	roster := createTestRoster(t, repo, &owner.ID)

	preassigned := roster.Groups[0].SubGroups[0].Shifts[0]
	if !preassigned.Filled {
		t.Fatalf("建表时预先分配的班次 filled 应为 true，实际为 false")
	}

	open := roster.Groups[0].SubGroups[0].Shifts[1]
	if open.Filled {
		t.Fatalf("空闲班次 filled 应为 false，实际为 true")
	}

	// 预先分配的班次不允许竞班
	bidder := createTestEmployee(t, repo)
	bid := &domain.Bid{EmployeeID: bidder.ID, ShiftID: preassigned.ID}
	if err := repo.CreateBid(bid); !errors.Is(err, domain.ErrShiftNotOpen) {
		t.Fatalf("对预先分配的班次竞班预期 ErrShiftNotOpen，实际为 %v", err)
	}

	// 空闲的班次可以正常竞班
	bid = &domain.Bid{EmployeeID: bidder.ID, ShiftID: open.ID}
	if err := repo.CreateBid(bid); err != nil {
		t.Fatalf("对空闲班次竞班失败: %v", err)
	}
}

func TestCreateBidDuplicatePending(t *testing.T) {
	repo := newTestRepository(t)

	roster := createTestRoster(t, repo, nil)
	shiftID := roster.Groups[0].SubGroups[0].Shifts[1].ID
	bidder := createTestEmployee(t, repo)

	bid := &domain.Bid{EmployeeID: bidder.ID, ShiftID: shiftID}
	if err := repo.CreateBid(bid); err != nil {
		t.Fatalf("第一次竞班失败: %v", err)
	}

	duplicate := &domain.Bid{EmployeeID: bidder.ID, ShiftID: shiftID}
	if err := repo.CreateBid(duplicate); !errors.Is(err, domain.ErrDuplicateBid) {
		t.Fatalf("重复竞班预期 ErrDuplicateBid，实际为 %v", err)
	}
}

func TestApproveBidAfterShiftAssigned(t *testing.T) {
	repo := newTestRepository(t)

	roster := createTestRoster(t, repo, nil)
	shiftID := roster.Groups[0].SubGroups[0].Shifts[1].ID

	bidder := createTestEmployee(t, repo)
	bid := &domain.Bid{EmployeeID: bidder.ID, ShiftID: shiftID}
	if err := repo.CreateBid(bid); err != nil {
		t.Fatalf("竞班失败: %v", err)
	}

	// 申请还没处理之前班次被手动分配了出去
	other := createTestEmployee(t, repo)
	if _, err := repo.AssignShift(roster.ID, shiftID, &other.ID); err != nil {
		t.Fatalf("分配班次失败: %v", err)
	}

	if err := repo.ApproveBid(bid); !errors.Is(err, domain.ErrAlreadyResolved) {
		t.Fatalf("批准已被分配班次的申请预期 ErrAlreadyResolved，实际为 %v", err)
	}

	// 班次的值守员工必须保持不变
	shift, err := repo.GetShiftInRoster(roster.ID, shiftID)
	if err != nil {
		t.Fatalf("无法读取班次: %v", err)
	}
	if shift.EmployeeID == nil || *shift.EmployeeID != other.ID {
		t.Fatalf("班次值守员工被覆盖了: got %v, want %d", shift.EmployeeID, other.ID)
	}
}

func TestApproveBidSingleWinner(t *testing.T) {
	repo := newTestRepository(t)

	roster := createTestRoster(t, repo, nil)
	shiftID := roster.Groups[0].SubGroups[0].Shifts[1].ID

	bids := make([]*domain.Bid, 2)
	for i := range bids {
		bidder := createTestEmployee(t, repo)
		bids[i] = &domain.Bid{EmployeeID: bidder.ID, ShiftID: shiftID}
		if err := repo.CreateBid(bids[i]); err != nil {
			t.Fatalf("竞班失败: %v", err)
		}
	}

	// 并发批准同一个班次上的两条申请，只允许有一个赢家
	var wg sync.WaitGroup
	errs := make([]error, len(bids))
	for i := range bids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.ApproveBid(bids[i])
		}(i)
	}
	wg.Wait()

	winners := 0
	var winner *domain.Bid
	for i, err := range errs {
		switch {
		case err == nil:
			winners++
			winner = bids[i]
		case errors.Is(err, domain.ErrAlreadyResolved):
		default:
			t.Fatalf("预期批准成功或 ErrAlreadyResolved，实际为 %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("预期恰好一条申请批准成功，实际有 %d 条", winners)
	}

	shift, err := repo.GetShiftInRoster(roster.ID, shiftID)
	if err != nil {
		t.Fatalf("无法读取班次: %v", err)
	}
	if !shift.Filled || shift.EmployeeID == nil || *shift.EmployeeID != winner.EmployeeID {
		t.Fatalf("班次最终值守员工应为赢家 %d，实际为 %v", winner.EmployeeID, shift.EmployeeID)
	}
}

func TestReplaceAvailabilityRangeIdempotent(t *testing.T) {
	repo := newTestRepository(t)

	employee := createTestEmployee(t, repo)
	start := testDate(0)
	dates, err := utils.DatesInRange(start, start)
	if err != nil {
		t.Fatalf("展开日期区间失败: %v", err)
	}
	slots := []domain.TimeSlot{
		{StartTime: "09:00", EndTime: "17:00", Status: domain.StatusAvailable},
	}

	for i := 0; i < 2; i++ {
		if _, err := repo.ReplaceAvailabilityRange(employee.ID, dates, slots, "集成测试"); err != nil {
			t.Fatalf("第 %d 次写入失败: %v", i+1, err)
		}
	}

	days, err := repo.GetAvailabilityByEmployeeAndRange(employee.ID, start, start)
	if err != nil {
		t.Fatalf("读取可用时间失败: %v", err)
	}
	if len(days) != 1 {
		t.Fatalf("重复写入后应只有 1 条记录，实际有 %d 条", len(days))
	}

	day := days[0]
	if day.Status != domain.StatusAvailable {
		t.Fatalf("状态应为 %s，实际为 %s", domain.StatusAvailable, day.Status)
	}
	if len(day.TimeSlots) != 1 || day.TimeSlots[0].StartTime != "09:00" || day.TimeSlots[0].EndTime != "17:00" {
		t.Fatalf("时间段不符合预期: %+v", day.TimeSlots)
	}
}

func TestReplaceAvailabilityRangeLockedAllOrNothing(t *testing.T) {
	repo := newTestRepository(t)

	employee := createTestEmployee(t, repo)
	base := time.Now().AddDate(0, 0, 10000+rand.Intn(1000000))
	start := base.Format(dateLayout)
	end := base.AddDate(0, 0, 2).Format(dateLayout)
	dates, err := utils.DatesInRange(start, end)
	if err != nil {
		t.Fatalf("展开日期区间失败: %v", err)
	}

	initial := []domain.TimeSlot{
		{StartTime: "09:00", EndTime: "17:00", Status: domain.StatusAvailable},
	}
	if _, err := repo.ReplaceAvailabilityRange(employee.ID, dates, initial, "锁定前"); err != nil {
		t.Fatalf("初始写入失败: %v", err)
	}

	before, err := repo.GetAvailabilityByEmployeeAndRange(employee.ID, start, end)
	if err != nil {
		t.Fatalf("读取可用时间失败: %v", err)
	}

	// 锁定区间的第一天，测试结束时恢复原来的锁定日期
	previousCutoff, err := repo.GetCutoffDate()
	if err != nil {
		t.Fatalf("读取锁定日期失败: %v", err)
	}
	t.Cleanup(func() {
		_ = repo.UpdateCutoffDate(previousCutoff)
	})
	cutoff := dates[1]
	if err := repo.UpdateCutoffDate(&cutoff); err != nil {
		t.Fatalf("设置锁定日期失败: %v", err)
	}

	replacement := []domain.TimeSlot{
		{StartTime: "00:00", EndTime: "23:59", Status: domain.StatusUnavailable},
	}
	if _, err := repo.ReplaceAvailabilityRange(employee.ID, dates, replacement, "锁定后"); !errors.Is(err, domain.ErrDateLocked) {
		t.Fatalf("写入含锁定日期的区间预期 ErrDateLocked，实际为 %v", err)
	}

	// 整批写入必须原样回滚，三天的数据都不能被改动
	after, err := repo.GetAvailabilityByEmployeeAndRange(employee.ID, start, end)
	if err != nil {
		t.Fatalf("读取可用时间失败: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("记录数发生了变化: before=%d after=%d", len(before), len(after))
	}
	for i := range before {
		if after[i].Date != before[i].Date || after[i].Notes != before[i].Notes || after[i].Status != before[i].Status {
			t.Fatalf("第 %d 天的记录被改动了: before=%+v after=%+v", i+1, before[i], after[i])
		}
		if len(after[i].TimeSlots) != len(before[i].TimeSlots) {
			t.Fatalf("第 %d 天的时间段数量发生了变化", i+1)
		}
		for j := range before[i].TimeSlots {
			if after[i].TimeSlots[j].StartTime != before[i].TimeSlots[j].StartTime ||
				after[i].TimeSlots[j].EndTime != before[i].TimeSlots[j].EndTime ||
				after[i].TimeSlots[j].Status != before[i].TimeSlots[j].Status {
				t.Fatalf("第 %d 天的时间段被改动了", i+1)
			}
		}
	}
}
