package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/timeutil"
)

// CreateBid 创建竞班申请
// 班次不存在返回 domain.ErrNotFound，班次已有人值守返回 domain.ErrShiftNotOpen，
// 同一个员工对同一个班次已有待处理的申请时返回 domain.ErrDuplicateBid
// 整个检查和插入在一个事务里完成，并对班次加共享锁防止检查完之后班次被分配出去
func (r *Repository) CreateBid(bid *domain.Bid) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		SELECT filled FROM shifts WHERE id = $1 FOR SHARE
	`
	var filled bool
	if err := tx.QueryRowContext(ctx, query, bid.ShiftID).Scan(&filled); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if filled {
		return domain.ErrShiftNotOpen
	}

	query = `
		SELECT EXISTS (
			SELECT 1 FROM bids
			WHERE employee_id = $1 AND shift_id = $2 AND status = $3
		)
	`
	var duplicated bool
	if err := tx.QueryRowContext(ctx, query, bid.EmployeeID, bid.ShiftID, domain.BidPending).Scan(&duplicated); err != nil {
		return err
	}
	if duplicated {
		return domain.ErrDuplicateBid
	}

	query = `
		INSERT INTO bids (employee_id, shift_id, status, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, version
	`
	args := []any{bid.EmployeeID, bid.ShiftID, domain.BidPending, bid.Notes}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&bid.ID, &bid.CreatedAt, &bid.Version); err != nil {
		// 两个并发的申请可能同时通过上面的存在性检查（共享锁互相兼容），
		// 此时由部分唯一索引兜底，输掉的一方同样按重复申请处理
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "bids_pending_employee_shift_idx" {
			return domain.ErrDuplicateBid
		}
		return err
	}
	bid.Status = domain.BidPending

	return tx.Commit()
}

func (r *Repository) GetBidByID(id int64) (*domain.Bid, error) {
	query := `
		SELECT employee_id, shift_id, status, notes, created_at, version
		FROM bids WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	bid := &domain.Bid{
		ID: id,
	}

	dst := []any{&bid.EmployeeID, &bid.ShiftID, &bid.Status, &bid.Notes, &bid.CreatedAt, &bid.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return bid, nil
}

// ApproveBid 批准竞班申请并把班次分配给申请人
// 先到先得：对班次加排他锁之后再检查有没有人值守，
// 已经有人值守说明另一个竞班申请先被批准了，返回 domain.ErrAlreadyResolved
func (r *Repository) ApproveBid(bid *domain.Bid) error {
	if !domain.CanTransition(bid.Status, domain.BidApproved) {
		return domain.ErrAlreadyResolved
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		SELECT filled FROM shifts WHERE id = $1 FOR UPDATE
	`
	var filled bool
	if err := tx.QueryRowContext(ctx, query, bid.ShiftID).Scan(&filled); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if filled {
		return domain.ErrAlreadyResolved
	}

	query = `
		UPDATE shifts
		SET employee_id = $1, filled = true, version = version + 1
		WHERE id = $2
	`
	if _, err := tx.ExecContext(ctx, query, bid.EmployeeID, bid.ShiftID); err != nil {
		return err
	}

	query = `
		UPDATE bids
		SET status = $1, version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`
	if err := tx.QueryRowContext(ctx, query, domain.BidApproved, bid.ID, bid.Version).Scan(&bid.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// 版本不匹配说明这条申请刚刚被别人处理过了
			return domain.ErrAlreadyResolved
		}
		return err
	}
	bid.Status = domain.BidApproved

	return tx.Commit()
}

// UpdateBidStatus 执行不涉及班次分配的状态转移（拒绝和确认）
// 非法转移返回 domain.ErrAlreadyResolved，由调用方决定怎么呈现
func (r *Repository) UpdateBidStatus(bid *domain.Bid, to domain.BidStatus) error {
	if !domain.CanTransition(bid.Status, to) {
		return domain.ErrAlreadyResolved
	}

	query := `
		UPDATE bids
		SET status = $1, version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, to, bid.ID, bid.Version).Scan(&bid.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrAlreadyResolved
		}
		return err
	}
	bid.Status = to

	return nil
}

func (r *Repository) GetBidsByEmployeeID(employeeID int64) ([]*domain.Bid, error) {
	query := `
		SELECT id, shift_id, status, notes, created_at, version
		FROM bids WHERE employee_id = $1
		ORDER BY created_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bids := make([]*domain.Bid, 0)
	for rows.Next() {
		bid := &domain.Bid{
			EmployeeID: employeeID,
		}
		dst := []any{&bid.ID, &bid.ShiftID, &bid.Status, &bid.Notes, &bid.CreatedAt, &bid.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		bids = append(bids, bid)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return bids, nil
}

// GetAllBidRecords 返回所有竞班申请及其班次上下文
// 过滤、排序和分组都交给查询引擎在内存中完成，这里只负责一次性把数据捞出来
func (r *Repository) GetAllBidRecords() ([]*domain.BidRecord, error) {
	query := `
		SELECT
			b.id,
			b.employee_id,
			b.shift_id,
			b.status,
			b.notes,
			b.created_at,
			b.version,
			e.full_name,
			e.tier,
			ro.date,
			g.name,
			sg.name,
			s.role,
			s.start_time,
			s.end_time,
			s.break_duration,
			s.remuneration_level,
			s.filled,
			ro.published
		FROM bids b
		JOIN employees e ON b.employee_id = e.id
		JOIN shifts s ON b.shift_id = s.id
		JOIN roster_sub_groups sg ON s.sub_group_id = sg.id
		JOIN roster_groups g ON sg.group_id = g.id
		JOIN rosters ro ON g.roster_id = ro.id
		ORDER BY b.created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.BidRecord, 0)
	for rows.Next() {
		record := &domain.BidRecord{}

		var date time.Time
		dst := []any{
			&record.ID,
			&record.EmployeeID,
			&record.ShiftID,
			&record.Status,
			&record.Notes,
			&record.CreatedAt,
			&record.Version,
			&record.EmployeeName,
			&record.EmployeeTier,
			&date,
			&record.Department,
			&record.SubDepartment,
			&record.ShiftRole,
			&record.StartTime,
			&record.EndTime,
			&record.BreakDuration,
			&record.RemunerationLevel,
			&record.Assigned,
			&record.RosterPublished,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		record.Date = date.Format(dateLayout)

		// 班次数据在入库前已经校验过，这里算不出净时长说明数据被直接改过了，
		// 保守地按 0 处理而不是让整个查询失败
		if net, err := timeutil.NetDuration(record.StartTime, record.EndTime, record.BreakDuration); err == nil {
			record.NetHours = net.TotalHours()
		}

		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}
