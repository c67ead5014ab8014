package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

// lockedCutoff 在事务中读取锁定日期
// 使用 FOR SHARE 是为了防止在批量写入的过程中有人把锁定日期往后移：
// 并发的锁定日期修改会和这里的共享锁冲突，从而保证整批写入的原子性
func lockedCutoff(ctx context.Context, tx *sql.Tx) (*string, error) {
	query := `
		SELECT cutoff_date FROM organization_settings WHERE id = 1 FOR SHARE
	`

	var cutoff sql.NullTime
	if err := tx.QueryRowContext(ctx, query).Scan(&cutoff); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if !cutoff.Valid {
		return nil, nil
	}

	date := cutoff.Time.Format(dateLayout)
	return &date, nil
}

// locked 判断某一天是否处于锁定区间（严格早于锁定日期）
// cutoff 为 nil 表示没有设置锁定日期，任何日期都不锁定
func locked(cutoff *string, date string) bool {
	return cutoff != nil && date < *cutoff
}

// ReplaceAvailabilityRange 在一个事务中覆盖写入多个日期的可用时间
// 只要有一天被锁定整批就失败（domain.ErrDateLocked），不允许部分写入；
// 每一天都是整体替换时间段列表，不做合并
func (r *Repository) ReplaceAvailabilityRange(employeeID int64, dates []string, slots []domain.TimeSlot, notes string) ([]*domain.DayAvailability, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	cutoff, err := lockedCutoff(ctx, tx)
	if err != nil {
		return nil, err
	}
	for _, date := range dates {
		if locked(cutoff, date) {
			return nil, domain.ErrDateLocked
		}
	}

	days := make([]*domain.DayAvailability, 0, len(dates))

	for _, date := range dates {
		// 先把这一天原有的记录删掉再插入，时间段会被外键级联删除
		query := `DELETE FROM day_availabilities WHERE employee_id = $1 AND date = $2`
		if _, err := tx.ExecContext(ctx, query, employeeID, date); err != nil {
			return nil, err
		}

		day := &domain.DayAvailability{
			EmployeeID: employeeID,
			Date:       date,
			Notes:      notes,
			TimeSlots:  make([]domain.TimeSlot, 0, len(slots)),
		}

		query = `
			INSERT INTO day_availabilities (employee_id, date, notes)
			VALUES ($1, $2, $3)
			RETURNING id, created_at, version
		`
		if err := tx.QueryRowContext(ctx, query, employeeID, date, notes).Scan(&day.ID, &day.CreatedAt, &day.Version); err != nil {
			return nil, err
		}

		for _, slot := range slots {
			query = `
				INSERT INTO availability_time_slots (day_availability_id, start_time, end_time, status)
				VALUES ($1, $2, $3, $4)
				RETURNING id
			`
			inserted := slot
			if err := tx.QueryRowContext(ctx, query, day.ID, slot.StartTime, slot.EndTime, slot.Status).Scan(&inserted.ID); err != nil {
				return nil, err
			}
			day.TimeSlots = append(day.TimeSlots, inserted)
		}

		day.Status = domain.AggregateStatus(day.TimeSlots)
		days = append(days, day)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return days, nil
}

// DeleteAvailability 删除某个员工某一天的可用时间
// 日期被锁定时返回 domain.ErrDateLocked；记录本来就不存在不算错误，只返回 false
func (r *Repository) DeleteAvailability(employeeID int64, date string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	cutoff, err := lockedCutoff(ctx, tx)
	if err != nil {
		return false, err
	}
	if locked(cutoff, date) {
		return false, domain.ErrDateLocked
	}

	query := `DELETE FROM day_availabilities WHERE employee_id = $1 AND date = $2`
	result, err := tx.ExecContext(ctx, query, employeeID, date)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}

	return affected > 0, nil
}

// GetAvailabilityByEmployeeAndRange 返回员工在闭区间内所有已设置的可用时间
// 没有记录的日期不会出现在结果中（没有记录就表示未设置）
func (r *Repository) GetAvailabilityByEmployeeAndRange(employeeID int64, startDate string, endDate string) ([]*domain.DayAvailability, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT
			da.id,
			da.date,
			da.notes,
			da.created_at,
			da.version,
			ts.id,
			ts.start_time,
			ts.end_time,
			ts.status
		FROM day_availabilities da
		LEFT JOIN availability_time_slots ts ON da.id = ts.day_availability_id
		WHERE da.employee_id = $1 AND da.date BETWEEN $2 AND $3
		ORDER BY da.date, ts.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, employeeID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	daysMap := make(map[int64]*domain.DayAvailability)
	order := make([]int64, 0)

	for rows.Next() {
		var row struct {
			dayID     int64
			date      time.Time
			notes     string
			createdAt time.Time
			version   int32

			slotID    sql.NullInt64
			startTime sql.NullString
			endTime   sql.NullString
			status    sql.NullString
		}

		dst := []any{
			&row.dayID,
			&row.date,
			&row.notes,
			&row.createdAt,
			&row.version,
			&row.slotID,
			&row.startTime,
			&row.endTime,
			&row.status,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		day, exists := daysMap[row.dayID]
		if !exists {
			// 说明此时是第一次查到这一天的记录，需要初始化
			day = &domain.DayAvailability{
				ID:         row.dayID,
				EmployeeID: employeeID,
				Date:       row.date.Format(dateLayout),
				Notes:      row.notes,
				CreatedAt:  row.createdAt,
				Version:    row.version,
				TimeSlots:  make([]domain.TimeSlot, 0),
			}
			daysMap[row.dayID] = day
			order = append(order, row.dayID)
		}

		if !row.slotID.Valid {
			// 理论上不会出现没有任何时间段的记录，这里只是以防万一
			continue
		}

		day.TimeSlots = append(day.TimeSlots, domain.TimeSlot{
			ID:        row.slotID.Int64,
			StartTime: row.startTime.String,
			EndTime:   row.endTime.String,
			Status:    domain.AvailabilityStatus(row.status.String),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 状态永远在读取时重新推导，不信任任何缓存值
	days := make([]*domain.DayAvailability, 0, len(order))
	for _, dayID := range order {
		day := daysMap[dayID]
		day.Status = domain.AggregateStatus(day.TimeSlots)
		days = append(days, day)
	}

	return days, nil
}
