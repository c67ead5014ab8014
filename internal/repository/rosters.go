package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

// CreateRoster 在一个事务中插入整张班表
// 部门、子部门和班次都是班表的组成部分，不会脱离班表单独存在，
// 所以这里一次性把整棵结构写入，日期冲突交给唯一约束处理
func (r *Repository) CreateRoster(roster *domain.Roster) error {
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
		INSERT INTO rosters (date)
		VALUES ($1)
		RETURNING id, published, created_at, version
	`
	if err := tx.QueryRowContext(ctx, query, roster.Date).Scan(&roster.ID, &roster.Published, &roster.CreatedAt, &roster.Version); err != nil {
		return err
	}

	for gi := range roster.Groups {
		group := &roster.Groups[gi]

		query = `
			INSERT INTO roster_groups (roster_id, name, color)
			VALUES ($1, $2, $3)
			RETURNING id
		`
		if err := tx.QueryRowContext(ctx, query, roster.ID, group.Name, group.Color).Scan(&group.ID); err != nil {
			return err
		}

		for si := range group.SubGroups {
			subGroup := &group.SubGroups[si]

			query = `
				INSERT INTO roster_sub_groups (group_id, name)
				VALUES ($1, $2)
				RETURNING id
			`
			if err := tx.QueryRowContext(ctx, query, group.ID, subGroup.Name).Scan(&subGroup.ID); err != nil {
				return err
			}

			for shi := range subGroup.Shifts {
				shift := &subGroup.Shifts[shi]

				// filled 跟随 employee_id 推导，建表时预先分配的班次同样算已值守
				query = `
					INSERT INTO shifts (sub_group_id, role, start_time, end_time, break_duration, remuneration_level, employee_id, filled)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $7 IS NOT NULL)
					RETURNING id, filled, version
				`
				args := []any{subGroup.ID, shift.Role, shift.StartTime, shift.EndTime, shift.BreakDuration, shift.RemunerationLevel, shift.EmployeeID}
				if err := tx.QueryRowContext(ctx, query, args...).Scan(&shift.ID, &shift.Filled, &shift.Version); err != nil {
					return err
				}
			}
		}
	}

	return tx.Commit()
}

// scanRosterRows 把三层 LEFT JOIN 的结果组装成班表列表
// 依赖 ORDER BY ro.date, g.id, sg.id, s.id 保证同一层级内的顺序稳定
// 组装期间各层节点都只通过指针持有，最后才拷贝进父节点的切片，
// 避免一边追加一边持有切片元素指针
func scanRosterRows(rows *sql.Rows) ([]*domain.Roster, error) {
	rostersMap := make(map[int64]*domain.Roster)
	groupsMap := make(map[int64]*domain.Group)
	subGroupsMap := make(map[int64]*domain.SubGroup)

	order := make([]int64, 0)
	groupOrder := make(map[int64][]int64)    // 班表 ID -> 部门 ID 列表
	subGroupOrder := make(map[int64][]int64) // 部门 ID -> 子部门 ID 列表

	for rows.Next() {
		var row struct {
			rosterID  int64
			date      time.Time
			published bool
			createdAt time.Time
			version   int32

			groupID    sql.NullInt64
			groupName  sql.NullString
			groupColor sql.NullString

			subGroupID   sql.NullInt64
			subGroupName sql.NullString

			shiftID           sql.NullInt64
			shiftRole         sql.NullString
			startTime         sql.NullString
			endTime           sql.NullString
			breakDuration     sql.NullString
			remunerationLevel sql.NullInt32
			employeeID        sql.NullInt64
			filled            sql.NullBool
			shiftVersion      sql.NullInt32
		}

		dst := []any{
			&row.rosterID,
			&row.date,
			&row.published,
			&row.createdAt,
			&row.version,
			&row.groupID,
			&row.groupName,
			&row.groupColor,
			&row.subGroupID,
			&row.subGroupName,
			&row.shiftID,
			&row.shiftRole,
			&row.startTime,
			&row.endTime,
			&row.breakDuration,
			&row.remunerationLevel,
			&row.employeeID,
			&row.filled,
			&row.shiftVersion,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if _, exists := rostersMap[row.rosterID]; !exists {
			rostersMap[row.rosterID] = &domain.Roster{
				ID:        row.rosterID,
				Date:      row.date.Format(dateLayout),
				Published: row.published,
				CreatedAt: row.createdAt,
				Version:   row.version,
				Groups:    make([]domain.Group, 0),
			}
			order = append(order, row.rosterID)
		}

		if !row.groupID.Valid {
			continue
		}

		if _, exists := groupsMap[row.groupID.Int64]; !exists {
			groupsMap[row.groupID.Int64] = &domain.Group{
				ID:        row.groupID.Int64,
				Name:      row.groupName.String,
				Color:     row.groupColor.String,
				SubGroups: make([]domain.SubGroup, 0),
			}
			groupOrder[row.rosterID] = append(groupOrder[row.rosterID], row.groupID.Int64)
		}

		if !row.subGroupID.Valid {
			continue
		}

		subGroup, exists := subGroupsMap[row.subGroupID.Int64]
		if !exists {
			subGroup = &domain.SubGroup{
				ID:     row.subGroupID.Int64,
				Name:   row.subGroupName.String,
				Shifts: make([]domain.Shift, 0),
			}
			subGroupsMap[row.subGroupID.Int64] = subGroup
			subGroupOrder[row.groupID.Int64] = append(subGroupOrder[row.groupID.Int64], row.subGroupID.Int64)
		}

		if !row.shiftID.Valid {
			continue
		}

		shift := domain.Shift{
			ID:                row.shiftID.Int64,
			Role:              row.shiftRole.String,
			StartTime:         row.startTime.String,
			EndTime:           row.endTime.String,
			BreakDuration:     row.breakDuration.String,
			RemunerationLevel: row.remunerationLevel.Int32,
			Filled:            row.filled.Bool,
			Version:           row.shiftVersion.Int32,
		}
		if row.employeeID.Valid {
			employeeID := row.employeeID.Int64
			shift.EmployeeID = &employeeID
		}
		subGroup.Shifts = append(subGroup.Shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	rosters := make([]*domain.Roster, 0, len(order))
	for _, rosterID := range order {
		roster := rostersMap[rosterID]
		for _, groupID := range groupOrder[rosterID] {
			group := groupsMap[groupID]
			for _, subGroupID := range subGroupOrder[groupID] {
				group.SubGroups = append(group.SubGroups, *subGroupsMap[subGroupID])
			}
			roster.Groups = append(roster.Groups, *group)
		}
		rosters = append(rosters, roster)
	}

	return rosters, nil
}

const rosterSelectColumns = `
	ro.id,
	ro.date,
	ro.published,
	ro.created_at,
	ro.version,
	g.id,
	g.name,
	g.color,
	sg.id,
	sg.name,
	s.id,
	s.role,
	s.start_time,
	s.end_time,
	s.break_duration,
	s.remuneration_level,
	s.employee_id,
	s.filled,
	s.version
`

const rosterJoins = `
	FROM rosters ro
	LEFT JOIN roster_groups g ON ro.id = g.roster_id
	LEFT JOIN roster_sub_groups sg ON g.id = sg.group_id
	LEFT JOIN shifts s ON sg.id = s.sub_group_id
`

func (r *Repository) GetRosterByDate(date string) (*domain.Roster, error) {
	query := `SELECT` + rosterSelectColumns + rosterJoins + `
		WHERE ro.date = $1
		ORDER BY g.id, sg.id, s.id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rosters, err := scanRosterRows(rows)
	if err != nil {
		return nil, err
	}
	if len(rosters) == 0 {
		return nil, sql.ErrNoRows
	}

	return rosters[0], nil
}

func (r *Repository) GetRostersByDateRange(startDate string, endDate string) ([]*domain.Roster, error) {
	query := `SELECT` + rosterSelectColumns + rosterJoins + `
		WHERE ro.date BETWEEN $1 AND $2
		ORDER BY ro.date, g.id, sg.id, s.id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRosterRows(rows)
}

func (r *Repository) PublishRoster(roster *domain.Roster) error {
	query := `
		UPDATE rosters
		SET published = true, version = version + 1
		WHERE id = $1 AND version = $2
		RETURNING published, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, roster.ID, roster.Version).Scan(&roster.Published, &roster.Version); err != nil {
		return err
	}

	return nil
}

// GetShiftInRoster 返回班次，同时校验它确实属于指定的班表
// 不做这个校验的话，拿着别的班表日期也能操作任意班次
func (r *Repository) GetShiftInRoster(rosterID int64, shiftID int64) (*domain.Shift, error) {
	query := `
		SELECT s.role, s.start_time, s.end_time, s.break_duration, s.remuneration_level, s.employee_id, s.filled, s.version
		FROM shifts s
		JOIN roster_sub_groups sg ON s.sub_group_id = sg.id
		JOIN roster_groups g ON sg.group_id = g.id
		WHERE s.id = $1 AND g.roster_id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	shift := &domain.Shift{
		ID: shiftID,
	}

	var employeeID sql.NullInt64
	dst := []any{&shift.Role, &shift.StartTime, &shift.EndTime, &shift.BreakDuration, &shift.RemunerationLevel, &employeeID, &shift.Filled, &shift.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, shiftID, rosterID).Scan(dst...); err != nil {
		return nil, err
	}

	if employeeID.Valid {
		id := employeeID.Int64
		shift.EmployeeID = &id
	}

	return shift, nil
}

// AssignShift 设置或清除班次的值守员工，employeeID 为 nil 表示清除
// filled 永远跟随 employee_id 推导，不接受外部传入
func (r *Repository) AssignShift(rosterID int64, shiftID int64, employeeID *int64) (*domain.Shift, error) {
	query := `
		UPDATE shifts s
		SET employee_id = $1, filled = ($1 IS NOT NULL), version = s.version + 1
		FROM roster_sub_groups sg, roster_groups g
		WHERE s.id = $2
			AND s.sub_group_id = sg.id
			AND sg.group_id = g.id
			AND g.roster_id = $3
		RETURNING s.role, s.start_time, s.end_time, s.break_duration, s.remuneration_level, s.employee_id, s.filled, s.version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	shift := &domain.Shift{
		ID: shiftID,
	}

	var assigned sql.NullInt64
	dst := []any{&shift.Role, &shift.StartTime, &shift.EndTime, &shift.BreakDuration, &shift.RemunerationLevel, &assigned, &shift.Filled, &shift.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, employeeID, shiftID, rosterID).Scan(dst...); err != nil {
		return nil, err
	}

	if assigned.Valid {
		id := assigned.Int64
		shift.EmployeeID = &id
	}

	return shift, nil
}

func (r *Repository) UpdateShift(rosterID int64, shift *domain.Shift) error {
	query := `
		UPDATE shifts s
		SET
			role = $1,
			start_time = $2,
			end_time = $3,
			break_duration = $4,
			remuneration_level = $5,
			version = s.version + 1
		FROM roster_sub_groups sg, roster_groups g
		WHERE s.id = $6
			AND s.version = $7
			AND s.sub_group_id = sg.id
			AND sg.group_id = g.id
			AND g.roster_id = $8
		RETURNING s.employee_id, s.filled, s.version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{shift.Role, shift.StartTime, shift.EndTime, shift.BreakDuration, shift.RemunerationLevel, shift.ID, shift.Version, rosterID}

	var employeeID sql.NullInt64
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&employeeID, &shift.Filled, &shift.Version); err != nil {
		return err
	}

	if employeeID.Valid {
		id := employeeID.Int64
		shift.EmployeeID = &id
	} else {
		shift.EmployeeID = nil
	}

	return nil
}

func (r *Repository) RemoveShift(rosterID int64, shiftID int64) error {
	query := `
		DELETE FROM shifts s
		USING roster_sub_groups sg, roster_groups g
		WHERE s.id = $1
			AND s.sub_group_id = sg.id
			AND sg.group_id = g.id
			AND g.roster_id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, shiftID, rosterID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}

	return nil
}
