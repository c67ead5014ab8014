package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/sysu-ecnc-dev/shift-roster/backend/internal/domain"
)

func (r *Repository) CreatePreset(preset *domain.AvailabilityPreset) error {
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
		INSERT INTO availability_presets (name)
		VALUES ($1)
		RETURNING id, created_at, version
	`
	if err := tx.QueryRowContext(ctx, query, preset.Name).Scan(&preset.ID, &preset.CreatedAt, &preset.Version); err != nil {
		return err
	}

	for _, slot := range preset.Slots {
		query = `
			INSERT INTO availability_preset_slots (preset_id, start_time, end_time, status)
			VALUES ($1, $2, $3, $4)
		`
		status := slot.Status
		if status == "" {
			status = domain.StatusAvailable
		}
		if _, err := tx.ExecContext(ctx, query, preset.ID, slot.StartTime, slot.EndTime, status); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *Repository) GetAllPresets() ([]*domain.AvailabilityPreset, error) {
	query := `
		SELECT
			p.id,
			p.name,
			p.created_at,
			p.version,
			ps.start_time,
			ps.end_time,
			ps.status
		FROM availability_presets p
		LEFT JOIN availability_preset_slots ps ON p.id = ps.preset_id
		ORDER BY p.id, ps.id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	presetsMap := make(map[int64]*domain.AvailabilityPreset)
	order := make([]int64, 0)

	for rows.Next() {
		var row struct {
			id        int64
			name      string
			createdAt time.Time
			version   int32

			startTime sql.NullString
			endTime   sql.NullString
			status    sql.NullString
		}

		dst := []any{&row.id, &row.name, &row.createdAt, &row.version, &row.startTime, &row.endTime, &row.status}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		preset, exists := presetsMap[row.id]
		if !exists {
			preset = &domain.AvailabilityPreset{
				ID:        row.id,
				Name:      row.name,
				CreatedAt: row.createdAt,
				Version:   row.version,
				Slots:     make([]domain.PresetSlot, 0),
			}
			presetsMap[row.id] = preset
			order = append(order, row.id)
		}

		if !row.startTime.Valid {
			// 允许存在没有任何时间段的空模板
			continue
		}

		preset.Slots = append(preset.Slots, domain.PresetSlot{
			StartTime: row.startTime.String,
			EndTime:   row.endTime.String,
			Status:    domain.AvailabilityStatus(row.status.String),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	presets := make([]*domain.AvailabilityPreset, 0, len(order))
	for _, id := range order {
		presets = append(presets, presetsMap[id])
	}

	return presets, nil
}

// GetPresetByID 返回模板及其全部时间段，模板不存在时返回 domain.ErrPresetNotFound
func (r *Repository) GetPresetByID(id int64) (*domain.AvailabilityPreset, error) {
	query := `
		SELECT
			p.name,
			p.created_at,
			p.version,
			ps.start_time,
			ps.end_time,
			ps.status
		FROM availability_presets p
		LEFT JOIN availability_preset_slots ps ON p.id = ps.preset_id
		WHERE p.id = $1
		ORDER BY ps.id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var preset *domain.AvailabilityPreset

	for rows.Next() {
		var row struct {
			name      string
			createdAt time.Time
			version   int32

			startTime sql.NullString
			endTime   sql.NullString
			status    sql.NullString
		}

		dst := []any{&row.name, &row.createdAt, &row.version, &row.startTime, &row.endTime, &row.status}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		if preset == nil {
			preset = &domain.AvailabilityPreset{
				ID:        id,
				Name:      row.name,
				CreatedAt: row.createdAt,
				Version:   row.version,
				Slots:     make([]domain.PresetSlot, 0),
			}
		}

		if !row.startTime.Valid {
			continue
		}

		preset.Slots = append(preset.Slots, domain.PresetSlot{
			StartTime: row.startTime.String,
			EndTime:   row.endTime.String,
			Status:    domain.AvailabilityStatus(row.status.String),
		})
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if preset == nil {
		return nil, domain.ErrPresetNotFound
	}

	return preset, nil
}

// UpdatePreset 只允许修改模板名称，时间段列表是不可变的（需要修改时删除重建）
func (r *Repository) UpdatePreset(preset *domain.AvailabilityPreset) error {
	query := `
		UPDATE availability_presets
		SET name = $1, version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{preset.Name, preset.ID, preset.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&preset.CreatedAt, &preset.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeletePreset(id int64) error {
	query := `
		DELETE FROM availability_presets WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	result, err := r.dbpool.ExecContext(ctx, query, id)
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
