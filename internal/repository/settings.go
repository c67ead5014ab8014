package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const dateLayout = "2006-01-02"

// GetCutoffDate 返回组织级别的锁定日期，没有设置时返回 nil（表示没有任何日期被锁定）
func (r *Repository) GetCutoffDate() (*string, error) {
	query := `
		SELECT cutoff_date FROM organization_settings WHERE id = 1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var cutoff sql.NullTime
	if err := r.dbpool.QueryRowContext(ctx, query).Scan(&cutoff); err != nil {
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

// UpdateCutoffDate 设置锁定日期，传入 nil 表示清除锁定
func (r *Repository) UpdateCutoffDate(date *string) error {
	query := `
		INSERT INTO organization_settings (id, cutoff_date)
		VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET cutoff_date = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, date); err != nil {
		return err
	}

	return nil
}
