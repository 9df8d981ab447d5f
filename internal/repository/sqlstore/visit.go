package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jwalitptl/hms-api/internal/model"
)

const visitColumns = `id, client_name, client_id, practitioner_name, practitioner_id,
	visit_date, visit_time, reason, status`

type visitRepository struct {
	*Store
}

func (r *visitRepository) Create(ctx context.Context, v *model.Visit) (err error) {
	defer r.observe("visits.create", time.Now(), &err)

	query := r.rebind(`
		INSERT INTO visits (` + visitColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err = r.db.ExecContext(ctx, query,
		v.ID,
		v.ClientName,
		v.ClientID,
		v.PractitionerName,
		v.PractitionerID,
		v.Date,
		v.Time,
		v.Reason,
		v.Status,
	)
	if err != nil {
		return r.insertErr("visit", v.ID, err)
	}
	return nil
}

func (r *visitRepository) Get(ctx context.Context, id int64) (_ *model.Visit, err error) {
	defer r.observe("visits.get", time.Now(), &err)

	query := r.rebind(`SELECT ` + visitColumns + ` FROM visits WHERE id = ?`)
	var visit model.Visit
	if err = r.db.GetContext(ctx, &visit, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get visit: %w", err)
	}
	return &visit, nil
}

func (r *visitRepository) List(ctx context.Context) (out []*model.Visit, err error) {
	defer r.observe("visits.list", time.Now(), &err)

	out = []*model.Visit{}
	if err = r.db.SelectContext(ctx, &out, `SELECT `+visitColumns+` FROM visits ORDER BY id ASC`); err != nil {
		return nil, fmt.Errorf("failed to list visits: %w", err)
	}
	return out, nil
}

func (r *visitRepository) Delete(ctx context.Context, id int64) (found bool, err error) {
	defer r.observe("visits.delete", time.Now(), &err)

	result, err := r.db.ExecContext(ctx, r.rebind(`DELETE FROM visits WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete visit: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// UpdateStatus runs the update and the read back in one transaction so the
// returned record is the one the update produced.
func (r *visitRepository) UpdateStatus(ctx context.Context, id int64, status model.VisitStatus) (_ *model.Visit, err error) {
	defer r.observe("visits.update_status", time.Now(), &err)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	result, err := tx.ExecContext(ctx, r.rebind(`UPDATE visits SET status = ? WHERE id = ?`), status, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update visit status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return nil, tx.Commit()
	}

	var visit model.Visit
	if err = tx.GetContext(ctx, &visit, r.rebind(`SELECT `+visitColumns+` FROM visits WHERE id = ?`), id); err != nil {
		return nil, fmt.Errorf("failed to read updated visit: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit visit status: %w", err)
	}
	return &visit, nil
}
