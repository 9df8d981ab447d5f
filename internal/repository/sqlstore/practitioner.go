package sqlstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/hms-api/internal/model"
)

type practitionerRepository struct {
	*Store
}

func (r *practitionerRepository) Create(ctx context.Context, p *model.Practitioner) (err error) {
	defer r.observe("practitioners.create", time.Now(), &err)

	query := r.rebind(`
		INSERT INTO practitioners (id, name, specialization, contact, email)
		VALUES (?, ?, ?, ?, ?)
	`)
	if _, err = r.db.ExecContext(ctx, query, p.ID, p.Name, p.Specialization, p.Contact, p.Email); err != nil {
		return r.insertErr("practitioner", p.ID, err)
	}
	return nil
}

func (r *practitionerRepository) List(ctx context.Context) (out []*model.Practitioner, err error) {
	defer r.observe("practitioners.list", time.Now(), &err)

	query := `
		SELECT id, name, specialization, contact, email
		FROM practitioners
		ORDER BY id ASC
	`
	out = []*model.Practitioner{}
	if err = r.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("failed to list practitioners: %w", err)
	}
	return out, nil
}

func (r *practitionerRepository) Delete(ctx context.Context, id int64) (found bool, err error) {
	defer r.observe("practitioners.delete", time.Now(), &err)

	result, err := r.db.ExecContext(ctx, r.rebind(`DELETE FROM practitioners WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete practitioner: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}
