package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jwalitptl/hms-api/internal/model"
)

type clientRepository struct {
	*Store
}

func (r *clientRepository) Create(ctx context.Context, c *model.Client) (err error) {
	defer r.observe("clients.create", time.Now(), &err)

	query := r.rebind(`
		INSERT INTO clients (id, name, age, contact, email, last_visit)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if _, err = r.db.ExecContext(ctx, query, c.ID, c.Name, c.Age, c.Contact, c.Email, c.LastVisit); err != nil {
		return r.insertErr("client", c.ID, err)
	}
	return nil
}

func (r *clientRepository) Get(ctx context.Context, id int64) (_ *model.Client, err error) {
	defer r.observe("clients.get", time.Now(), &err)

	query := r.rebind(`
		SELECT id, name, age, contact, email, last_visit
		FROM clients
		WHERE id = ?
	`)
	var client model.Client
	if err = r.db.GetContext(ctx, &client, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &client, nil
}

func (r *clientRepository) List(ctx context.Context) (out []*model.Client, err error) {
	defer r.observe("clients.list", time.Now(), &err)

	query := `
		SELECT id, name, age, contact, email, last_visit
		FROM clients
		ORDER BY id ASC
	`
	out = []*model.Client{}
	if err = r.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return out, nil
}
