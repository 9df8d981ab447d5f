package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jwalitptl/hms-api/internal/model"
)

type sessionRepository struct {
	*Store
}

func (r *sessionRepository) Get(ctx context.Context) (_ *model.SessionIdentity, err error) {
	defer r.observe("session_identity.get", time.Now(), &err)

	var identity model.SessionIdentity
	err = r.db.GetContext(ctx, &identity, `SELECT id, name, email FROM session_identity WHERE slot = 1`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session identity: %w", err)
	}
	return &identity, nil
}

func (r *sessionRepository) Put(ctx context.Context, identity *model.SessionIdentity) (err error) {
	defer r.observe("session_identity.put", time.Now(), &err)

	query := r.rebind(`
		INSERT INTO session_identity (slot, id, name, email)
		VALUES (1, ?, ?, ?)
		ON CONFLICT (slot) DO UPDATE
		SET id = excluded.id, name = excluded.name, email = excluded.email
	`)
	if _, err = r.db.ExecContext(ctx, query, identity.ID, identity.Name, identity.Email); err != nil {
		return fmt.Errorf("failed to put session identity: %w", err)
	}
	return nil
}
