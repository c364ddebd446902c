// Package sqlxrepos implements the persistence interfaces on postgres
// via sqlx. Constructors take *sqlx.DB; the co-op repository additionally
// supports transaction-bound copies through Transact.
package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/cecscoop/portal/core"
)

// trapNoRowsErr maps psql "no rows" err to the aggregate's not-found sentinel.
func trapNoRowsErr(err, notFound error, msg string) error {
	if err == sql.ErrNoRows {
		return notFound
	}
	return errors.Wrap(err, msg)
}

// idGenerator issues sequential human-facing IDs from the id_counters table.
// The upsert takes a row lock, so concurrent registrations serialize and no
// sequence number is issued twice.
type idGenerator struct {
	db *sqlx.DB
}

var _ core.IDGenerator = (*idGenerator)(nil)

func NewIDGenerator(db *sqlx.DB) *idGenerator {
	return &idGenerator{db: db}
}

func (g *idGenerator) NextID(ctx context.Context, prefix string) (string, error) {
	q := `INSERT INTO id_counters (prefix, year, seq) VALUES ($1, $2, 1)
		ON CONFLICT (prefix, year) DO UPDATE SET seq = id_counters.seq + 1
		RETURNING seq`

	year := core.IDYear()
	var seq int
	if err := sqlx.GetContext(ctx, g.db, &seq, q, prefix, year); err != nil {
		return "", errors.Wrap(err, "issuing ID")
	}
	return core.FormatID(prefix, year, seq), nil
}

// outbox reads and acknowledges staged notification events.
type outbox struct {
	db *sqlx.DB
}

var _ core.Outbox = (*outbox)(nil)

func NewOutbox(db *sqlx.DB) *outbox {
	return &outbox{db: db}
}

func (o *outbox) PendingEvents(ctx context.Context, limit int) ([]core.Event, error) {
	q := `SELECT * FROM outbox_events WHERE status = $1 ORDER BY created_at LIMIT $2`

	events := make([]core.Event, 0, limit)
	if err := sqlx.SelectContext(ctx, o.db, &events, q, core.EventPending, limit); err != nil {
		return nil, errors.Wrap(err, "querying pending events")
	}
	return events, nil
}

func (o *outbox) MarkEventSent(ctx context.Context, id string) error {
	q := `UPDATE outbox_events SET status = $1, sent_at = now() WHERE id = $2`
	_, err := o.db.ExecContext(ctx, q, core.EventSent, id)
	return errors.Wrap(err, "marking event sent")
}

func (o *outbox) MarkEventFailed(ctx context.Context, id string) error {
	q := `UPDATE outbox_events SET status = $1 WHERE id = $2`
	_, err := o.db.ExecContext(ctx, q, core.EventFailed, id)
	return errors.Wrap(err, "marking event failed")
}
