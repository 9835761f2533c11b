package notify

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

// Record: idempoten per (order_id, status); redelivery event tidak bikin
// kuitansi dobel.
func (r *Repo) Record(ctx context.Context, orderID, status string) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO notifications(order_id, status)
		VALUES ($1, $2)
		ON CONFLICT (order_id, status) DO NOTHING`, orderID, status)
	return err
}
