package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/AgroOrdenes-api/internal/domain"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/repository"
)

var _ repository.AlertRepository = (*AlertRepo)(nil)

// AlertRepo implementación de AlertRepository (usable con pool o tx).
type AlertRepo struct {
	q Querier
}

func NewAlertRepository(q Querier) *AlertRepo {
	return &AlertRepo{q: q}
}

const alertColumns = `id, item_id, type, message, priority, read, created_at`

// ReplaceForItem borra las alertas vigentes del insumo e inserta las nuevas.
func (r *AlertRepo) ReplaceForItem(ctx context.Context, itemID string, alerts []entity.Alert) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM inventory_alerts WHERE item_id = $1`, itemID); err != nil {
		return fmt.Errorf("delete alerts: %w", err)
	}
	for _, a := range alerts {
		_, err := r.q.Exec(ctx,
			`INSERT INTO inventory_alerts (`+alertColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			a.ID, itemID, a.Type.String(), a.Message, a.Priority, a.Read, a.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert alert: %w", mapWriteError(err))
		}
	}
	return nil
}

func (r *AlertRepo) scan(ctx context.Context, query string, args ...any) ([]*entity.Alert, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()
	var out []*entity.Alert
	for rows.Next() {
		var a entity.Alert
		var typ string
		if err := rows.Scan(&a.ID, &a.ItemID, &typ, &a.Message, &a.Priority, &a.Read, &a.CreatedAt); err != nil {
			return nil, err
		}
		if a.Type, err = entity.ParseAlertType(typ); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// List más recientes primero, opcionalmente por estado de lectura.
func (r *AlertRepo) List(ctx context.Context, read *bool, limit, offset int) ([]*entity.Alert, error) {
	return r.scan(ctx, `
		SELECT `+alertColumns+` FROM inventory_alerts
		WHERE ($1::boolean IS NULL OR read = $1)
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`, read, limitArg(limit), offset)
}

func (r *AlertRepo) ListByItem(ctx context.Context, itemID string) ([]*entity.Alert, error) {
	return r.scan(ctx, `SELECT `+alertColumns+` FROM inventory_alerts WHERE item_id = $1 ORDER BY created_at`, itemID)
}

func (r *AlertRepo) MarkRead(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `UPDATE inventory_alerts SET read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark alert read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *AlertRepo) CountUnread(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM inventory_alerts WHERE NOT read`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count unread alerts: %w", err)
	}
	return n, nil
}
