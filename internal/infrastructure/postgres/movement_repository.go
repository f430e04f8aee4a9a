package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación append-only de MovementRepository (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, item_id, type, quantity, unit_cost, total_cost, stock_before, stock_after,
		reason, reference, created_by, created_at`

func scanMovement(row pgx.Row) (*entity.Movement, error) {
	var m entity.Movement
	var typ string
	err := row.Scan(&m.ID, &m.ItemID, &typ, &m.Quantity, &m.UnitCost, &m.TotalCost, &m.StockBefore, &m.StockAfter,
		&m.Reason, &m.Reference, &m.CreatedBy, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	if m.Type, err = entity.ParseMovementType(typ); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create registra un movimiento dentro de la transacción actual.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO inventory_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ItemID, m.Type.String(), m.Quantity, m.UnitCost, m.TotalCost, m.StockBefore, m.StockAfter,
		m.Reason, m.Reference, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", mapWriteError(err))
	}
	return nil
}

func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, `SELECT `+movementColumns+` FROM inventory_movements WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// List más recientes primero.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	var typ *string
	if f.Type != nil {
		s := f.Type.String()
		typ = &s
	}
	query := `
		SELECT ` + movementColumns + ` FROM inventory_movements
		WHERE ($1 = '' OR item_id = $1)
		  AND ($2::text IS NULL OR type = $2)
		  AND ($3::timestamptz IS NULL OR created_at >= $3)
		  AND ($4::timestamptz IS NULL OR created_at <= $4)
		ORDER BY created_at DESC, id
		LIMIT $5 OFFSET $6`
	rows, err := r.q.Query(ctx, query, f.ItemID, typ, timeArg(f.From), timeArg(f.To), limitArg(f.Limit), f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var out []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *MovementRepo) CountByItem(ctx context.Context, itemID string) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM inventory_movements WHERE item_id = $1`, itemID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count movements: %w", err)
	}
	return n, nil
}

func (r *MovementRepo) ConsumptionByItem(ctx context.Context, from, to time.Time) (map[string]decimal.Decimal, error) {
	query := `
		SELECT item_id, sum(quantity) FROM inventory_movements
		WHERE type = $1 AND created_at BETWEEN $2 AND $3
		GROUP BY item_id`
	rows, err := r.q.Query(ctx, query, entity.MovementExit.String(), from, to)
	if err != nil {
		return nil, fmt.Errorf("consumption by item: %w", err)
	}
	defer rows.Close()
	out := map[string]decimal.Decimal{}
	for rows.Next() {
		var id string
		var qty decimal.Decimal
		if err := rows.Scan(&id, &qty); err != nil {
			return nil, err
		}
		out[id] = qty
	}
	return out, rows.Err()
}
