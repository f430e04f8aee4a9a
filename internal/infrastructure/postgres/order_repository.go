package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/AgroOrdenes-api/internal/domain"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/repository"
	"github.com/jhoicas/AgroOrdenes-api/pkg/textnorm"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository (cabecera + detalles) sobre PostgreSQL.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `o.id, o.parcel_id, o.recipe_id, o.area_applied, o.created_at, o.application_date,
		COALESCE(o.operator_id, ''), o.state, o.observations, o.total_cost, o.updated_at`

func scanOrder(row pgx.Row) (*entity.Order, error) {
	var o entity.Order
	var state string
	err := row.Scan(&o.ID, &o.ParcelID, &o.RecipeID, &o.AreaApplied, &o.CreatedAt, &o.ApplicationDate,
		&o.OperatorID, &state, &o.Observations, &o.TotalCost, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if o.State, err = entity.ParseOrderState(state); err != nil {
		return nil, err
	}
	return &o, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Create inserta la cabecera y los detalles. Debe ejecutarse en una tx para que sea atómico;
// con pool, un fallo en un detalle deja la cabecera creada.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO application_orders (id, parcel_id, recipe_id, area_applied, created_at, application_date,
			operator_id, state, observations, total_cost, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.ParcelID, o.RecipeID, o.AreaApplied, o.CreatedAt, timeArg(o.ApplicationDate),
		nullable(o.OperatorID), o.State.String(), o.Observations, o.TotalCost, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", mapWriteError(err))
	}
	for i, d := range o.Details {
		_, err := r.q.Exec(ctx, `
			INSERT INTO application_order_details (id, order_id, item_id, computed_quantity, unit, unit_cost, total_cost, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			d.ID, o.ID, d.ItemID, d.ComputedQuantity, d.Unit, d.UnitCost, d.TotalCost, i,
		)
		if err != nil {
			return fmt.Errorf("insert order detail: %w", mapWriteError(err))
		}
	}
	return nil
}

func (r *OrderRepo) get(ctx context.Context, id string, forUpdate bool) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM application_orders o WHERE o.id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if err := r.loadDetails(ctx, []*entity.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

// GetByID carga la orden con detalles.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, id, false)
}

// GetForUpdate carga la orden y bloquea la cabecera (SELECT FOR UPDATE).
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.get(ctx, id, true)
}

// loadDetails completa los detalles de varias órdenes con una sola consulta.
func (r *OrderRepo) loadDetails(ctx context.Context, list []*entity.Order) error {
	if len(list) == 0 {
		return nil
	}
	byID := make(map[string]*entity.Order, len(list))
	ids := make([]string, 0, len(list))
	for _, o := range list {
		byID[o.ID] = o
		ids = append(ids, o.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, item_id, computed_quantity, unit, unit_cost, total_cost
		FROM application_order_details WHERE order_id = ANY($1)
		ORDER BY order_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list order details: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var d entity.OrderDetail
		if err := rows.Scan(&d.ID, &d.OrderID, &d.ItemID, &d.ComputedQuantity, &d.Unit, &d.UnitCost, &d.TotalCost); err != nil {
			return fmt.Errorf("scan order detail: %w", err)
		}
		if o, ok := byID[d.OrderID]; ok {
			o.Details = append(o.Details, d)
		}
	}
	return rows.Err()
}

// Update persiste solo la cabecera; los detalles no se tocan.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	query := `
		UPDATE application_orders SET area_applied = $2, application_date = $3, operator_id = $4, state = $5,
			observations = $6, total_cost = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		o.ID, o.AreaApplied, timeArg(o.ApplicationDate), nullable(o.OperatorID), o.State.String(),
		o.Observations, o.TotalCost, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", mapWriteError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la orden; los detalles caen por ON DELETE CASCADE.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM application_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) listWith(ctx context.Context, query string, args ...any) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	var out []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadDetails(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// List más recientes primero. La búsqueda de texto compara sin acentos contra observaciones,
// nombre del lote y nombre de la receta; la normalización de la columna la hace translate().
func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]*entity.Order, error) {
	var state *string
	if f.State != nil {
		s := f.State.String()
		state = &s
	}
	query := `
		SELECT ` + orderColumns + `
		FROM application_orders o
		JOIN parcels p ON p.id = o.parcel_id
		JOIN recipes rc ON rc.id = o.recipe_id
		WHERE ($1 = '' OR o.parcel_id = $1)
		  AND ($2 = '' OR o.recipe_id = $2)
		  AND ($3::text IS NULL OR o.state = $3)
		  AND ($4::timestamptz IS NULL OR o.created_at >= $4)
		  AND ($5::timestamptz IS NULL OR o.created_at <= $5)
		  AND ($6 = '' OR translate(lower(o.observations || ' ' || p.name || ' ' || rc.name),
		                            'áéíóúüñ', 'aeiouun') LIKE '%' || $6 || '%')
		ORDER BY o.created_at DESC, o.id
		LIMIT $7 OFFSET $8`
	return r.listWith(ctx, query, f.ParcelID, f.RecipeID, state, timeArg(f.From), timeArg(f.To),
		textnorm.Fold(f.SearchText), limitArg(f.Limit), f.Offset)
}

// ListAppliedByParcel historial del lote por fecha de aplicación descendente.
func (r *OrderRepo) ListAppliedByParcel(ctx context.Context, parcelID string) ([]*entity.Order, error) {
	query := `
		SELECT ` + orderColumns + ` FROM application_orders o
		WHERE o.parcel_id = $1 AND o.state = $2
		ORDER BY COALESCE(o.application_date, o.created_at) DESC, o.id`
	return r.listWith(ctx, query, parcelID, entity.OrderApplied.String())
}

// AggregateByState agrupa por estado las órdenes con fecha de aplicación en [from, to].
func (r *OrderRepo) AggregateByState(ctx context.Context, from, to time.Time) ([]repository.StateAggregate, error) {
	rows, err := r.q.Query(ctx, `
		SELECT state, count(*), COALESCE(sum(total_cost), 0), COALESCE(sum(area_applied), 0)
		FROM application_orders
		WHERE application_date BETWEEN $1 AND $2
		GROUP BY state`, from, to)
	if err != nil {
		return nil, fmt.Errorf("aggregate orders: %w", err)
	}
	defer rows.Close()
	var out []repository.StateAggregate
	for rows.Next() {
		var name string
		a := repository.StateAggregate{TotalCost: decimal.Zero, TotalArea: decimal.Zero}
		if err := rows.Scan(&name, &a.Count, &a.TotalCost, &a.TotalArea); err != nil {
			return nil, err
		}
		if a.State, err = entity.ParseOrderState(name); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *OrderRepo) CountOpenByItem(ctx context.Context, itemID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		SELECT count(DISTINCT o.id)
		FROM application_orders o JOIN application_order_details d ON d.order_id = o.id
		WHERE d.item_id = $1 AND o.state <> $2`, itemID, entity.OrderCancelled.String()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count open orders by item: %w", err)
	}
	return n, nil
}
