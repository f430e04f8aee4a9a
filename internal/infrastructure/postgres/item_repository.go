package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/AgroOrdenes-api/internal/domain"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool o tx).
type ItemRepo struct {
	q Querier
}

// NewItemRepository construye el adaptador de insumos. Pasar pool o tx (Querier).
func NewItemRepository(q Querier) *ItemRepo {
	return &ItemRepo{q: q}
}

const itemColumns = `id, code, name, category, unit, stock_current, stock_min, stock_max, unit_cost, total_value,
		expiration_date, status, active, search_key, created_at, updated_at`

func scanItem(row pgx.Row) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	var status string
	err := row.Scan(
		&it.ID, &it.Code, &it.Name, &it.Category, &it.Unit, &it.StockCurrent, &it.StockMin, &it.StockMax,
		&it.UnitCost, &it.TotalValue, &it.ExpirationDate, &status, &it.Active, &it.SearchKey,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if it.Status, err = entity.ParseItemStatus(status); err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *ItemRepo) getOne(ctx context.Context, query, op string, args ...any) (*entity.InventoryItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return it, nil
}

func (r *ItemRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.InventoryItem, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	var out []*entity.InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%s scan: %w", op, err)
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Create persiste un nuevo insumo. Un código repetido es ErrDuplicate.
func (r *ItemRepo) Create(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		INSERT INTO inventory_items (` + itemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		item.ID, item.Code, item.Name, item.Category, item.Unit, item.StockCurrent, item.StockMin, item.StockMax,
		item.UnitCost, item.TotalValue, timeArg(item.ExpirationDate), item.Status.String(), item.Active,
		item.SearchKey, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetByID obtiene un insumo por ID.
func (r *ItemRepo) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, "get item", id)
}

// GetByCode obtiene un insumo por su código único.
func (r *ItemRepo) GetByCode(ctx context.Context, code string) (*entity.InventoryItem, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE code = $1`, "get item by code", code)
}

// GetForUpdate obtiene el insumo y bloquea la fila para update (SELECT FOR UPDATE).
func (r *ItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.getOne(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1 FOR UPDATE`, "get item for update", id)
}

func (r *ItemRepo) GetMany(ctx context.Context, ids []string) (map[string]*entity.InventoryItem, error) {
	out := make(map[string]*entity.InventoryItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	list, err := r.list(ctx, "get items", `SELECT `+itemColumns+` FROM inventory_items WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	for _, it := range list {
		out[it.ID] = it
	}
	return out, nil
}

func (r *ItemRepo) Update(ctx context.Context, item *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items SET name = $2, category = $3, unit = $4, stock_current = $5, stock_min = $6,
			stock_max = $7, unit_cost = $8, total_value = $9, expiration_date = $10, status = $11, active = $12,
			search_key = $13, updated_at = $14
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		item.ID, item.Name, item.Category, item.Unit, item.StockCurrent, item.StockMin, item.StockMax,
		item.UnitCost, item.TotalValue, timeArg(item.ExpirationDate), item.Status.String(), item.Active,
		item.SearchKey, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List filtra por activo, categoría y estado; ordenado por código.
func (r *ItemRepo) List(ctx context.Context, f repository.ItemFilter) ([]*entity.InventoryItem, error) {
	var status *string
	if f.Status != nil {
		s := f.Status.String()
		status = &s
	}
	query := `
		SELECT ` + itemColumns + ` FROM inventory_items
		WHERE ($1::boolean IS NULL OR active = $1)
		  AND ($2 = '' OR lower(category) = lower($2))
		  AND ($3::text IS NULL OR status = $3)
		ORDER BY code
		LIMIT $4 OFFSET $5`
	return r.list(ctx, "list items", query, f.Active, f.Category, status, limitArg(f.Limit), f.Offset)
}

// Search busca sobre la clave normalizada (código + nombre sin acentos).
func (r *ItemRepo) Search(ctx context.Context, searchKey string, limit int) ([]*entity.InventoryItem, error) {
	query := `
		SELECT ` + itemColumns + ` FROM inventory_items
		WHERE search_key LIKE '%' || $1 || '%'
		ORDER BY code
		LIMIT $2`
	return r.list(ctx, "search items", query, searchKey, limitArg(limit))
}

func (r *ItemRepo) ListActiveIDs(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT id FROM inventory_items WHERE active ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("list active items: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// Delete borra el insumo; si tiene movimientos o detalles de órdenes la FK lo impide (ErrConflict).
func (r *ItemRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ItemRepo) CountByStatus(ctx context.Context) ([]repository.StatusCount, error) {
	rows, err := r.q.Query(ctx, `SELECT status, count(*) FROM inventory_items WHERE active GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("count items by status: %w", err)
	}
	defer rows.Close()
	var out []repository.StatusCount
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		st, err := entity.ParseItemStatus(name)
		if err != nil {
			return nil, err
		}
		out = append(out, repository.StatusCount{Status: st, Count: n})
	}
	return out, rows.Err()
}

func (r *ItemRepo) Totals(ctx context.Context) (total, active int, value decimal.Decimal, err error) {
	query := `
		SELECT count(*), count(*) FILTER (WHERE active), COALESCE(sum(total_value) FILTER (WHERE active), 0)
		FROM inventory_items`
	if err = r.q.QueryRow(ctx, query).Scan(&total, &active, &value); err != nil {
		return 0, 0, decimal.Zero, fmt.Errorf("inventory totals: %w", err)
	}
	return total, active, value, nil
}
