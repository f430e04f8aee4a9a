package repository

import (
	"context"

	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
)

// AlertRepository puerto de persistencia de alertas vigentes.
type AlertRepository interface {
	// ReplaceForItem borra las alertas del insumo e inserta las nuevas (en la misma tx).
	ReplaceForItem(ctx context.Context, itemID string, alerts []entity.Alert) error
	List(ctx context.Context, read *bool, limit, offset int) ([]*entity.Alert, error)
	ListByItem(ctx context.Context, itemID string) ([]*entity.Alert, error)
	MarkRead(ctx context.Context, id string) error
	CountUnread(ctx context.Context) (int, error)
}
