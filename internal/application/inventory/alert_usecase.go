package inventory

import (
	"context"

	"github.com/jhoicas/AgroOrdenes-api/internal/application/dto"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/repository"
)

// AlertUseCase consulta y marca alertas. Las alertas solo se generan desde el Ledger.
type AlertUseCase struct {
	alertRepo repository.AlertRepository
}

func NewAlertUseCase(alertRepo repository.AlertRepository) *AlertUseCase {
	return &AlertUseCase{alertRepo: alertRepo}
}

// List lista alertas; read nil devuelve leídas y no leídas.
func (uc *AlertUseCase) List(ctx context.Context, read *bool, page dto.PageRequest) (*dto.AlertListResponse, error) {
	page.DefaultPage()
	list, err := uc.alertRepo.List(ctx, read, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AlertResponse, 0, len(list))
	for _, a := range list {
		items = append(items, toAlertResponse(a))
	}
	return &dto.AlertListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// MarkRead marca la alerta como leída. ErrNotFound si no existe.
func (uc *AlertUseCase) MarkRead(ctx context.Context, id string) error {
	return uc.alertRepo.MarkRead(ctx, id)
}
