package orders_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/AgroOrdenes-api/internal/application/orders"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain"
)

type captureGenerator struct {
	sheet orders.OrderSheet
	err   error
}

func (g *captureGenerator) GenerateOrderSheet(_ context.Context, sheet orders.OrderSheet) ([]byte, error) {
	g.sheet = sheet
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-stub"), nil
}

func TestDownloadOrderSheet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.item(t, "HJ-1", "100", "5")
	b := f.item(t, "HJ-2", "100", "2")
	f.recipe("R", a, "2", b, "0.5")
	o := f.create(t, "R", "10")

	gen := &captureGenerator{}
	uc := orders.NewSheetUseCase(f.store.Orders(), f.store.Items(), f.store.Recipes(), f.store.Parcels(), f.store.Users(), gen)

	pdf, name, err := uc.DownloadOrderSheet(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-stub", string(pdf))
	assert.True(t, strings.HasPrefix(name, "orden_"+o.ID[:8]))
	assert.True(t, strings.HasSuffix(name, ".pdf"))

	s := gen.sheet
	assert.Equal(t, "Lote Norte", s.Parcel.Name)
	require.NotNil(t, s.Operator)
	assert.Equal(t, "Pedro", s.Operator.Name)
	require.Len(t, s.Lines, 2)
	assert.Equal(t, 1, s.Lines[0].Sequence)
	assert.Equal(t, "HJ-1", s.Lines[0].ItemCode)
	assert.True(t, s.Lines[0].Dose.Equal(dec("2")))
	assert.True(t, s.Lines[0].Quantity.Equal(dec("20")))
	assert.True(t, s.Lines[1].TotalCost.Equal(dec("10")))

	_, _, err = uc.DownloadOrderSheet(ctx, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	gen.err = errors.New("fuente no disponible")
	_, _, err = uc.DownloadOrderSheet(ctx, o.ID)
	assert.Error(t, err)
}
