package inventory_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/AgroOrdenes-api/internal/domain"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/inventory"
)

func TestApplyMovement(t *testing.T) {
	item := &entity.InventoryItem{ID: "i", Name: "Glifosato", StockCurrent: dec(80)}

	after, err := inventory.ApplyMovement(item, entity.MovementEntry, dec(30))
	require.NoError(t, err)
	assert.True(t, after.Equal(dec(110)))

	after, err = inventory.ApplyMovement(item, entity.MovementReturn, dec(5))
	require.NoError(t, err)
	assert.True(t, after.Equal(dec(85)))

	for _, mt := range []entity.MovementType{entity.MovementExit, entity.MovementWaste, entity.MovementTransfer} {
		after, err = inventory.ApplyMovement(item, mt, dec(80))
		require.NoError(t, err, mt.String())
		assert.True(t, after.IsZero(), mt.String())
	}

	after, err = inventory.ApplyMovement(item, entity.MovementAdjustment, dec(12.5))
	require.NoError(t, err)
	assert.True(t, after.Equal(dec(12.5)))

	after, err = inventory.ApplyMovement(item, entity.MovementAdjustment, dec(0))
	require.NoError(t, err)
	assert.True(t, after.IsZero())
}

func TestApplyMovement_SalidaSinStock(t *testing.T) {
	item := &entity.InventoryItem{ID: "i", Name: "Glifosato", StockCurrent: dec(110)}
	_, err := inventory.ApplyMovement(item, entity.MovementExit, dec(150))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.False(t, errors.Is(err, domain.ErrConcurrencyConflict))

	sf := domain.ShortfallsOf(err)
	require.Len(t, sf, 1)
	assert.True(t, sf[0].Deficit.Equal(dec(40)))
	assert.True(t, sf[0].Available.Equal(dec(110)))
}

func TestApplyMovement_EntradasInvalidas(t *testing.T) {
	item := &entity.InventoryItem{StockCurrent: dec(10)}
	_, err := inventory.ApplyMovement(item, entity.MovementEntry, dec(0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = inventory.ApplyMovement(item, entity.MovementExit, dec(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = inventory.ApplyMovement(item, entity.MovementAdjustment, dec(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = inventory.ApplyMovement(item, entity.MovementType(99), dec(1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
