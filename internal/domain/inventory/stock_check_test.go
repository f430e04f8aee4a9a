package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/inventory"
)

func TestCheckStock(t *testing.T) {
	items := map[string]*entity.InventoryItem{
		"a": {ID: "a", Name: "Urea", Unit: "kg", StockCurrent: dec(100)},
		"b": {ID: "b", Name: "Mancozeb", Unit: "kg", StockCurrent: dec(5)},
	}

	ok := inventory.CheckStock([]inventory.Requirement{{ItemID: "a", Quantity: dec(20)}}, items)
	assert.True(t, ok.Valid)
	assert.Empty(t, ok.Shortfalls)

	res := inventory.CheckStock([]inventory.Requirement{
		{ItemID: "a", Quantity: dec(120)},
		{ItemID: "b", Quantity: dec(6)},
		{ItemID: "missing", Quantity: dec(1)},
	}, items)
	assert.False(t, res.Valid)
	require.Len(t, res.Shortfalls, 3, "debe listar todos los faltantes, no solo el primero")
	assert.Equal(t, "a", res.Shortfalls[0].ItemID)
	assert.True(t, res.Shortfalls[0].Deficit.Equal(dec(20)))
	assert.True(t, res.Shortfalls[1].Deficit.Equal(dec(1)))
	assert.True(t, res.Shortfalls[2].Available.IsZero())
}

func TestMergeRequirements_SumaMismoInsumo(t *testing.T) {
	merged := inventory.MergeRequirements([]inventory.Requirement{
		{ItemID: "b", Quantity: dec(1)},
		{ItemID: "a", Quantity: dec(2)},
		{ItemID: "b", Quantity: dec(3)},
	})
	require.Len(t, merged, 2)
	assert.Equal(t, "a", merged[0].ItemID)
	assert.Equal(t, "b", merged[1].ItemID)
	assert.True(t, merged[1].Quantity.Equal(dec(4)))
}

func TestCheckStock_RequerimientosDuplicadosSeAcumulan(t *testing.T) {
	items := map[string]*entity.InventoryItem{"a": {ID: "a", StockCurrent: dec(10)}}
	res := inventory.CheckStock([]inventory.Requirement{
		{ItemID: "a", Quantity: dec(6)},
		{ItemID: "a", Quantity: dec(6)},
	}, items)
	assert.False(t, res.Valid)
	require.Len(t, res.Shortfalls, 1)
	assert.True(t, res.Shortfalls[0].Deficit.Equal(dec(2)))
}
