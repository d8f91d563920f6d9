package inventory_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VishalKmk/Inventory-Management-App/internal/domain"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/entity"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/inventory"
)

func intPtr(v int) *int { return &v }

func TestIsLowStock(t *testing.T) {
	tests := []struct {
		name    string
		stock   int
		minimum *int
		want    bool
	}{
		{"sin mínimo y stock cero", 0, nil, false},
		{"sin mínimo y stock alto", 500, nil, false},
		{"igual al mínimo", 10, intPtr(10), true},
		{"debajo del mínimo", 3, intPtr(10), true},
		{"encima del mínimo", 11, intPtr(10), false},
		{"mínimo cero y stock cero", 0, intPtr(0), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inventory.IsLowStock(tt.stock, tt.minimum))
		})
	}
}

func TestApplyRemove_NuncaNegativo(t *testing.T) {
	got, err := inventory.ApplyRemove(10, 20)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.Equal(t, 10, got, "el stock no cambia al fallar")

	var ise *domain.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, 10, ise.Current)
	assert.Equal(t, 20, ise.Requested)

	got, err = inventory.ApplyRemove(10, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestApplyAddRemove_CantidadInvalida(t *testing.T) {
	_, err := inventory.ApplyAdd(5, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	_, err = inventory.ApplyRemove(5, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestApplyAdd_SinTopeMaximo(t *testing.T) {
	got, err := inventory.ApplyAdd(190, 50)
	require.NoError(t, err)
	assert.Equal(t, 240, got)
}

func TestApplyAdd_TopeDeStock(t *testing.T) {
	got, err := inventory.ApplyAdd(100, inventory.MaxStock-100)
	require.NoError(t, err)
	assert.Equal(t, inventory.MaxStock, got)

	for _, q := range []int{inventory.MaxStock - 99, math.MaxInt} {
		got, err = inventory.ApplyAdd(100, q)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Equal(t, 100, got)
	}
}

func TestValidateLevel(t *testing.T) {
	assert.NoError(t, inventory.ValidateLevel("initial_stock", 0))
	assert.NoError(t, inventory.ValidateLevel("initial_stock", inventory.MaxStock))

	err := inventory.ValidateLevel("minimum_quantity", inventory.MaxStock+1)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "minimum_quantity", ve.Field)

	assert.ErrorIs(t, inventory.ValidateLevel("maximum_quantity", -1), domain.ErrInvalidInput)
}

func TestApplySet(t *testing.T) {
	got, err := inventory.ApplySet(7, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	_, err = inventory.ApplySet(7, -3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err = inventory.ApplySet(7, inventory.MaxStock+1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 7, got)
}

func TestSecuenciaWidget(t *testing.T) {
	min := intPtr(10)
	stock := 100

	stock, err := inventory.ApplyRemove(stock, 90)
	require.NoError(t, err)
	assert.Equal(t, 10, stock)
	assert.True(t, inventory.IsLowStock(stock, min))

	stock, err = inventory.ApplyRemove(stock, 20)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 10, stock)

	stock, err = inventory.ApplyAdd(stock, 5)
	require.NoError(t, err)
	assert.Equal(t, 15, stock)
	assert.False(t, inventory.IsLowStock(stock, min))
}

func TestStatusYSeverity(t *testing.T) {
	out := &entity.Product{CurrentStock: 0, MinimumQuantity: intPtr(10)}
	high := &entity.Product{CurrentStock: 5, MinimumQuantity: intPtr(10)}
	medium := &entity.Product{CurrentStock: 8, MinimumQuantity: intPtr(10)}
	low := &entity.Product{CurrentStock: 10, MinimumQuantity: intPtr(10)}
	ok := &entity.Product{CurrentStock: 50, MinimumQuantity: intPtr(10)}

	assert.Equal(t, inventory.StatusOutOfStock, inventory.Status(out))
	assert.Equal(t, inventory.StatusLowStock, inventory.Status(high))
	assert.Equal(t, inventory.StatusInStock, inventory.Status(ok))

	assert.Equal(t, inventory.SeverityCritical, inventory.Severity(out))
	assert.Equal(t, inventory.SeverityHigh, inventory.Severity(high))
	assert.Equal(t, inventory.SeverityMedium, inventory.Severity(medium))
	assert.Equal(t, inventory.SeverityLow, inventory.Severity(low))
}

func TestHealthScore(t *testing.T) {
	assert.Equal(t, 100.0, inventory.HealthScore(nil), "espacio vacío vale 100")

	products := []*entity.Product{
		{CurrentStock: 0, MinimumQuantity: intPtr(5)}, // bajo y agotado
		{CurrentStock: 3, MinimumQuantity: intPtr(5)}, // bajo
		{CurrentStock: 50},
		{CurrentStock: 20},
	}
	// 100 − 30×(2/4) − 50×(1/4) = 72.5
	assert.Equal(t, 72.5, inventory.HealthScore(products))

	allOut := []*entity.Product{
		{CurrentStock: 0, MinimumQuantity: intPtr(1)},
		{CurrentStock: 0, MinimumQuantity: intPtr(1)},
	}
	assert.Equal(t, 20.0, inventory.HealthScore(allOut))
}
