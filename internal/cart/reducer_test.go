package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func input(id, title, unitPrice string) ItemInput {
	return ItemInput{ID: id, Title: title, UnitPrice: price(unitPrice)}
}

// ============ AddItem ============

func TestReduceAddItemNewLine(t *testing.T) {
	state := Reduce(Empty(), AddItem{Item: input("p1", "Blue Nocturne", "1200.00")})

	require.Len(t, state.Items, 1)
	assert.Equal(t, "p1", state.Items[0].ID)
	assert.Equal(t, 1, state.Items[0].Quantity)
	assert.Equal(t, 1, state.ItemCount)
	assert.True(t, state.Total.Equal(price("1200.00")))
}

func TestReduceAddItemRepeatedIncrementsQuantity(t *testing.T) {
	state := Empty()
	for i := 0; i < 5; i++ {
		state = Reduce(state, AddItem{Item: input("p1", "Blue Nocturne", "1200.00")})
	}

	require.Len(t, state.Items, 1)
	assert.Equal(t, 5, state.Items[0].Quantity)
	assert.Equal(t, 5, state.ItemCount)
	assert.True(t, state.Total.Equal(price("6000.00")))
}

func TestReduceAddItemExistingLineWins(t *testing.T) {
	state := Reduce(Empty(), AddItem{Item: input("p1", "Blue Nocturne", "1200.00")})

	// A second add with different metadata only moves the quantity.
	state = Reduce(state, AddItem{Item: input("p1", "Renamed", "9999.00")})

	require.Len(t, state.Items, 1)
	assert.Equal(t, "Blue Nocturne", state.Items[0].Title)
	assert.True(t, state.Items[0].UnitPrice.Equal(price("1200.00")))
	assert.Equal(t, 2, state.Items[0].Quantity)
	assert.True(t, state.Total.Equal(price("2400.00")))
}

func TestReduceAddItemIsPure(t *testing.T) {
	before := Reduce(Empty(), AddItem{Item: input("p1", "Blue Nocturne", "1200.00")})

	_ = Reduce(before, AddItem{Item: input("p1", "Blue Nocturne", "1200.00")})

	assert.Equal(t, 1, before.Items[0].Quantity)
	assert.Equal(t, 1, before.ItemCount)
}

// ============ RemoveItem ============

func TestReduceRemoveItem(t *testing.T) {
	state := Reduce(Empty(), AddItem{Item: input("p1", "Blue Nocturne", "1200.00")})
	state = Reduce(state, AddItem{Item: input("p2", "Red Study", "800.00")})

	state = Reduce(state, RemoveItem{ID: "p1"})

	require.Len(t, state.Items, 1)
	assert.Equal(t, "p2", state.Items[0].ID)
	assert.True(t, state.Total.Equal(price("800.00")))
}

func TestReduceRemoveAbsentItemIsNoOp(t *testing.T) {
	state := Reduce(Empty(), AddItem{Item: input("p1", "Blue Nocturne", "1200.00")})

	next := Reduce(state, RemoveItem{ID: "ghost"})

	assert.Equal(t, state.Items, next.Items)
	assert.Equal(t, state.ItemCount, next.ItemCount)
	assert.True(t, state.Total.Equal(next.Total))
}

// ============ UpdateQuantity ============

func TestReduceUpdateQuantitySetsAbsoluteValue(t *testing.T) {
	state := Reduce(Empty(), AddItem{Item: input("p1", "Blue Nocturne", "1200.00")})

	state = Reduce(state, UpdateQuantity{ID: "p1", Quantity: 4})

	assert.Equal(t, 4, state.Items[0].Quantity)
	assert.Equal(t, 4, state.ItemCount)
	assert.True(t, state.Total.Equal(price("4800.00")))
}

func TestReduceUpdateQuantityZeroEqualsRemove(t *testing.T) {
	base := Reduce(Empty(), AddItem{Item: input("p1", "Blue Nocturne", "1200.00")})
	base = Reduce(base, AddItem{Item: input("p2", "Red Study", "800.00")})

	viaUpdate := Reduce(base, UpdateQuantity{ID: "p1", Quantity: 0})
	viaRemove := Reduce(base, RemoveItem{ID: "p1"})

	assert.Equal(t, viaRemove, viaUpdate)
}

func TestReduceUpdateQuantityNegativeRemovesLine(t *testing.T) {
	state := Reduce(Empty(), AddItem{Item: input("p1", "Blue Nocturne", "1200.00")})

	state = Reduce(state, UpdateQuantity{ID: "p1", Quantity: -3})

	assert.Empty(t, state.Items)
	assert.Equal(t, 0, state.ItemCount)
	assert.True(t, state.Total.IsZero())
}

func TestReduceUpdateQuantityAbsentIDIsNoOp(t *testing.T) {
	state := Reduce(Empty(), AddItem{Item: input("p1", "Blue Nocturne", "1200.00")})

	next := Reduce(state, UpdateQuantity{ID: "ghost", Quantity: 7})

	assert.Equal(t, state.Items, next.Items)
	assert.Equal(t, state.ItemCount, next.ItemCount)
}

// ============ ClearCart / LoadCart ============

func TestReduceClearCart(t *testing.T) {
	state := Reduce(Empty(), AddItem{Item: input("p1", "Blue Nocturne", "1200.00")})

	state = Reduce(state, ClearCart{})

	assert.Equal(t, Empty(), state)
}

func TestReduceLoadCartRecomputesDerivedFields(t *testing.T) {
	items := []Item{
		{ID: "p1", Title: "Blue Nocturne", UnitPrice: price("1200.00"), Quantity: 2},
		{ID: "p2", Title: "Red Study", UnitPrice: price("800.00"), Quantity: 1},
	}

	state := Reduce(Empty(), LoadCart{Items: items})

	require.Len(t, state.Items, 2)
	assert.Equal(t, 3, state.ItemCount)
	assert.True(t, state.Total.Equal(price("3200.00")))
}

func TestReduceLoadCartNilItems(t *testing.T) {
	state := Reduce(Empty(), LoadCart{Items: nil})

	assert.NotNil(t, state.Items)
	assert.Empty(t, state.Items)
	assert.True(t, state.Total.IsZero())
}

func TestReduceLoadCartRoundTrip(t *testing.T) {
	state := Reduce(Empty(), AddItem{Item: input("p1", "Blue Nocturne", "1200.00")})
	state = Reduce(state, AddItem{Item: input("p2", "Red Study", "800.00")})
	state = Reduce(state, UpdateQuantity{ID: "p2", Quantity: 3})

	reloaded := Reduce(Empty(), LoadCart{Items: state.Items})

	assert.Equal(t, state, reloaded)
}

// ============ Derived-field invariant ============

func TestReduceTotalsAlwaysMatchItems(t *testing.T) {
	actions := []Action{
		AddItem{Item: input("p1", "Blue Nocturne", "1200.00")},
		AddItem{Item: input("p2", "Red Study", "800.00")},
		AddItem{Item: input("p1", "Blue Nocturne", "1200.00")},
		UpdateQuantity{ID: "p2", Quantity: 5},
		RemoveItem{ID: "ghost"},
		UpdateQuantity{ID: "p1", Quantity: 0},
		AddItem{Item: input("p3", "Bronze Figure", "2500.00")},
		RemoveItem{ID: "p2"},
	}

	state := Empty()
	for _, action := range actions {
		state = Reduce(state, action)

		total := decimal.Zero
		count := 0
		for _, item := range state.Items {
			require.GreaterOrEqual(t, item.Quantity, 1)
			total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
			count += item.Quantity
		}
		assert.True(t, state.Total.Equal(total))
		assert.Equal(t, count, state.ItemCount)
	}
}
