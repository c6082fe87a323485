package cart

import "github.com/shopspring/decimal"

// Item is a single line in the cart. There is at most one Item per
// product id; Quantity is always >= 1 (lines at zero are removed).
type Item struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Image     string          `json:"image"`
	Medium    string          `json:"medium"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
}

// ItemInput is the payload for adding a product to the cart. Quantity is
// not part of the input: an add always contributes exactly one unit.
type ItemInput struct {
	ID        string
	Title     string
	UnitPrice decimal.Decimal
	Image     string
	Medium    string
	Size      string
}

// State is the full cart state. Total and ItemCount are caches derived
// from Items; Reduce recomputes them on every mutation and nothing else
// may write them.
type State struct {
	Items     []Item          `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// Empty returns the initial cart state.
func Empty() State {
	return State{Items: []Item{}, Total: decimal.Zero, ItemCount: 0}
}

// Action is a cart mutation handled by Reduce.
type Action interface {
	isCartAction()
}

type AddItem struct{ Item ItemInput }

type RemoveItem struct{ ID string }

type UpdateQuantity struct {
	ID       string
	Quantity int
}

type ClearCart struct{}

// LoadCart replaces the item list wholesale. Used once at hydration.
type LoadCart struct{ Items []Item }

func (AddItem) isCartAction()        {}
func (RemoveItem) isCartAction()     {}
func (UpdateQuantity) isCartAction() {}
func (ClearCart) isCartAction()      {}
func (LoadCart) isCartAction()       {}

// Reduce maps (state, action) to the next state. It is pure: no I/O, no
// mutation of the input, and it is total over its domain — no action
// returns an error.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case AddItem:
		for i, item := range state.Items {
			if item.ID == a.Item.ID {
				// Existing line wins: the payload's price and metadata
				// are ignored, only the quantity moves.
				items := copyItems(state.Items)
				items[i].Quantity++
				return recompute(items)
			}
		}
		items := copyItems(state.Items)
		items = append(items, Item{
			ID:        a.Item.ID,
			Title:     a.Item.Title,
			UnitPrice: a.Item.UnitPrice,
			Image:     a.Item.Image,
			Medium:    a.Item.Medium,
			Size:      a.Item.Size,
			Quantity:  1,
		})
		return recompute(items)

	case RemoveItem:
		items := make([]Item, 0, len(state.Items))
		for _, item := range state.Items {
			if item.ID != a.ID {
				items = append(items, item)
			}
		}
		return recompute(items)

	case UpdateQuantity:
		// Zero or negative quantity deletes the line.
		if a.Quantity <= 0 {
			return Reduce(state, RemoveItem{ID: a.ID})
		}
		items := copyItems(state.Items)
		for i := range items {
			if items[i].ID == a.ID {
				items[i].Quantity = a.Quantity
			}
		}
		return recompute(items)

	case ClearCart:
		return Empty()

	case LoadCart:
		items := copyItems(a.Items)
		if items == nil {
			items = []Item{}
		}
		return recompute(items)
	}

	return state
}

func copyItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}

func recompute(items []Item) State {
	total := decimal.Zero
	count := 0
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		count += item.Quantity
	}
	return State{Items: items, Total: total, ItemCount: count}
}
