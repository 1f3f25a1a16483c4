package client

import (
	"sync"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tbourn/go-store-backend/internal/domain"
)

// Cart is an in-memory shopping cart keyed by listing ID. It keeps
// insertion order for display and deduplicates on ID: adding a listing
// that is already present is a no-op, as is removing one that is not.
//
// The cart is session-scoped; there is no persistence or checkout.
// Safe for concurrent use.
type Cart struct {
	mu    sync.Mutex
	items []domain.Game
	index map[int64]struct{}
}

// NewCart returns an empty cart.
func NewCart() *Cart {
	return &Cart{index: make(map[int64]struct{})}
}

// Add puts g in the cart and reports whether it was added. Adding an
// ID that is already present leaves the cart unchanged and returns
// false.
func (c *Cart) Add(g domain.Game) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.index[g.ID]; ok {
		return false
	}
	c.index[g.ID] = struct{}{}
	c.items = append(c.items, g)
	return true
}

// Remove deletes the listing with the given ID and reports whether it
// was present. Removing an absent ID is a no-op.
func (c *Cart) Remove(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.index[id]; !ok {
		return false
	}
	delete(c.index, id)
	for i, g := range c.items {
		if g.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether the listing with the given ID is in the cart.
func (c *Cart) Contains(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.index[id]
	return ok
}

// Len returns the number of listings in the cart.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Items returns a copy of the cart contents in insertion order.
func (c *Cart) Items() []domain.Game {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Game, len(c.items))
	copy(out, c.items)
	return out
}

// TotalCents sums the prices of all items and returns the currency of
// the first item (DefaultCurrency for an empty cart). Mixed currencies
// are summed without conversion; mixed reports whether that happened so
// callers can flag the total as approximate.
func (c *Cart) TotalCents() (total int64, code string, mixed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	code = domain.DefaultCurrency
	for i, g := range c.items {
		total += g.PriceCents
		if i == 0 {
			code = g.Currency
		} else if g.Currency != code {
			mixed = true
		}
	}
	return total, code, mixed
}

// FormattedTotal renders the cart total as a localized currency string
// (e.g. "€ 109.97"). Unknown currency codes fall back to a plain
// "<code> <amount>" rendering.
func (c *Cart) FormattedTotal() string {
	total, code, _ := c.TotalCents()
	amount := float64(total) / 100

	unit, err := currency.ParseISO(code)
	if err != nil {
		return message.NewPrinter(language.English).Sprintf("%s %.2f", code, amount)
	}
	p := message.NewPrinter(language.English)
	return p.Sprintf("%v", currency.Symbol(unit.Amount(amount)))
}
