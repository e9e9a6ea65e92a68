package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShopItem is a purchasable catalog item. Quantity is decremented on
// checkout; Popularity counts units sold.
type ShopItem struct {
	ID            string
	Name          string
	Description   string
	Price         decimal.Decimal
	DiscountPrice *decimal.Decimal
	Quantity      int64
	Category      string
	Popularity    int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// EffectivePrice returns the discount price when one is set.
func (i *ShopItem) EffectivePrice() decimal.Decimal {
	if i.DiscountPrice != nil && i.DiscountPrice.IsPositive() {
		return *i.DiscountPrice
	}
	return i.Price
}

// Available reports whether qty units can be sold.
func (i *ShopItem) Available(qty int64) bool {
	return qty > 0 && i.Quantity >= qty
}

// CartLine is one position of a checkout request.
type CartLine struct {
	ItemID   string
	Quantity int64
}
