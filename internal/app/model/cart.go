package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxLineQuantity caps the quantity of a single cart line.
const MaxLineQuantity = 999

// Cart is the single mutable cart of a user. Version is bumped by every
// mutation so checkout can detect a concurrent change.
type Cart struct {
	ID        uint       `gorm:"primarykey" json:"id"`
	UserID    uint       `gorm:"not null;uniqueIndex" json:"userId"`
	Version   int        `gorm:"not null;default:0" json:"version"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (Cart) TableName() string {
	return "carts"
}

// Total sums price at addition times quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

type CartItem struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	CartID          uint            `gorm:"not null;uniqueIndex:idx_cart_items_line" json:"cartId"`
	LineKey         string          `gorm:"size:512;not null;uniqueIndex:idx_cart_items_line" json:"-"`
	ProductID       uint            `gorm:"not null;index" json:"productId"`
	Quantity        int             `gorm:"not null;check:quantity >= 1" json:"quantity"`
	PriceAtAddition decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"priceAtAddition"`
	SelectedSize    string          `gorm:"size:50" json:"selectedSize"`
	SelectedColor   Color           `gorm:"embedded;embeddedPrefix:color_" json:"selectedColor"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`

	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

func (i *CartItem) Key() LineKey {
	return NewLineKey(i.ProductID, i.SelectedSize, &i.SelectedColor)
}

func (i *CartItem) Subtotal() decimal.Decimal {
	return i.PriceAtAddition.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
