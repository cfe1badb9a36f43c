package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string
type PaymentStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// Order is an immutable snapshot of a cart at checkout. Only the status
// fields and tracking number change after creation.
type Order struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	UserID          uint            `gorm:"not null;index;uniqueIndex:idx_orders_user_idempotency" json:"userId"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"totalAmount"`
	ShippingAddress AddressSnapshot `gorm:"embedded;embeddedPrefix:shipping_" json:"shippingAddress"`
	PaymentMethod   string          `gorm:"type:varchar(50);not null" json:"paymentMethod"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(20);default:'pending';index" json:"paymentStatus"`
	OrderStatus     OrderStatus     `gorm:"type:varchar(20);default:'pending';index" json:"orderStatus"`
	TrackingNumber  string          `gorm:"size:100" json:"trackingNumber,omitempty"`
	IdempotencyKey  *string         `gorm:"size:255;uniqueIndex:idx_orders_user_idempotency" json:"-"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem copies the product name, price and variant at checkout time.
type OrderItem struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	OrderID       uint            `gorm:"not null;index" json:"orderId"`
	ProductID     uint            `gorm:"not null;index" json:"productId"`
	ProductName   string          `gorm:"size:200;not null" json:"productName"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	SelectedSize  string          `gorm:"size:50" json:"selectedSize"`
	SelectedColor Color           `gorm:"embedded;embeddedPrefix:color_" json:"selectedColor"`
	ImageURL      string          `json:"imageUrl"`
	CreatedAt     time.Time       `json:"createdAt"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
