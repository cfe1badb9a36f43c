package model

import (
	"time"
)

type ShippingAddress struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	Label     string    `gorm:"size:100" json:"label"` // e.g. "home", "office"
	FullName  string    `gorm:"size:100" json:"fullName"`
	Phone     string    `gorm:"size:30" json:"phone"`
	Street    string    `gorm:"type:text;not null" json:"street"`
	City      string    `gorm:"size:100;not null" json:"city"`
	State     string    `gorm:"size:100;not null" json:"state"`
	ZipCode   string    `gorm:"size:20;not null" json:"zipCode"`
	Country   string    `gorm:"size:100;not null" json:"country"`
	IsDefault bool      `gorm:"default:false" json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ShippingAddress) TableName() string {
	return "shipping_addresses"
}

// Snapshot copies the address by value for embedding in an order.
func (a ShippingAddress) Snapshot() AddressSnapshot {
	return AddressSnapshot{
		Label:    a.Label,
		FullName: a.FullName,
		Phone:    a.Phone,
		Street:   a.Street,
		City:     a.City,
		State:    a.State,
		ZipCode:  a.ZipCode,
		Country:  a.Country,
	}
}

// AddressSnapshot is the denormalized address stored on an order.
type AddressSnapshot struct {
	Label    string `gorm:"size:100" json:"label"`
	FullName string `gorm:"size:100" json:"fullName"`
	Phone    string `gorm:"size:30" json:"phone"`
	Street   string `gorm:"type:text" json:"street"`
	City     string `gorm:"size:100" json:"city"`
	State    string `gorm:"size:100" json:"state"`
	ZipCode  string `gorm:"size:20" json:"zipCode"`
	Country  string `gorm:"size:100" json:"country"`
}
