package model

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleAdmin    UserRole = "admin"
)

// User is the local record of an externally verified identity.
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	SubjectID string         `gorm:"size:128;uniqueIndex;not null" json:"subjectId"` // identity provider subject
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	FirstName string         `gorm:"size:100" json:"firstName"`
	LastName  string         `gorm:"size:100" json:"lastName"`
	Role      UserRole       `gorm:"type:varchar(20);default:'customer'" json:"role"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Addresses []ShippingAddress `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"addresses,omitempty"`
	Wishlist  []WishlistItem    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"wishlist,omitempty"`
	Orders    []Order           `gorm:"foreignKey:UserID" json:"orders,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
