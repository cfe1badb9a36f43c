package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Color is one colour variant a product is offered in.
type Color struct {
	Name    string `gorm:"size:50" json:"name"`
	HexCode string `gorm:"size:9" json:"hexCode"`
}

// IsZero reports whether no colour was selected.
func (c Color) IsZero() bool {
	return strings.TrimSpace(c.Name) == "" && strings.TrimSpace(c.HexCode) == ""
}

type Product struct {
	ID            uint            `gorm:"primarykey" json:"id"`
	Name          string          `gorm:"size:200;uniqueIndex;not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	Price         decimal.Decimal `gorm:"type:numeric(12,2);not null;check:price >= 0" json:"price"`
	StockQuantity int             `gorm:"not null;default:0;check:stock_quantity >= 0" json:"stockQuantity"`
	Category      string          `gorm:"type:varchar(50);index" json:"category"`
	Sizes         []string        `gorm:"serializer:json" json:"sizes"`
	Colors        []Color         `gorm:"serializer:json" json:"colors"`
	SKU           *string         `gorm:"size:64;uniqueIndex" json:"sku,omitempty"`
	ImageURL      string          `json:"imageUrl"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

// OffersVariant reports whether size and colour are among the variants the
// product declares. An empty selection, or an axis the product does not
// declare, always matches.
func (p *Product) OffersVariant(size string, color Color) bool {
	return p.offersSize(size) && p.offersColor(color)
}

func (p *Product) offersSize(size string) bool {
	size = normalizeSize(size)
	if size == "" || len(p.Sizes) == 0 {
		return true
	}
	for _, s := range p.Sizes {
		if normalizeSize(s) == size {
			return true
		}
	}
	return false
}

// CanonicalSize returns the product's own spelling of size, or the trimmed
// input when the product declares no matching size.
func (p *Product) CanonicalSize(size string) string {
	size = strings.TrimSpace(size)
	for _, s := range p.Sizes {
		if normalizeSize(s) == normalizeSize(size) {
			return strings.TrimSpace(s)
		}
	}
	return size
}

func (p *Product) offersColor(color Color) bool {
	if color.IsZero() || len(p.Colors) == 0 {
		return true
	}
	name, hex := normalizeColorName(color.Name), normalizeHex(color.HexCode)
	for _, c := range p.Colors {
		if name != "" && normalizeColorName(c.Name) != name {
			continue
		}
		if hex != "" && normalizeHex(c.HexCode) != hex {
			continue
		}
		return true
	}
	return false
}
