package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewLineKey(t *testing.T) {
	red := &Color{Name: "Red", HexCode: "#FF0000"}

	tests := []struct {
		name  string
		a, b  LineKey
		equal bool
	}{
		{"identical", NewLineKey(1, "M", red), NewLineKey(1, "M", &Color{Name: "Red", HexCode: "#FF0000"}), true},
		{"whitespace and case", NewLineKey(1, " M ", red), NewLineKey(1, "M", &Color{Name: " red", HexCode: "ff0000"}), true},
		{"nil colour equals empty colour", NewLineKey(1, "M", nil), NewLineKey(1, "M", &Color{}), true},
		{"different product", NewLineKey(1, "M", red), NewLineKey(2, "M", red), false},
		{"size case", NewLineKey(1, "xl", red), NewLineKey(1, "XL", red), true},
		{"different size", NewLineKey(1, "M", red), NewLineKey(1, "L", red), false},
		{"same name different hex", NewLineKey(1, "M", red), NewLineKey(1, "M", &Color{Name: "Red", HexCode: "#EE0000"}), false},
		{"same hex different name", NewLineKey(1, "M", red), NewLineKey(1, "M", &Color{Name: "Crimson", HexCode: "#FF0000"}), false},
		{"colour versus none", NewLineKey(1, "M", red), NewLineKey(1, "M", nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, tt.a == tt.b)
			assert.Equal(t, tt.equal, tt.a.String() == tt.b.String())
		})
	}
}

func TestLineKey_StringIsUnambiguous(t *testing.T) {
	a := NewLineKey(1, `M|"x"`, nil)
	b := NewLineKey(1, "M", &Color{Name: "x"})
	assert.NotEqual(t, a.String(), b.String())
}

func TestProduct_OffersVariant(t *testing.T) {
	p := &Product{
		Sizes:  []string{"S", "M"},
		Colors: []Color{{Name: "Red", HexCode: "#FF0000"}},
	}

	assert.True(t, p.OffersVariant("M", Color{Name: "red", HexCode: "#ff0000"}))
	assert.True(t, p.OffersVariant("", Color{}))
	assert.True(t, p.OffersVariant("s", Color{Name: "Red"}))
	assert.False(t, p.OffersVariant("XL", Color{}))
	assert.False(t, p.OffersVariant("M", Color{Name: "Blue"}))
	assert.False(t, p.OffersVariant("M", Color{Name: "Red", HexCode: "#00FF00"}))

	bare := &Product{}
	assert.True(t, bare.OffersVariant("XL", Color{Name: "Blue"}))
}

func TestProduct_CanonicalSize(t *testing.T) {
	p := &Product{Sizes: []string{"S", "M", "XL"}}

	assert.Equal(t, "M", p.CanonicalSize(" m"))
	assert.Equal(t, "XL", p.CanonicalSize("xl"))
	assert.Equal(t, "", p.CanonicalSize(""))
	assert.Equal(t, "One Size", (&Product{}).CanonicalSize(" One Size "))
}

func TestCart_Total(t *testing.T) {
	cart := &Cart{Items: []CartItem{
		{Quantity: 3, PriceAtAddition: decimal.RequireFromString("19.99")},
		{Quantity: 1, PriceAtAddition: decimal.RequireFromString("5.01")},
	}}
	assert.Equal(t, "64.98", cart.Total().String())
}
