package model

import (
	"fmt"
	"strings"
)

// LineKey identifies a cart line. Two adds with equal keys merge into one line.
type LineKey struct {
	ProductID uint
	Size      string
	ColorName string
	ColorHex  string
}

// NewLineKey normalizes a (product, size, colour) selection. A nil colour and
// an empty colour produce the same key; name and hex both take part, so two
// colours differing in either field are distinct lines.
func NewLineKey(productID uint, size string, color *Color) LineKey {
	key := LineKey{ProductID: productID, Size: normalizeSize(size)}
	if color != nil {
		key.ColorName = normalizeColorName(color.Name)
		key.ColorHex = normalizeHex(color.HexCode)
	}
	return key
}

// String is the stored form used by the (cart_id, line_key) unique index.
func (k LineKey) String() string {
	return fmt.Sprintf("%d|%q|%q|%q", k.ProductID, k.Size, k.ColorName, k.ColorHex)
}

func normalizeSize(size string) string {
	return strings.ToUpper(strings.TrimSpace(size))
}

func normalizeColorName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func normalizeHex(hex string) string {
	hex = strings.ToUpper(strings.TrimSpace(hex))
	if hex == "" {
		return ""
	}
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	return hex
}
