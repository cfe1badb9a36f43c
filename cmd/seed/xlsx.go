package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ikkim/storefront-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Sheet columns, matched case-insensitively against the header row.
// name and price are required; the rest may be omitted.
const (
	colName        = "name"
	colDescription = "description"
	colPrice       = "price"
	colStock       = "stock"
	colCategory    = "category"
	colSizes       = "sizes"  // "S, M, L"
	colColors      = "colors" // "Red:#FF0000; Navy Blue:#000080"
	colSKU         = "sku"
	colImageURL    = "image_url"
)

type skippedRow struct {
	Row    int
	Reason string
}

type importReport struct {
	Skipped []skippedRow
}

func readProductsFromXLSX(filePath string) ([]model.Product, importReport, error) {
	var report importReport

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, report, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, report, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, report, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, report, fmt.Errorf("no data found in XLSX file")
	}

	cols := make(map[string]int)
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{colName, colPrice} {
		if _, ok := cols[required]; !ok {
			return nil, report, fmt.Errorf("missing required column %q", required)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var products []model.Product
	seen := make(map[string]int) // name -> index in products

	for i, row := range rows[1:] {
		rowNum := i + 2
		skip := func(reason string) {
			report.Skipped = append(report.Skipped, skippedRow{Row: rowNum, Reason: reason})
		}

		name := cell(row, colName)
		if name == "" {
			skip("empty name")
			continue
		}

		price, err := decimal.NewFromString(cell(row, colPrice))
		if err != nil || price.IsNegative() {
			skip("invalid price")
			continue
		}

		stock := 0
		if raw := cell(row, colStock); raw != "" {
			stock, err = strconv.Atoi(raw)
			if err != nil || stock < 0 {
				skip("invalid stock")
				continue
			}
		}

		colors, err := parseColors(cell(row, colColors))
		if err != nil {
			skip(err.Error())
			continue
		}

		p := model.Product{
			Name:          name,
			Description:   cell(row, colDescription),
			Price:         price.Round(2),
			StockQuantity: stock,
			Category:      strings.ToLower(cell(row, colCategory)),
			Sizes:         parseSizes(cell(row, colSizes)),
			Colors:        colors,
			ImageURL:      cell(row, colImageURL),
		}
		if sku := cell(row, colSKU); sku != "" {
			p.SKU = &sku
		}

		// later rows win, matching the upsert
		if idx, dup := seen[name]; dup {
			products[idx] = p
			skip("duplicate name, earlier row replaced")
			continue
		}
		seen[name] = len(products)
		products = append(products, p)
	}

	return products, report, nil
}

func parseSizes(raw string) []string {
	if raw == "" {
		return nil
	}
	var sizes []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			sizes = append(sizes, s)
		}
	}
	return sizes
}

func parseColors(raw string) ([]model.Color, error) {
	if raw == "" {
		return nil, nil
	}
	var colors []model.Color
	for _, entry := range strings.Split(raw, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, hex, _ := strings.Cut(entry, ":")
		name, hex = strings.TrimSpace(name), strings.TrimSpace(hex)
		if name == "" {
			return nil, fmt.Errorf("colour %q has no name", entry)
		}
		if hex != "" && !strings.HasPrefix(hex, "#") {
			hex = "#" + hex
		}
		colors = append(colors, model.Color{Name: name, HexCode: strings.ToUpper(hex)})
	}
	return colors, nil
}
