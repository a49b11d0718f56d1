// Package ingest turns uploaded spreadsheet bytes into normalized rows
// for the analytics engine. An upload from which no valid row can be
// extracted is rejected with a descriptive error; the engine never
// treats a failed parse as an empty period.
package ingest

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"app/models"
)

// InputError marks a malformed or empty upload. It is surfaced to the
// operator as "upload rejected"; nothing is computed from it.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string {
	return "upload rejected: " + e.Reason
}

// Column header aliases accepted in sales reports, lowercased.
var salesColumns = map[string][]string{
	"code":        {"product code", "code", "sku", "barcode", "ürün kodu"},
	"name":        {"product name", "name", "product", "ürün adı"},
	"category":    {"category", "kategori"},
	"date":        {"date", "day", "tarih"},
	"quantity":    {"quantity", "units sold", "qty", "sold", "satış adedi"},
	"revenue":     {"revenue", "sales", "total revenue", "ciro"},
	"impressions": {"impressions", "views", "görüntülenme"},
	"addtocart":   {"add to cart", "add-to-cart", "cart adds", "sepete ekleme"},
	"stock":       {"stock", "current stock", "stok"},
}

var catalogColumns = map[string][]string{
	"code":     {"product code", "code", "sku", "barcode", "ürün kodu"},
	"name":     {"product name", "name", "product", "ürün adı"},
	"category": {"category", "kategori"},
	"url":      {"url", "link", "image", "image url"},
	"cost":     {"unit cost", "cost", "maliyet"},
	"stock":    {"stock", "current stock", "stok"},
}

// dateLayouts accepted for the date column, tried in order. Excel also
// stores dates as serial numbers, handled separately.
var dateLayouts = []string{"2006-01-02", "02.01.2006", "01/02/2006", "2006-01-02 15:04:05"}

// ParseSalesReport extracts sale-event rows from an .xlsx upload
// covering a window of the given number of days.
func ParseSalesReport(data []byte, days int) ([]models.SaleEventRow, error) {
	rows, header, err := sheetRows(data, salesColumns)
	if err != nil {
		return nil, err
	}

	out := make([]models.SaleEventRow, 0, len(rows))
	for _, cells := range rows {
		code := cellString(cells, col(header, "code"))
		if code == "" {
			continue
		}
		row := models.SaleEventRow{
			ProductCode: code,
			ProductName: cellString(cells, col(header, "name")),
			Category:    cellString(cells, col(header, "category")),
			Quantity:    cellInt(cells, col(header, "quantity")),
			Revenue:     cellFloat(cells, col(header, "revenue")),
			Impressions: cellInt(cells, col(header, "impressions")),
			AddToCart:   cellInt(cells, col(header, "addtocart")),
		}
		if row.Quantity < 0 || row.Revenue < 0 {
			continue
		}
		if date, ok := cellDate(cells, col(header, "date")); ok {
			row.Date = date
		}
		if idx := col(header, "stock"); idx >= 0 {
			if raw := cellString(cells, idx); raw != "" {
				stock := cellInt(cells, idx)
				row.Stock = &stock
			}
		}
		out = append(out, row)
	}

	if len(out) == 0 {
		return nil, &InputError{Reason: "no valid sales rows found in the uploaded report"}
	}
	if days <= 0 {
		return nil, &InputError{Reason: fmt.Sprintf("report window must be positive, got %d days", days)}
	}
	return out, nil
}

// ParseCatalog extracts product catalog entries from an .xlsx upload.
func ParseCatalog(data []byte) ([]models.ProductCatalogEntry, error) {
	rows, header, err := sheetRows(data, catalogColumns)
	if err != nil {
		return nil, err
	}

	out := make([]models.ProductCatalogEntry, 0, len(rows))
	for _, cells := range rows {
		code := cellString(cells, col(header, "code"))
		if code == "" {
			continue
		}
		out = append(out, models.ProductCatalogEntry{
			Code:         code,
			Name:         cellString(cells, col(header, "name")),
			Category:     cellString(cells, col(header, "category")),
			URL:          cellString(cells, col(header, "url")),
			UnitCost:     cellFloat(cells, col(header, "cost")),
			CurrentStock: cellInt(cells, col(header, "stock")),
		})
	}

	if len(out) == 0 {
		return nil, &InputError{Reason: "no valid catalog rows found in the uploaded file"}
	}
	return out, nil
}

// sheetRows opens the workbook, locates the header row on the first
// sheet and returns the data rows plus a header-name -> column index
// mapping for the recognized columns.
func sheetRows(data []byte, columns map[string][]string) ([][]string, map[string]int, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, &InputError{Reason: "file is not a readable spreadsheet"}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, &InputError{Reason: "spreadsheet has no sheets"}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, &InputError{Reason: "could not read the first sheet"}
	}
	if len(rows) < 2 {
		return nil, nil, &InputError{Reason: "spreadsheet has a header but no data rows"}
	}

	header := matchHeader(rows[0], columns)
	if _, ok := header["code"]; !ok {
		return nil, nil, &InputError{Reason: "no product code column recognized in the header row"}
	}
	return rows[1:], header, nil
}

func matchHeader(headerRow []string, columns map[string][]string) map[string]int {
	header := make(map[string]int)
	for idx, cell := range headerRow {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for field, aliases := range columns {
			if _, taken := header[field]; taken {
				continue
			}
			for _, alias := range aliases {
				if normalized == alias {
					header[field] = idx
					break
				}
			}
		}
	}
	return header
}

// col returns the matched column index for a field, or -1.
func col(header map[string]int, field string) int {
	if idx, ok := header[field]; ok {
		return idx
	}
	return -1
}

func cellString(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

func cellFloat(cells []string, idx int) float64 {
	raw := cellString(cells, idx)
	if raw == "" {
		return 0
	}
	// Tolerate thousands separators and a decimal comma.
	raw = strings.ReplaceAll(raw, " ", "")
	if strings.Count(raw, ",") == 1 && !strings.Contains(raw, ".") {
		raw = strings.Replace(raw, ",", ".", 1)
	} else {
		raw = strings.ReplaceAll(raw, ",", "")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

func cellInt(cells []string, idx int) int {
	return int(cellFloat(cells, idx))
}

func cellDate(cells []string, idx int) (time.Time, bool) {
	raw := cellString(cells, idx)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	// Excel serial date number.
	if serial, err := strconv.ParseFloat(raw, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
