package ingest

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbookBytes(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestParseSalesReport(t *testing.T) {
	data := workbookBytes(t, [][]interface{}{
		{"Product Code", "Product Name", "Date", "Quantity", "Revenue", "Impressions", "Add to Cart", "Stock"},
		{"P1", "Ceramic Mug", "2026-08-01", 3, 89.7, 420, 12, 25},
		{"P2", "Dinner Plate", "2026-08-01", 1, "49,90", 80, 4, ""},
		{"", "row without a code is skipped", "2026-08-02", 1, 10, 10, 1, 5},
	})

	rows, err := ParseSalesReport(data, 7)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "P1", rows[0].ProductCode)
	assert.Equal(t, "Ceramic Mug", rows[0].ProductName)
	assert.Equal(t, 3, rows[0].Quantity)
	assert.InDelta(t, 89.7, rows[0].Revenue, 1e-9)
	assert.Equal(t, 420, rows[0].Impressions)
	assert.Equal(t, 12, rows[0].AddToCart)
	require.NotNil(t, rows[0].Stock)
	assert.Equal(t, 25, *rows[0].Stock)
	assert.Equal(t, 2026, rows[0].Date.Year())

	// Decimal comma and an empty stock cell.
	assert.InDelta(t, 49.90, rows[1].Revenue, 1e-9)
	assert.Nil(t, rows[1].Stock)
}

func TestParseSalesReportRejectsEmptyUploads(t *testing.T) {
	// Header only: zero valid rows is an upload rejection, never an
	// empty period.
	data := workbookBytes(t, [][]interface{}{
		{"Product Code", "Quantity", "Revenue"},
	})
	_, err := ParseSalesReport(data, 7)
	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)

	// Rows present but none carries a product code.
	data = workbookBytes(t, [][]interface{}{
		{"Product Code", "Quantity", "Revenue"},
		{"", 1, 10},
	})
	_, err = ParseSalesReport(data, 7)
	require.ErrorAs(t, err, &inputErr)
	assert.Contains(t, err.Error(), "upload rejected")
}

func TestParseSalesReportRejectsGarbage(t *testing.T) {
	_, err := ParseSalesReport([]byte("definitely not a spreadsheet"), 7)
	var inputErr *InputError
	assert.ErrorAs(t, err, &inputErr)
}

func TestParseSalesReportUnknownHeader(t *testing.T) {
	data := workbookBytes(t, [][]interface{}{
		{"foo", "bar"},
		{"x", "y"},
	})
	_, err := ParseSalesReport(data, 7)
	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Contains(t, err.Error(), "product code")
}

func TestParseCatalog(t *testing.T) {
	data := workbookBytes(t, [][]interface{}{
		{"Product Code", "Product Name", "Category", "URL", "Unit Cost", "Stock"},
		{"P1", "Ceramic Mug", "kitchen", "https://example.com/p1", 12.5, 40},
	})

	entries, err := ParseCatalog(data)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "P1", entries[0].Code)
	assert.Equal(t, "Ceramic Mug", entries[0].Name)
	assert.Equal(t, "kitchen", entries[0].Category)
	assert.InDelta(t, 12.5, entries[0].UnitCost, 1e-9)
	assert.Equal(t, 40, entries[0].CurrentStock)
}

func TestParseCatalogRejectsEmpty(t *testing.T) {
	data := workbookBytes(t, [][]interface{}{
		{"Product Code", "Product Name"},
	})
	_, err := ParseCatalog(data)
	var inputErr *InputError
	assert.ErrorAs(t, err, &inputErr)
}
