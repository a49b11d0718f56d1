package handlers

import (
	"errors"
	"io"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"app/analytics"
	"app/ingest"
	"app/models"
)

// HandleUploadSalesReport ingests an .xlsx sales report covering a
// window of `days` days. The report occupies its period slot, replacing
// any prior upload for the same period, and triggers a recomputation.
// POST /api/v1/reports (multipart: file, days)
func HandleUploadSalesReport(c *fiber.Ctx) error {
	days, err := strconv.Atoi(c.FormValue("days"))
	if err != nil || days <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "days must be a positive integer"})
	}

	data, err := readUpload(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	rows, err := ingest.ParseSalesReport(data, days)
	if err != nil {
		var inputErr *ingest.InputError
		if errors.As(err, &inputErr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"status": "error", "message": inputErr.Error()})
		}
		log.Printf("Error parsing sales report: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to parse report"})
	}

	period := models.PeriodForDays(days)
	eng.ApplyReport(analytics.Report{
		Period:     period,
		Days:       days,
		Rows:       rows,
		UploadedAt: time.Now(),
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "success",
		"data": fiber.Map{
			"period":    period,
			"row_count": len(rows),
		},
	})
}

// HandleUploadCatalog ingests an .xlsx product catalog and triggers a
// recomputation.
// POST /api/v1/catalog (multipart: file)
func HandleUploadCatalog(c *fiber.Ctx) error {
	data, err := readUpload(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	entries, err := ingest.ParseCatalog(data)
	if err != nil {
		var inputErr *ingest.InputError
		if errors.As(err, &inputErr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"status": "error", "message": inputErr.Error()})
		}
		log.Printf("Error parsing catalog: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to parse catalog"})
	}

	eng.ApplyCatalog(entries)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"product_count": len(entries)},
	})
}

func readUpload(c *fiber.Ctx) ([]byte, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return nil, errors.New("missing file upload")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return nil, errors.New("could not open uploaded file")
	}
	defer file.Close()
	return io.ReadAll(file)
}
