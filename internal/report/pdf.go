// Package report renders the inventory list into a tabular PDF document.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/sportstock/backend/internal/models"
)

const reportTitle = "Sports Stock Pro - Inventory Report"

// Filename embeds a truncated user identifier and a millisecond timestamp.
func Filename(userID string, now time.Time) string {
	uid := userID
	if len(uid) > 5 {
		uid = uid[:5]
	}
	return fmt.Sprintf("inventory_%s_%d.pdf", uid, now.UnixMilli())
}

// Build renders an A4 portrait report: fixed header, export date and user id,
// then a striped table over the items in their current (unfiltered) order.
func Build(userID string, items []models.InventoryItem, now time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, reportTitle, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, "Date: "+now.Format("1/2/2006"), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, "User ID: "+userID, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	headers := []string{"Product", "Category", "Size", "Qty", "Last Update"}
	widths := []float64{60, 35, 25, 20, 50}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(59, 130, 246)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(30, 41, 59)
	for i, item := range items {
		if i%2 == 0 {
			pdf.SetFillColor(241, 245, 249)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		row := []string{
			item.Name,
			string(item.Category),
			item.Size,
			fmt.Sprintf("%d", item.Quantity),
			item.LastUpdated.Format("1/2/2006"),
		}
		for j, cell := range row {
			pdf.CellFormat(widths[j], 7, cell, "", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
