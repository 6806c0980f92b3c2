package infra

// pdf.go: receipt ticket rendering with go-pdf/fpdf.
// The layout targets 74mm thermal paper: business header, sale number and
// date, optional customer, one row per detalle and the bold total.

import (
	"fmt"
	"os"
	"path/filepath"

	"tpv/internal/model"

	"github.com/go-pdf/fpdf"
)

// GenerarTicketPDF writes ticket_{id}.pdf for the sale under storagePath
// (created if needed) and returns the file path.
// The sale must have Detalles (with Producto) preloaded.
func GenerarTicketPDF(venta *model.Venta, negocio, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}
	filePath := filepath.Join(storagePath, fmt.Sprintf("ticket_%d.pdf", venta.ID))

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: 74, Ht: 60 + float64(len(venta.Detalles))*5},
	})
	pdf.SetMargins(4, 4, 4)
	pdf.SetAutoPageBreak(false, 4)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 8

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentW, 7, tr(negocio), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, fmt.Sprintf("Venta #%d", venta.ID), "", 1, "C", false, 0, "")
	pdf.CellFormat(contentW, 4, venta.Fecha.Format("02/01/2006 15:04"), "", 1, "C", false, 0, "")
	if venta.Cliente != nil {
		pdf.CellFormat(contentW, 4, tr("Cliente: "+venta.Cliente.Etiqueta()), "", 1, "L", false, 0, "")
	}
	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(1)

	// ── Detalles ─────────────────────────────────────────────────────────────
	colNombre := contentW * 0.50
	colCant := contentW * 0.15
	colSub := contentW * 0.35

	pdf.SetFont("Helvetica", "B", 7)
	pdf.CellFormat(colNombre, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(colCant, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(colSub, 5, "Subtotal", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	for _, d := range venta.Detalles {
		nombre := fmt.Sprintf("#%d", d.ProductoID)
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		if r := []rune(nombre); len(r) > 24 {
			nombre = string(r[:23]) + "."
		}
		pdf.CellFormat(colNombre, 5, tr(nombre), "", 0, "L", false, 0, "")
		pdf.CellFormat(colCant, 5, fmt.Sprintf("%d x %s", d.Cantidad, d.PrecioUnitario.StringFixed(2)), "", 0, "C", false, 0, "")
		pdf.CellFormat(colSub, 5, d.Subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(1)
	pdf.Line(4, pdf.GetY(), pageW-4, pdf.GetY())
	pdf.Ln(1)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colNombre+colCant, 6, "TOTAL", "", 0, "L", false, 0, "")
	pdf.CellFormat(colSub, 6, venta.Total.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(2)
	pdf.SetFont("Helvetica", "I", 7)
	pdf.CellFormat(contentW, 4, tr("¡Gracias por su compra!"), "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
