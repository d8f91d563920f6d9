// Package pdf genera el reporte de inventario en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Inventory Report + usuario  │  Fecha de generación │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Espacios | Productos | Valor total | Stock bajo    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  POR ESPACIO: nombre + valor                                 │
//	│    TABLA: Producto | Stock | Mín. | Precio | Valor | Estado  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER                                                      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/VishalKmk/Inventory-Management-App/internal/application/dto"
	"github.com/VishalKmk/Inventory-Management-App/internal/application/ports"
	"github.com/VishalKmk/Inventory-Management-App/internal/domain/inventory"
)

var _ ports.ReportRenderer = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 40, Blue: 40}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.ReportRenderer usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// RenderInventoryReport genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) RenderInventoryReport(_ context.Context, report *dto.InventoryReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Inventory Report", true).
		WithAuthor(report.OwnerName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(report.Overview))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	if len(report.Spaces) == 0 {
		m.AddRows(row.New(12).Add(col.New(12).Add(
			text.New("No spaces yet.", props.Text{Size: 9, Align: align.Center, Top: 4, Color: colorGray}),
		)))
	}
	for _, s := range report.Spaces {
		m.AddRows(spaceRows(s)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + usuario (izq) y fecha de generación (der).
func headerRow(report *dto.InventoryReport) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("Inventory Report", props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s <%s>", report.OwnerName, report.OwnerEmail), props.Text{
				Size: 9, Top: 10, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("GENERATED", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(report.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"), props.Text{
				Size: 9, Align: align.Right, Top: 7,
			}),
		),
	)
}

// summaryRow: cuatro indicadores del resumen.
func summaryRow(o dto.DashboardOverviewDTO) core.Row {
	cell := func(label, value string, color *props.Color) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 7, Align: align.Center, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 12, Align: align.Center, Color: color, Top: 6}),
		)
	}
	lowColor := colorPrimary
	if o.LowStockCount > 0 {
		lowColor = colorAlert
	}
	return row.New(16).Add(
		cell("SPACES", fmt.Sprintf("%d / %d", o.TotalSpaces, o.MaxSpaces), colorPrimary),
		cell("PRODUCTS", strconv.Itoa(o.TotalProducts), colorPrimary),
		cell("TOTAL VALUE", "$"+formatMoney(o.TotalValue), colorPrimary),
		cell("LOW STOCK", strconv.Itoa(o.LowStockCount), lowColor),
	)
}

// spaceRows: título del espacio, cabecera de tabla y una fila por producto.
func spaceRows(s dto.InventoryReportSpace) []core.Row {
	rows := []core.Row{
		row.New(9).Add(
			col.New(8).Add(text.New(s.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 3,
			})),
			col.New(4).Add(text.New("$"+formatMoney(s.Value), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 3, Right: 1,
			})),
		),
	}
	if len(s.Products) == 0 {
		return append(rows, row.New(6).Add(col.New(12).Add(
			text.New("No products.", props.Text{Size: 8, Color: colorGray, Top: 1, Left: 1}),
		)))
	}

	rows = append(rows, tableHeaderRow())
	for _, p := range s.Products {
		rows = append(rows, productRow(p))
	}
	return rows
}

// tableHeaderRow: cabecera de la tabla de productos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorGray, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		h("Product", 4, align.Left),
		h("Stock", 1, align.Center),
		h("Min.", 1, align.Center),
		h("Price", 2, align.Right),
		h("Value", 2, align.Right),
		h("Status", 2, align.Center),
	)
}

func productRow(p dto.ProductResponse) core.Row {
	minimum := "-"
	if p.MinimumQuantity != nil {
		minimum = strconv.Itoa(*p.MinimumQuantity)
	}
	status := props.Text{Size: 8, Align: align.Center, Top: 1}
	if p.StockStatus != inventory.StatusInStock {
		status.Color = colorAlert
		status.Style = fontstyle.Bold
	}
	return row.New(6).Add(
		col.New(4).Add(text.New(p.Name, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
		col.New(1).Add(text.New(strconv.Itoa(p.CurrentStock), props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(1).Add(text.New(minimum, props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(2).Add(text.New("$"+formatMoney(p.Price), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(2).Add(text.New("$"+formatMoney(p.Value), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(2).Add(text.New(statusLabel(p.StockStatus), status)),
	)
}

func footerRow(report *dto.InventoryReport) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			fmt.Sprintf("Values are price × current stock. Low stock means at or below the configured minimum. "+
				"%d of %d products need attention.",
				report.Overview.StockStatus.LowStock+report.Overview.StockStatus.OutOfStock, report.Overview.TotalProducts),
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func statusLabel(status string) string {
	switch status {
	case inventory.StatusOutOfStock:
		return "OUT OF STOCK"
	case inventory.StatusLowStock:
		return "LOW"
	default:
		return "OK"
	}
}

// formatMoney dos decimales con comas de miles.
// Ej: 25000 → "25,000.00", -1234.5 → "-1,234.50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	if n <= 3 {
		return sign + intPart + "." + frac
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + "." + frac
}
