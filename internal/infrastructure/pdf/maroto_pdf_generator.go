// Package pdf genera la hoja de aplicación de una orden para el operario de campo.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Hoja de aplicación  │  N° Orden + Estado + Fechas  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  LOTE: Nombre / Área total   │  RECETA: Nombre / Etapa      │
//	│  OPERARIO + Área a aplicar                                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: # | Código | Insumo | Dosis | Cantidad | Costo      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL + Observaciones + Firmas                             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

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

	"github.com/jhoicas/AgroOrdenes-api/internal/application/orders"
	"github.com/jhoicas/AgroOrdenes-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 34, Green: 102, Blue: 51}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoSheetGenerator implementa orders.SheetGenerator usando Maroto v2.
type MarotoSheetGenerator struct {
	farmName string
}

var _ orders.SheetGenerator = (*MarotoSheetGenerator)(nil)

// NewMarotoSheetGenerator construye el generador; farmName aparece como autor del documento.
func NewMarotoSheetGenerator(farmName string) *MarotoSheetGenerator {
	return &MarotoSheetGenerator{farmName: farmName}
}

// GenerateOrderSheet genera el PDF y devuelve sus bytes.
func (g *MarotoSheetGenerator) GenerateOrderSheet(_ context.Context, sheet orders.OrderSheet) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de aplicación", true).
		WithAuthor(g.farmName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(sheet.Order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(fieldRow(sheet))
	m.AddRows(operatorRow(sheet))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableDetailRows(sheet.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(sheet.Order))
	if obs := strings.TrimSpace(sheet.Order.Observations); obs != "" {
		m.AddRows(observationsRow(obs))
	}
	m.AddRows(line.NewRow(12))
	m.AddRows(signaturesRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(o *entity.Order) core.Row {
	scheduled := "sin programar"
	if o.ApplicationDate != nil {
		scheduled = o.ApplicationDate.Format("02/01/2006")
	}
	return row.New(20).Add(
		col.New(7).Add(
			text.New("HOJA DE APLICACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Orden N° "+o.ID, props.Text{Size: 8, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Estado: "+o.State.String(), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1,
			}),
			text.New("Creada: "+o.CreatedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("Aplicación: "+scheduled, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func fieldRow(s orders.OrderSheet) core.Row {
	return row.New(14).Add(
		col.New(6).Add(
			text.New("LOTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("%s (%s ha)", s.Parcel.Name, s.Parcel.AreaHa.StringFixed(2)),
				props.Text{Size: 10, Top: 6}),
		),
		col.New(6).Add(
			text.New("RECETA", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(fmt.Sprintf("%s (etapa %s)", s.Recipe.Name, nonEmpty(s.Recipe.Stage, "-")),
				props.Text{Size: 10, Top: 6}),
		),
	)
}

func operatorRow(s orders.OrderSheet) core.Row {
	operator := "-"
	if s.Operator != nil {
		operator = s.Operator.Name
	}
	return row.New(10).Add(
		col.New(6).Add(text.New("Operario: "+operator, props.Text{Size: 9, Top: 2})),
		col.New(6).Add(text.New("Área a aplicar: "+s.Order.AreaApplied.StringFixed(2)+" ha",
			props.Text{Style: fontstyle.Bold, Size: 9, Top: 2})),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("#", 1, align.Center),
		h("Código", 2, align.Left),
		h("Insumo", 3, align.Left),
		h("Dosis/ha", 2, align.Right),
		h("Cantidad", 2, align.Right),
		h("Costo", 2, align.Right),
	)
}

func tableDetailRows(lines []orders.SheetLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprint(l.Sequence), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(l.ItemCode, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(3).Add(text.New(l.ItemName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(qty(l.Dose, l.Unit), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(qty(l.Quantity, l.Unit), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New("$"+formatMoney(l.TotalCost.StringFixed(0)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func totalRow(o *entity.Order) core.Row {
	return row.New(10).Add(
		col.New(8).Add(text.New("COSTO TOTAL DE LA ORDEN:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(4).Add(text.New("$"+formatMoney(o.TotalCost.StringFixed(0)), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

func observationsRow(obs string) core.Row {
	return row.New(16).Add(col.New(12).Add(
		text.New("Observaciones", props.Text{Style: fontstyle.Bold, Size: 8, Top: 2}),
		text.New(obs, props.Text{Size: 8, Top: 7, Color: colorGray}),
	))
}

func signaturesRow() core.Row {
	sig := func(label string) core.Col {
		return col.New(6).Add(
			text.New("______________________________", props.Text{Size: 9, Align: align.Center}),
			text.New(label, props.Text{Size: 8, Align: align.Center, Top: 5, Color: colorGray}),
		)
	}
	return row.New(14).Add(sig("Firma operario"), sig("Firma responsable técnico"))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func qty(v decimal.Decimal, unit string) string {
	if v.IsZero() {
		return "-"
	}
	return strings.TrimSpace(v.StringFixed(3) + " " + unit)
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "-1000000" → "-1.000.000"
func formatMoney(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
