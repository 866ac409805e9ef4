// Package pdf genera el bon de transfert (comprobante PDF) de una solicitud aprobada.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: BON DE TRANSFERT + N° + fecha de decisión          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ARTÍCULO: nombre, código, tipo, cantidad                    │
//	│  ORIGEN → DESTINO: empleado cedente / receptor o stock      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FIRMAS: solicitante / administrador    |   QR (id)         │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/inventario-escolar/internal/application/transfer"
	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
)

var _ transfer.VoucherGenerator = (*VoucherGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// VoucherGenerator implementa transfer.VoucherGenerator usando Maroto v2.
type VoucherGenerator struct {
	establishment string
}

// NewVoucherGenerator construye el generador; establishment aparece en la cabecera.
func NewVoucherGenerator(establishment string) *VoucherGenerator {
	return &VoucherGenerator{establishment: establishment}
}

// GenerateTransferVoucher genera el PDF y devuelve sus bytes.
func (g *VoucherGenerator) GenerateTransferVoucher(_ context.Context, data transfer.VoucherData) ([]byte, error) {
	if data.Request == nil || data.Product == nil {
		return nil, fmt.Errorf("pdf: datos incompletos para el bon de transfert")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Bon de transfert", true).
		WithAuthor(g.establishment, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.establishment, data.Request))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(productRow(data.Product, data.Request.Quantity))
	m.AddRows(partiesRow(data))
	if data.Request.Purpose != "" || data.Request.LocationID != "" {
		m.AddRows(detailRow(data.Request))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(line.NewRow(3))
	m.AddRows(signatureRow(data))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(establishment string, req *entity.TransferRequest) core.Row {
	decided := "-"
	if req.DecidedAt != nil {
		decided = req.DecidedAt.Format("02/01/2006 15:04")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(establishment, "Établissement"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Demande du "+req.RequestedAt.Format("02/01/2006"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("BON DE TRANSFERT", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("N° "+shortID(req.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Approuvé le : "+decided, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func productRow(p *entity.Product, quantity int) core.Row {
	kind := "Équipement"
	if p.Type == entity.ProductTypeConsumable {
		kind = "Consommable"
	}
	return row.New(16).Add(
		col.New(9).Add(
			text.New("ARTICLE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(p.Name, props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
			text.New(fmt.Sprintf("Code : %s   |   Type : %s   |   Catégorie : %s",
				nonEmpty(p.Code, "-"), kind, nonEmpty(p.Category, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
		col.New(3).Add(
			text.New("QUANTITÉ", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%d %s", quantity, p.Unit), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
		),
	)
}

func partiesRow(data transfer.VoucherData) core.Row {
	destination := "Retour au stock général"
	if data.ToEmployee != nil {
		destination = employeeLabel(data.ToEmployee)
	}
	return row.New(16).Add(
		col.New(6).Add(
			text.New("CÉDANT", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(employeeLabel(data.FromEmployee), props.Text{Size: 9, Top: 7}),
		),
		col.New(6).Add(
			text.New("DESTINATAIRE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(destination, props.Text{Size: 9, Top: 7}),
		),
	)
}

func detailRow(req *entity.TransferRequest) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Lieu : %s   |   Motif : %s",
			nonEmpty(req.LocationID, "-"), nonEmpty(req.Purpose, "-"),
		), props.Text{Size: 8, Top: 2, Color: colorGray}),
	))
}

// signatureRow: firmas a la izquierda, QR con el id completo de la solicitud a la derecha.
func signatureRow(data transfer.VoucherData) core.Row {
	return row.New(40).Add(
		col.New(4).Add(
			text.New("Demandeur", props.Text{Style: fontstyle.Bold, Size: 8, Top: 2}),
			text.New(nonEmpty(data.RequesterName, "-"), props.Text{Size: 8, Top: 7, Color: colorGray}),
			text.New("Signature :", props.Text{Size: 8, Top: 24}),
		),
		col.New(4).Add(
			text.New("Administrateur", props.Text{Style: fontstyle.Bold, Size: 8, Top: 2}),
			text.New(nonEmpty(data.DeciderName, "-"), props.Text{Size: 8, Top: 7, Color: colorGray}),
			text.New("Signature :", props.Text{Size: 8, Top: 24}),
		),
		col.New(4).Add(code.NewQr(data.Request.ID, props.Rect{
			Percent: 90,
			Center:  true,
		})),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func employeeLabel(e *entity.Employee) string {
	if e == nil {
		return "-"
	}
	if e.Position == "" {
		return e.Name
	}
	return e.Name + " (" + e.Position + ")"
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
