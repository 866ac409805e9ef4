package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-escolar/internal/application/transfer"
	"github.com/jhoicas/inventario-escolar/internal/domain/entity"
	"github.com/jhoicas/inventario-escolar/internal/infrastructure/pdf"
)

func TestGenerateTransferVoucher(t *testing.T) {
	decided := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
	data := transfer.VoucherData{
		Request: &entity.TransferRequest{
			ID:          "0f8fad5b-d9cb-469f-a165-70867728950e",
			Quantity:    3,
			Status:      entity.TransferStatusApproved,
			Purpose:     "Salle 12",
			RequestedAt: decided.Add(-time.Hour),
			DecidedAt:   &decided,
		},
		Product:       &entity.Product{Name: "Vidéoprojecteur", Code: "VP-01", Type: entity.ProductTypeEquipment, Unit: "u"},
		FromEmployee:  &entity.Employee{Name: "Alice Martin", Position: "Professeure"},
		RequesterName: "Alice Martin",
		DeciderName:   "Direction",
	}

	out, err := pdf.NewVoucherGenerator("Lycée Jean Moulin").GenerateTransferVoucher(context.Background(), data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "el documento debe ser un PDF")
}

func TestGenerateTransferVoucher_DatosIncompletos(t *testing.T) {
	_, err := pdf.NewVoucherGenerator("").GenerateTransferVoucher(context.Background(), transfer.VoucherData{})
	assert.Error(t, err)
}
