package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// Contadores y alertas sobre los productos dentro del alcance del administrador.
type DashboardSummaryDTO struct {
	ProductCount  int                  `json:"product_count"`
	LowStock      []StockBalanceDTO    `json:"low_stock"`
	RuptureCount  int                  `json:"rupture_count"`
	PendingCount  int                  `json:"pending_requests"`
	TotalValue    decimal.Decimal      `json:"total_value"`
	RecentEntries []StockEntryResponse `json:"recent_entries"`
	RecentExits   []StockExitResponse  `json:"recent_exits"`
}
