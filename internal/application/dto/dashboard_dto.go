package dto

import "github.com/shopspring/decimal"

// DashboardStatsDTO respuesta de GET /api/dashboard/stats.
type DashboardStatsDTO struct {
	TotalProducts int `json:"total_products"` // productos activos

	// Ventas pagadas de hoy (zona horaria del negocio)
	TodaySales      decimal.Decimal `json:"today_sales"`
	TodaySalesCount int             `json:"today_sales_count"`

	// Libro financiero del mes en curso
	MonthlyIncome  decimal.Decimal `json:"monthly_income"`
	MonthlyExpense decimal.Decimal `json:"monthly_expense"`
	MonthlyBalance decimal.Decimal `json:"monthly_balance"`

	DateLabel string `json:"date_label"` // ej: "Febrero 2026"
}
