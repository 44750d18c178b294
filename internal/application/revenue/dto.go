package revenue

import (
	"github.com/shopspring/decimal"

	"github.com/innledger/backend/internal/domain/revenue"
)

// CompareQuery selects the inclusive month range to compare
type CompareQuery struct {
	StartMonth string `form:"startMonth" binding:"required,yearmonth"`
	EndMonth   string `form:"endMonth" binding:"required,yearmonth"`
}

// SyncPmsRequest selects the months to pull from the invoicing system
type SyncPmsRequest struct {
	StartMonth string `json:"startMonth" binding:"required,yearmonth"`
	EndMonth   string `json:"endMonth" binding:"required,yearmonth"`
}

// SyncPmRequest selects the days to pull from the hotel-management system
type SyncPmRequest struct {
	StartDate string `json:"startDate" binding:"required,isodate"`
	EndDate   string `json:"endDate" binding:"required,isodate"`
}

// BranchAmountResponse is one branch's PMS subtotal
type BranchAmountResponse struct {
	BranchID   string          `json:"branchId"`
	BranchName string          `json:"branchName"`
	BranchCode string          `json:"branchCode"`
	Amount     decimal.Decimal `json:"amount"`
}

// MonthlyRowResponse is the comparison of one month
type MonthlyRowResponse struct {
	Month          string                 `json:"month"`
	PmsTotal       decimal.Decimal        `json:"pmsTotal"`
	PmsBranchCount int                    `json:"pmsBranchCount"`
	PmBranchDetail []BranchAmountResponse `json:"pmBranchDetail"`
	PmTotal        decimal.Decimal        `json:"pmTotal"`
	PmRecordCount  int                    `json:"pmRecordCount"`
	Diff           decimal.Decimal        `json:"diff"`
	DiffPct        *float64               `json:"diffPct"`
	Status         string                 `json:"status"`
}

// CompareSummaryResponse totals the compared range
type CompareSummaryResponse struct {
	Months   int             `json:"months"`
	PmsTotal decimal.Decimal `json:"pmsTotal"`
	PmTotal  decimal.Decimal `json:"pmTotal"`
	Diff     decimal.Decimal `json:"diff"`
	ByStatus map[string]int  `json:"byStatus"`
}

// CompareResponse is the comparison over a month range
type CompareResponse struct {
	Comparison []MonthlyRowResponse   `json:"comparison"`
	Summary    CompareSummaryResponse `json:"summary"`
}

// SyncFailure records a month that could not be synced
type SyncFailure struct {
	Month   string `json:"month"`
	Message string `json:"message"`
}

// Sync status values
const (
	SyncStatusSuccess = "success"
	SyncStatusPartial = "partial"
)

// SyncPmsResponse reports a PMS sync
type SyncPmsResponse struct {
	Message        string        `json:"message"`
	RecordsWritten int64         `json:"recordsWritten"`
	MonthsSynced   int           `json:"monthsSynced"`
	MonthsFailed   int           `json:"monthsFailed"`
	Failures       []SyncFailure `json:"failures"`
	Status         string        `json:"status"`
}

// SyncPmResponse reports a PM sync
type SyncPmResponse struct {
	Synced  int64 `json:"synced"`
	Skipped int64 `json:"skipped"`
}

// ToCompareResponse converts a domain comparison
func ToCompareResponse(c revenue.Comparison) CompareResponse {
	resp := CompareResponse{
		Comparison: make([]MonthlyRowResponse, 0, len(c.Rows)),
		Summary: CompareSummaryResponse{
			Months:   len(c.Rows),
			PmsTotal: c.Summary.PmsTotal,
			PmTotal:  c.Summary.PmTotal,
			Diff:     c.Summary.Diff,
			ByStatus: make(map[string]int, len(c.Summary.ByStatus)),
		},
	}
	for status, n := range c.Summary.ByStatus {
		resp.Summary.ByStatus[string(status)] = n
	}
	for _, row := range c.Rows {
		r := MonthlyRowResponse{
			Month:          row.Month.String(),
			PmsTotal:       row.PmsTotal,
			PmsBranchCount: row.PmsBranchCount,
			PmBranchDetail: make([]BranchAmountResponse, 0, len(row.PmBranchDetail)),
			PmTotal:        row.PmTotal,
			PmRecordCount:  row.PmRecordCount,
			Diff:           row.Diff,
			Status:         string(row.Status),
		}
		if row.DiffPct != nil {
			pct := row.DiffPct.InexactFloat64()
			r.DiffPct = &pct
		}
		for _, b := range row.PmBranchDetail {
			r.PmBranchDetail = append(r.PmBranchDetail, BranchAmountResponse{
				BranchID:   b.BranchID,
				BranchName: b.BranchName,
				BranchCode: b.BranchCode,
				Amount:     b.Amount,
			})
		}
		resp.Comparison = append(resp.Comparison, r)
	}
	return resp
}
