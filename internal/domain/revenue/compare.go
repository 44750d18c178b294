package revenue

import (
	"sort"

	"github.com/innledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status classifies a month in the comparison
type Status string

const (
	StatusMatch          Status = "match"
	StatusPmsHigher      Status = "pms_higher"
	StatusPmHigher       Status = "pm_higher"
	StatusInsufficientPm Status = "insufficient_pm"
)

// Policy holds the classification thresholds
type Policy struct {
	// MatchThreshold is the exclusive absolute difference below which a month matches
	MatchThreshold decimal.Decimal
	// MinPmRecords is the PM record count a month needs before its total is trusted
	MinPmRecords int
}

// DefaultPolicy returns the thresholds used when nothing is configured
func DefaultPolicy() Policy {
	return Policy{
		MatchThreshold: decimal.NewFromInt(5000),
		MinPmRecords:   10,
	}
}

// BranchAmount is a per-branch PMS subtotal
type BranchAmount struct {
	BranchID   string
	BranchName string
	BranchCode string
	Amount     decimal.Decimal
}

// MonthlyRow is the derived comparison for a single month
type MonthlyRow struct {
	Month          shared.YearMonth
	PmsTotal       decimal.Decimal
	PmsBranchCount int
	PmBranchDetail []BranchAmount
	PmTotal        decimal.Decimal
	PmRecordCount  int
	Diff           decimal.Decimal
	// DiffPct is nil when PmTotal is zero and the percentage is undefined
	DiffPct *decimal.Decimal
	Status  Status
}

// Summary aggregates a comparison range
type Summary struct {
	PmsTotal decimal.Decimal
	PmTotal  decimal.Decimal
	Diff     decimal.Decimal
	ByStatus map[Status]int
}

// Comparison is the result of Compare
type Comparison struct {
	Rows    []MonthlyRow
	Summary Summary
}

// Compare builds the per-month comparison for every month in months. Rows
// outside the listed months are ignored. It has no side effects.
func Compare(months []shared.YearMonth, pms []PmsRecord, pm []PmRecord, policy Policy) Comparison {
	type pmsAgg struct {
		total    decimal.Decimal
		branches map[string]*BranchAmount
	}
	pmsByMonth := make(map[shared.YearMonth]*pmsAgg, len(months))
	for _, r := range pms {
		agg, ok := pmsByMonth[r.Month]
		if !ok {
			agg = &pmsAgg{branches: make(map[string]*BranchAmount)}
			pmsByMonth[r.Month] = agg
		}
		agg.total = agg.total.Add(r.Amount)
		b, ok := agg.branches[r.BranchID]
		if !ok {
			b = &BranchAmount{BranchID: r.BranchID, BranchName: r.BranchName, BranchCode: r.BranchCode}
			agg.branches[r.BranchID] = b
		}
		b.Amount = b.Amount.Add(r.Amount)
	}

	type pmAgg struct {
		total decimal.Decimal
		count int
	}
	pmByMonth := make(map[shared.YearMonth]*pmAgg, len(months))
	for _, r := range pm {
		m := shared.YearMonthOf(r.Date)
		agg, ok := pmByMonth[m]
		if !ok {
			agg = &pmAgg{}
			pmByMonth[m] = agg
		}
		agg.total = agg.total.Add(r.Amount)
		agg.count++
	}

	sorted := append([]shared.YearMonth(nil), months...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	result := Comparison{
		Rows: make([]MonthlyRow, 0, len(sorted)),
		Summary: Summary{
			ByStatus: map[Status]int{
				StatusMatch:          0,
				StatusPmsHigher:      0,
				StatusPmHigher:       0,
				StatusInsufficientPm: 0,
			},
		},
	}
	for _, m := range sorted {
		row := MonthlyRow{Month: m, PmBranchDetail: []BranchAmount{}}
		if agg, ok := pmsByMonth[m]; ok {
			row.PmsTotal = agg.total
			row.PmsBranchCount = len(agg.branches)
			for _, b := range agg.branches {
				row.PmBranchDetail = append(row.PmBranchDetail, *b)
			}
			sort.Slice(row.PmBranchDetail, func(i, j int) bool {
				return row.PmBranchDetail[i].BranchID < row.PmBranchDetail[j].BranchID
			})
		}
		if agg, ok := pmByMonth[m]; ok {
			row.PmTotal = agg.total
			row.PmRecordCount = agg.count
		}
		classify(&row, policy)

		result.Rows = append(result.Rows, row)
		result.Summary.PmsTotal = result.Summary.PmsTotal.Add(row.PmsTotal)
		result.Summary.PmTotal = result.Summary.PmTotal.Add(row.PmTotal)
		result.Summary.ByStatus[row.Status]++
	}
	result.Summary.Diff = result.Summary.PmsTotal.Sub(result.Summary.PmTotal)
	return result
}

var hundred = decimal.NewFromInt(100)

func classify(row *MonthlyRow, policy Policy) {
	if row.PmsTotal.IsZero() && row.PmTotal.IsZero() {
		zero := decimal.Zero
		row.Diff = decimal.Zero
		row.DiffPct = &zero
		row.Status = StatusMatch
		return
	}

	row.Diff = row.PmsTotal.Sub(row.PmTotal)
	if row.PmTotal.IsZero() {
		row.DiffPct = nil
		row.Status = signStatus(row.Diff)
		return
	}

	pct := row.Diff.Div(row.PmTotal).Mul(hundred).Round(2)
	row.DiffPct = &pct

	switch {
	case row.PmRecordCount < policy.MinPmRecords:
		row.Status = StatusInsufficientPm
	case row.Diff.Abs().LessThan(policy.MatchThreshold):
		row.Status = StatusMatch
	default:
		row.Status = signStatus(row.Diff)
	}
}

func signStatus(diff decimal.Decimal) Status {
	if diff.IsPositive() {
		return StatusPmsHigher
	}
	return StatusPmHigher
}
