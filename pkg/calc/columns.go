// Package calc computes the month, year-to-date and full-year figures shown
// for each row of a prior/current comparison.
package calc

import (
	"github.com/yurifrl/pldash/pkg/models"
	"github.com/yurifrl/pldash/pkg/tree"
)

// Columns are the comparison figures for an amount or ratio row. A nil field
// means the figure does not apply.
type Columns struct {
	PriorMonth     *float64 `json:"priorMonth"`
	CurrMonth      *float64 `json:"currMonth"`
	PriorYTD       *float64 `json:"priorYTD"`
	CurrYTD        *float64 `json:"currYTD"`
	PriorYearTotal *float64 `json:"priorYearTotal"`
	CurrYearTotal  *float64 `json:"currYearTotal"`
}

// RateColumns are the comparison figures of a ratio synthesised from
// numerator and denominator sums. They are never missing.
type RateColumns struct {
	PriorMonth     float64 `json:"priorMonth"`
	CurrMonth      float64 `json:"currMonth"`
	PriorYTD       float64 `json:"priorYTD"`
	CurrYTD        float64 `json:"currYTD"`
	PriorYearTotal float64 `json:"priorYearTotal"`
	CurrYearTotal  float64 `json:"currYearTotal"`
}

// SumMonths sums months 1..endMonth, all twelve when endMonth is omitted.
// An explicit endMonth outside 1..12 yields 0.
func SumMonths(monthly models.MonthlyValues, endMonth ...int) float64 {
	if len(endMonth) == 0 {
		return monthly.Total()
	}
	return monthly.SumThrough(endMonth[0])
}

// CalcCols returns the month figures for both sides and, for amount rows,
// their year-to-date and full-year sums. Ratio rows only get month figures.
func CalcCols(month int, prior, current models.MonthlyValues, isRatio bool) Columns {
	if !models.ValidMonth(month) {
		return Columns{}
	}
	cols := Columns{
		PriorMonth: ptr(prior.At(month)),
		CurrMonth:  ptr(current.At(month)),
	}
	if isRatio {
		return cols
	}
	cols.PriorYTD = ptr(SumMonths(prior, month))
	cols.CurrYTD = ptr(SumMonths(current, month))
	cols.PriorYearTotal = ptr(SumMonths(prior))
	cols.CurrYearTotal = ptr(SumMonths(current))
	return cols
}

// CalcRateColsFromNumerDenom computes numerator/denominator*100 over the
// month, the year to date and the full year, independently for each side.
func CalcRateColsFromNumerDenom(month int, priorNumer, priorDenom, currNumer, currDenom models.MonthlyValues) RateColumns {
	if !models.ValidMonth(month) {
		return RateColumns{}
	}
	return RateColumns{
		PriorMonth:     tree.Ratio(priorNumer.At(month), priorDenom.At(month)),
		CurrMonth:      tree.Ratio(currNumer.At(month), currDenom.At(month)),
		PriorYTD:       tree.Ratio(SumMonths(priorNumer, month), SumMonths(priorDenom, month)),
		CurrYTD:        tree.Ratio(SumMonths(currNumer, month), SumMonths(currDenom, month)),
		PriorYearTotal: tree.Ratio(SumMonths(priorNumer), SumMonths(priorDenom)),
		CurrYearTotal:  tree.Ratio(SumMonths(currNumer), SumMonths(currDenom)),
	}
}

// Columns converts rate figures into the nullable shape shared with amount rows.
func (r RateColumns) Columns() Columns {
	return Columns{
		PriorMonth:     ptr(r.PriorMonth),
		CurrMonth:      ptr(r.CurrMonth),
		PriorYTD:       ptr(r.PriorYTD),
		CurrYTD:        ptr(r.CurrYTD),
		PriorYearTotal: ptr(r.PriorYearTotal),
		CurrYearTotal:  ptr(r.CurrYearTotal),
	}
}

// DropPrior clears the prior-side figures, for rows that only exist in the current period.
func (c Columns) DropPrior() Columns {
	c.PriorMonth, c.PriorYTD, c.PriorYearTotal = nil, nil, nil
	return c
}

// DropCurrent clears the current-side figures, for rows that only exist in the prior period.
func (c Columns) DropCurrent() Columns {
	c.CurrMonth, c.CurrYTD, c.CurrYearTotal = nil, nil, nil
	return c
}

func ptr(v float64) *float64 {
	return &v
}
