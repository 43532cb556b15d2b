package csv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/yurifrl/pldash/pkg/compare"
)

type FilterFunc func(compare.Row) bool

var header = []string{
	"Key", "Label", "Depth", "Ratio",
	"PriorMonth", "CurrMonth", "PriorYTD", "CurrYTD", "PriorYearTotal", "CurrYearTotal",
}

// Create renders comparison rows as CSV. Figures that do not apply are left empty.
func Create(rows []compare.Row, filter FilterFunc) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(header)
	for _, r := range rows {
		if filter != nil && !filter(r) {
			continue
		}
		c := r.Columns
		_ = w.Write([]string{
			r.Key,
			r.Label,
			strconv.Itoa(r.Depth),
			strconv.FormatBool(r.IsRatio),
			amount(c.PriorMonth),
			amount(c.CurrMonth),
			amount(c.PriorYTD),
			amount(c.CurrYTD),
			amount(c.PriorYearTotal),
			amount(c.CurrYearTotal),
		})
	}
	w.Flush()
	return buf.Bytes()
}

func amount(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *v)
}
