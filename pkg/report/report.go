// Package report renders comparison rows as a terminal table.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/yurifrl/pldash/pkg/compare"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	majorStyle  = lipgloss.NewStyle().Bold(true)
	ratioStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")) // blue
	missing     = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("-")
)

var headers = []string{"Category", "Prior M", "Curr M", "Prior YTD", "Curr YTD", "Prior Year", "Curr Year"}

var printer = message.NewPrinter(language.Korean)

// Table builds the table for rows.
func Table(rows []compare.Row) *table.Table {
	data := make([][]string, len(rows))
	for i, r := range rows {
		data[i] = cells(r)
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return numberStyle
			}
		})
}

// Render writes the table for month followed by a one-line summary.
func Render(w io.Writer, month int, rows []compare.Row) error {
	if _, err := fmt.Fprintf(w, "Month %d\n%s\n", month, Table(rows).String()); err != nil {
		return err
	}

	var onlyPrior, onlyCurrent int
	for _, r := range rows {
		switch {
		case !r.InCurrent:
			onlyPrior++
		case !r.InPrior:
			onlyCurrent++
		}
	}
	_, err := fmt.Fprintf(w, "\n%d row(s), %d only in prior, %d only in current\n", len(rows), onlyPrior, onlyCurrent)
	return err
}

func cells(r compare.Row) []string {
	label := strings.Repeat("  ", r.Depth-1) + r.Label
	switch {
	case r.IsRatio:
		label = ratioStyle.Render(label)
	case r.Depth == 1:
		label = majorStyle.Render(label)
	}

	c := r.Columns
	return []string{
		label,
		format(c.PriorMonth, r.IsRatio),
		format(c.CurrMonth, r.IsRatio),
		format(c.PriorYTD, r.IsRatio),
		format(c.CurrYTD, r.IsRatio),
		format(c.PriorYearTotal, r.IsRatio),
		format(c.CurrYearTotal, r.IsRatio),
	}
}

// format prints amounts with digit grouping and ratios as percentages.
func format(v *float64, ratio bool) string {
	if v == nil {
		return missing
	}
	if ratio {
		return printer.Sprintf("%.1f%%", *v)
	}
	return printer.Sprintf("%.0f", *v)
}
