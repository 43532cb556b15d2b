package parser

import (
	"strconv"

	"github.com/yurifrl/pldash/pkg/models"
)

// columns is the header layout of a P/L export.
type columns struct {
	months map[int]int // month -> column index
	major  int
	mid    int
	minor  int // -1 when absent
	width  int
}

// LoadRecords parses the text of a P/L export. The first non-empty line is the
// header; comma or tab delimiters are detected from it.
func (p *Parser) LoadRecords(text, period, entity string) ([]models.Record, error) {
	lines := splitLines(text)
	if len(lines) == 0 {
		return nil, &LoadError{Period: period, Entity: entity, Err: ErrEmptySource}
	}

	delim := detectDelimiter(lines[0])
	rows := make([][]string, len(lines))
	for i, line := range lines {
		rows[i] = splitFields(line, delim)
	}
	return p.loadRows(rows, period, entity)
}

// LoadRows parses rows that were already split into cells, e.g. from a workbook.
// Blank rows are ignored the way blank text lines are.
func (p *Parser) LoadRows(rows [][]string, period, entity string) ([]models.Record, error) {
	kept := make([][]string, 0, len(rows))
	for _, row := range rows {
		if !blankRow(row) {
			kept = append(kept, row)
		}
	}
	if len(kept) == 0 {
		return nil, &LoadError{Period: period, Entity: entity, Err: ErrEmptySource}
	}
	return p.loadRows(kept, period, entity)
}

func (p *Parser) loadRows(rows [][]string, period, entity string) ([]models.Record, error) {
	if len(rows) < 2 {
		return nil, &LoadError{Period: period, Entity: entity, Err: ErrHeaderOnly}
	}

	cols, err := p.detectColumns(rows[0])
	if err != nil {
		return nil, &LoadError{Period: period, Entity: entity, Err: err}
	}
	p.logger.Debug("detected columns", "months", len(cols.months), "major", cols.major, "mid", cols.mid, "minor", cols.minor)

	records := make([]models.Record, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		rec, ok := p.convertRow(i, rows[i], cols, period, entity)
		if ok {
			records = append(records, rec)
		}
	}

	p.logger.Info("P/L parsing complete", "period", period, "entity", entity, "records", len(records), "lines", len(rows)-1)
	return records, nil
}

func (p *Parser) detectColumns(header []string) (columns, error) {
	cols := columns{months: make(map[int]int), major: -1, mid: -1, minor: -1, width: len(header)}
	for i, raw := range header {
		cell := NormalizeCell(raw)
		if m, ok := p.monthOf(cell); ok {
			if _, seen := cols.months[m]; !seen {
				cols.months[m] = i
			}
			continue
		}
		switch {
		case cols.major < 0 && matchesMarker(cell, p.opts.MajorMarker):
			cols.major = i
		case cols.mid < 0 && matchesMarker(cell, p.opts.MidMarker):
			cols.mid = i
		case cols.minor < 0 && matchesMarker(cell, p.opts.MinorMarker):
			cols.minor = i
		}
	}

	if len(cols.months) == 0 {
		return cols, ErrNoMonthColumns
	}
	if cols.major < 0 || cols.mid < 0 {
		return cols, ErrMissingCategoryColumns
	}
	return cols, nil
}

func (p *Parser) monthOf(cell string) (int, bool) {
	match := p.monthPattern.FindStringSubmatch(cell)
	if match == nil {
		return 0, false
	}
	m, err := strconv.Atoi(match[2])
	if err != nil || !models.ValidMonth(m) {
		return 0, false
	}
	return m, true
}

func (p *Parser) convertRow(line int, raw []string, cols columns, period, entity string) (models.Record, bool) {
	if len(raw) < cols.width-p.opts.RowTolerance {
		p.logger.Debug("line is short of header width, skipping", "line", line, "cells", len(raw), "header", cols.width)
		return models.Record{}, false
	}

	cell := func(i int) string {
		if i < 0 || i >= len(raw) {
			return ""
		}
		return NormalizeCell(raw[i])
	}

	major, mid := cell(cols.major), cell(cols.mid)
	if major == "" && mid == "" {
		p.logger.Debug("line has no category, skipping", "line", line)
		return models.Record{}, false
	}
	if major == "" || mid == "" {
		p.logger.Debug("line is missing major or mid category, skipping", "line", line, "major", major, "mid", mid)
		return models.Record{}, false
	}

	var (
		monthly    models.MonthlyValues
		monthCells = make([]string, 0, len(cols.months))
	)
	for m := 1; m <= models.MonthsPerYear; m++ {
		idx, ok := cols.months[m]
		if !ok {
			continue
		}
		v := cell(idx)
		monthCells = append(monthCells, v)
		monthly = monthly.With(m, ParseValue(v))
	}

	rec := models.Record{
		Period:  period,
		Entity:  entity,
		Major:   major,
		Mid:     mid,
		Monthly: monthly,
		IsRatio: IsPercentageRow(monthCells),
	}
	if minor := cell(cols.minor); cols.minor >= 0 && minor != "" {
		rec.Minor = &minor
	}
	return rec, true
}

func matchesMarker(cell, marker string) bool {
	return marker != "" && (cell == marker || containsFold(cell, marker))
}

func blankRow(row []string) bool {
	for _, c := range row {
		if NormalizeCell(c) != "" {
			return false
		}
	}
	return true
}
