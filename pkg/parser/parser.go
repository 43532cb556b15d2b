package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/yurifrl/pldash/pkg/models"
)

type FileType string

const (
	TextFile FileType = "text"
	XLSFile  FileType = "xls"
	XLSXFile FileType = "xlsx"
)

// DefaultRowTolerance is how many trailing columns a data line may be missing.
const DefaultRowTolerance = 5

// Options holds the header markers and tolerances used to read an export.
type Options struct {
	MajorMarker string
	MidMarker   string
	MinorMarker string
	YearUnit    string
	MonthUnit   string
	// RowTolerance is the allowed shortfall of a line's cell count against the header.
	RowTolerance int
}

// DefaultOptions matches the Korean P/L exports: 대분류/중분류/소분류 and "26년1월" month headers.
func DefaultOptions() Options {
	return Options{
		MajorMarker:  "대분류",
		MidMarker:    "중분류",
		MinorMarker:  "소분류",
		YearUnit:     "년",
		MonthUnit:    "월",
		RowTolerance: DefaultRowTolerance,
	}
}

type Parser struct {
	logger       *log.Logger
	opts         Options
	monthPattern *regexp.Regexp
}

func New(logger *log.Logger, opts Options) *Parser {
	return &Parser{
		logger:       logger,
		opts:         opts,
		monthPattern: monthPattern(opts.YearUnit, opts.MonthUnit),
	}
}

// monthPattern matches a 2 or 4 digit year, an optional year unit and space,
// then a 1-2 digit month followed by the month unit.
func monthPattern(yearUnit, monthUnit string) *regexp.Regexp {
	expr := fmt.Sprintf(`(?:^|\D)(\d{4}|\d{2})\s?(?:%s)?\s?(\d{1,2})\s?%s`,
		regexp.QuoteMeta(yearUnit), regexp.QuoteMeta(monthUnit))
	return regexp.MustCompile(expr)
}

// Source is one raw export for a (period, entity) pair.
type Source struct {
	Name     string
	Data     []byte
	Encoding string
	Period   string
	Entity   string
}

// LoadSource reads a source in whatever format its name implies.
func (p *Parser) LoadSource(src Source) ([]models.Record, error) {
	fileType := detectType(src.Name)
	p.logger.Debug("detected file type", "type", fileType, "filename", src.Name)

	var (
		records []models.Record
		err     error
	)
	switch fileType {
	case XLSFile:
		var rows [][]string
		if rows, err = xlsRows(src.Data); err == nil {
			records, err = p.LoadRows(rows, src.Period, src.Entity)
		}
	case XLSXFile:
		var rows [][]string
		if rows, err = xlsxRows(src.Data); err == nil {
			records, err = p.LoadRows(rows, src.Period, src.Entity)
		}
	default:
		var text string
		if text, err = Decode(src.Data, src.Encoding); err == nil {
			records, err = p.LoadRecords(text, src.Period, src.Entity)
		}
	}

	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		loadErr.Source = src.Name
	}
	return records, err
}

func detectType(filename string) FileType {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xls":
		return XLSFile
	case ".xlsx":
		return XLSXFile
	default:
		return TextFile
	}
}
