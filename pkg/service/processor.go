package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/yurifrl/pldash/pkg/compare"
	"github.com/yurifrl/pldash/pkg/config"
	"github.com/yurifrl/pldash/pkg/manifest"
	"github.com/yurifrl/pldash/pkg/models"
	"github.com/yurifrl/pldash/pkg/parser"
	"github.com/yurifrl/pldash/pkg/tree"
)

var (
	ErrUnknownPeriod = manifest.ErrUnknownPeriod
	ErrUnknownEntity = manifest.ErrUnknownEntity
	ErrInvalidMonth  = errors.New("month must be between 1 and 12")
)

type Processor struct {
	config   *config.Config
	logger   *log.Logger
	parser   *parser.Parser
	manifest *manifest.Manifest
}

// NewProcessor creates a processor. The manifest may be nil when only
// file-based operations are used.
func NewProcessor(cfg *config.Config, logger *log.Logger, m *manifest.Manifest) *Processor {
	return &Processor{
		config:   cfg,
		logger:   logger,
		parser:   parser.New(logger, cfg.ParserOptions()),
		manifest: m,
	}
}

// Manifest returns the manifest the processor resolves sources with.
func (p *Processor) Manifest() *manifest.Manifest {
	return p.manifest
}

// LoadTree builds the tree for a (period, entity) pair listed in the manifest,
// with ratio rows recalculated from their numerator and denominator.
func (p *Processor) LoadTree(period, entity string) ([]tree.Node, error) {
	forest, err := p.loadPair(period, entity)
	if err != nil {
		return nil, err
	}
	return p.recalculate(forest), nil
}

// LoadFile builds the tree for a single export file outside the manifest,
// with ratio rows recalculated.
func (p *Processor) LoadFile(path, encoding string) ([]tree.Node, error) {
	forest, err := p.loadFile(path, encoding)
	if err != nil {
		return nil, err
	}
	return p.recalculate(forest), nil
}

func (p *Processor) loadPair(period, entity string) ([]tree.Node, error) {
	if p.manifest == nil {
		return nil, fmt.Errorf("no manifest configured")
	}
	src, err := p.manifest.Resolve(period, entity)
	if err != nil {
		return nil, err
	}
	return p.loadSource(src)
}

func (p *Processor) loadFile(path, encoding string) ([]tree.Node, error) {
	return p.loadSource(manifest.Source{FilePath: path, Encoding: encoding})
}

// loadSource substitutes an empty forest when the file cannot be read.
// Parse failures are returned as *parser.LoadError.
func (p *Processor) loadSource(src manifest.Source) ([]tree.Node, error) {
	data, err := os.ReadFile(src.FilePath)
	if err != nil {
		p.logger.Warn("source unavailable, using empty tree", "file", src.FilePath, "period", src.Period, "entity", src.Entity, "error", err)
		return []tree.Node{}, nil
	}

	records, err := p.parser.LoadSource(parser.Source{
		Name:     filepath.Base(src.FilePath),
		Data:     data,
		Encoding: src.Encoding,
		Period:   src.Period,
		Entity:   src.Entity,
	})
	if err != nil {
		return nil, err
	}
	return p.build(records), nil
}

func (p *Processor) build(records []models.Record) []tree.Node {
	forest := tree.Build(records, p.config.TreeConfig())
	p.logger.Debug("tree built", "records", len(records), "roots", len(forest))
	return forest
}

func (p *Processor) recalculate(forest []tree.Node) []tree.Node {
	return tree.Recalculate(forest, p.config.RatioConfig())
}

// CompareRequest selects the two sides of a comparison.
type CompareRequest struct {
	PriorPeriod string
	PriorEntity string
	Period      string
	Entity      string
	Month       int
}

// Comparison is the recalculated pair of forests and their display rows.
type Comparison struct {
	Month   int           `json:"month"`
	Prior   []tree.Node   `json:"prior"`
	Current []tree.Node   `json:"current"`
	Rows    []compare.Row `json:"rows"`
}

// Compare loads both sides concurrently, recalculates ratio rows and flattens
// the result for req.Month.
func (p *Processor) Compare(ctx context.Context, req CompareRequest) (*Comparison, error) {
	if !models.ValidMonth(req.Month) {
		return nil, ErrInvalidMonth
	}
	if p.manifest != nil {
		if err := p.manifest.Check(req.PriorPeriod, req.PriorEntity); err != nil {
			return nil, err
		}
		if err := p.manifest.Check(req.Period, req.Entity); err != nil {
			return nil, err
		}
	}
	return p.compare(ctx, req.Month,
		func() ([]tree.Node, error) { return p.loadPair(req.PriorPeriod, req.PriorEntity) },
		func() ([]tree.Node, error) { return p.loadPair(req.Period, req.Entity) },
	)
}

// CompareFiles compares two export files outside the manifest.
func (p *Processor) CompareFiles(ctx context.Context, priorPath, currentPath, encoding string, month int) (*Comparison, error) {
	if !models.ValidMonth(month) {
		return nil, ErrInvalidMonth
	}
	return p.compare(ctx, month,
		func() ([]tree.Node, error) { return p.loadFile(priorPath, encoding) },
		func() ([]tree.Node, error) { return p.loadFile(currentPath, encoding) },
	)
}

func (p *Processor) compare(ctx context.Context, month int, loadPrior, loadCurrent func() ([]tree.Node, error)) (*Comparison, error) {
	var prior, current []tree.Node
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		prior, err = loadPrior()
		if err == nil {
			err = gctx.Err()
		}
		return err
	})
	g.Go(func() error {
		var err error
		current, err = loadCurrent()
		if err == nil {
			err = gctx.Err()
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ratio := p.config.RatioConfig()
	prior, current = tree.RecalculateRatios(prior, current, ratio)
	rows := compare.Flatten(prior, current, month, ratio)
	p.logger.Info("comparison complete", "month", month, "rows", len(rows))

	return &Comparison{Month: month, Prior: prior, Current: current, Rows: rows}, nil
}

// ExportDirectory parses every export in dir and writes <name>-tree.json
// next to it, or into outDir when set. Failures are logged per file.
func (p *Processor) ExportDirectory(dir, outDir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("error reading directory: %w", err)
	}

	for _, entry := range entries {
		if err := p.exportEntry(dir, outDir, entry); err != nil {
			p.logger.Error("failed to export entry", "file", entry.Name(), "error", err)
		}
	}
	return nil
}

func isExport(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".tsv", ".txt", ".xls", ".xlsx":
		return true
	}
	return false
}

func (p *Processor) exportEntry(dir, outDir string, entry os.DirEntry) error {
	if entry.IsDir() || !isExport(entry.Name()) {
		return nil
	}

	inputPath := filepath.Join(dir, entry.Name())
	outFile := p.determineOutputPath(inputPath, outDir, entry.Name())
	p.logger.Info("exporting file", "path", inputPath)

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}
	records, err := p.parser.LoadSource(parser.Source{Name: entry.Name(), Data: data})
	if err != nil {
		return err
	}

	output, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("error creating output file: %w", err)
	}
	defer output.Close()

	enc := json.NewEncoder(output)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p.recalculate(p.build(records))); err != nil {
		return fmt.Errorf("error writing output file: %w", err)
	}

	p.logger.Info("exported file successfully", "input", inputPath, "output", outFile)
	return nil
}

func (p *Processor) determineOutputPath(inputPath, outDir, fileName string) string {
	ext := filepath.Ext(fileName)
	if outDir != "" {
		return filepath.Join(outDir, strings.TrimSuffix(fileName, ext)+"-tree.json")
	}
	return strings.TrimSuffix(inputPath, ext) + "-tree.json"
}
