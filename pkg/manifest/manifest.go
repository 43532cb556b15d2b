// Package manifest describes which P/L exports exist: the selectable periods
// and entities, and the file holding each (period, entity) pair.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownPeriod = errors.New("unknown period")
	ErrUnknownEntity = errors.New("unknown entity")
)

// Manifest represents the structure of the YAML manifest file.
type Manifest struct {
	Periods  []string `yaml:"periods"`
	Entities []string `yaml:"entities"`
	// Pattern locates files not listed in Sources, e.g. "data/{period}_{entity}.csv".
	Pattern  string   `yaml:"pattern"`
	Encoding string   `yaml:"encoding"`
	Sources  []Source `yaml:"sources"`

	dir string
}

// Source is one export file.
type Source struct {
	Period   string `yaml:"period"`
	Entity   string `yaml:"entity"`
	FilePath string `yaml:"file"`
	Encoding string `yaml:"encoding"`
}

// File returns the path to the source file, expanding ~.
func (s *Source) File() (string, error) {
	if strings.HasPrefix(s.FilePath, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, s.FilePath[2:]), nil
	}
	return s.FilePath, nil
}

// Load reads and validates a manifest. Relative file paths are resolved
// against the manifest's directory.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	m.dir = filepath.Dir(path)
	return m, nil
}

// Parse decodes and validates manifest YAML.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if len(m.Periods) == 0 {
		m.Periods = lo.Uniq(lo.Map(m.Sources, func(s Source, _ int) string { return s.Period }))
	}
	if len(m.Entities) == 0 {
		m.Entities = lo.Uniq(lo.Map(m.Sources, func(s Source, _ int) string { return s.Entity }))
	}

	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) validate() error {
	if len(m.Periods) == 0 || len(m.Entities) == 0 {
		return fmt.Errorf("manifest has no periods or entities")
	}
	if len(m.Sources) == 0 && m.Pattern == "" {
		return fmt.Errorf("manifest has no sources and no pattern")
	}
	for i, s := range m.Sources {
		if s.FilePath == "" {
			return fmt.Errorf("source %d: file is required", i+1)
		}
		if !lo.Contains(m.Periods, s.Period) {
			return fmt.Errorf("source %d: %w %q", i+1, ErrUnknownPeriod, s.Period)
		}
		if !lo.Contains(m.Entities, s.Entity) {
			return fmt.Errorf("source %d: %w %q", i+1, ErrUnknownEntity, s.Entity)
		}
	}
	dups := lo.FindDuplicatesBy(m.Sources, func(s Source) string { return s.Period + "/" + s.Entity })
	if len(dups) > 0 {
		return fmt.Errorf("duplicate source for period %q entity %q", dups[0].Period, dups[0].Entity)
	}
	return nil
}

// Check reports whether period and entity are among the enumerated values.
func (m *Manifest) Check(period, entity string) error {
	if !lo.Contains(m.Periods, period) {
		return fmt.Errorf("%w %q", ErrUnknownPeriod, period)
	}
	if !lo.Contains(m.Entities, entity) {
		return fmt.Errorf("%w %q", ErrUnknownEntity, entity)
	}
	return nil
}

// Resolve returns the source for a (period, entity) pair. Pairs without an
// explicit entry fall back to Pattern.
func (m *Manifest) Resolve(period, entity string) (Source, error) {
	if err := m.Check(period, entity); err != nil {
		return Source{}, err
	}

	src, ok := lo.Find(m.Sources, func(s Source) bool {
		return s.Period == period && s.Entity == entity
	})
	if !ok {
		if m.Pattern == "" {
			return Source{}, fmt.Errorf("no source for period %q entity %q", period, entity)
		}
		src = Source{
			Period:   period,
			Entity:   entity,
			FilePath: strings.NewReplacer("{period}", period, "{entity}", entity).Replace(m.Pattern),
		}
	}
	if src.Encoding == "" {
		src.Encoding = m.Encoding
	}

	file, err := src.File()
	if err != nil {
		return Source{}, err
	}
	if !filepath.IsAbs(file) && m.dir != "" {
		file = filepath.Join(m.dir, file)
	}
	src.FilePath = file
	return src, nil
}

// All resolves every (period, entity) pair in enumeration order, skipping
// pairs that have no source.
func (m *Manifest) All() []Source {
	var out []Source
	for _, period := range m.Periods {
		for _, entity := range m.Entities {
			if src, err := m.Resolve(period, entity); err == nil {
				out = append(out, src)
			}
		}
	}
	return out
}
