package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"

	"github.com/yurifrl/pldash/pkg/parser"
	"github.com/yurifrl/pldash/pkg/tree"
)

const envPrefix = "PLDASH"

type Labels struct {
	Major     string `mapstructure:"major"`
	Mid       string `mapstructure:"mid"`
	Minor     string `mapstructure:"minor"`
	YearUnit  string `mapstructure:"year_unit"`
	MonthUnit string `mapstructure:"month_unit"`
}

type Tree struct {
	ThreeLevelMajors []string `mapstructure:"three_level_majors"`
	OtherLabel       string   `mapstructure:"other_label"`
}

type Ratio struct {
	RatioMajor       string `mapstructure:"ratio_major"`
	NumeratorMajor   string `mapstructure:"numerator_major"`
	DenominatorMajor string `mapstructure:"denominator_major"`
}

// Config is the application configuration.
type Config struct {
	Manifest     string `mapstructure:"manifest"`
	Addr         string `mapstructure:"addr"`
	LogLevel     string `mapstructure:"log_level"`
	RowTolerance int    `mapstructure:"row_tolerance"`
	Labels       Labels `mapstructure:"labels"`
	Tree         Tree   `mapstructure:"tree"`
	Ratio        Ratio  `mapstructure:"ratio"`
}

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"manifest":      "manifest",
	"addr":          "addr",
	"log-level":     "log_level",
	"row-tolerance": "row_tolerance",
}

func setDefaults(v *viper.Viper) {
	opts := parser.DefaultOptions()
	treeCfg := tree.DefaultConfig()
	ratio := tree.DefaultRatioConfig()

	v.SetDefault("manifest", "manifest.yaml")
	v.SetDefault("addr", "0.0.0.0:3000")
	v.SetDefault("log_level", "info")
	v.SetDefault("row_tolerance", opts.RowTolerance)
	v.SetDefault("labels.major", opts.MajorMarker)
	v.SetDefault("labels.mid", opts.MidMarker)
	v.SetDefault("labels.minor", opts.MinorMarker)
	v.SetDefault("labels.year_unit", opts.YearUnit)
	v.SetDefault("labels.month_unit", opts.MonthUnit)
	v.SetDefault("tree.three_level_majors", treeCfg.ThreeLevelMajors)
	v.SetDefault("tree.other_label", treeCfg.OtherLabel)
	v.SetDefault("ratio.ratio_major", ratio.RatioMajor)
	v.SetDefault("ratio.numerator_major", ratio.NumeratorMajor)
	v.SetDefault("ratio.denominator_major", ratio.DenominatorMajor)
}

// Build loads configuration from, in increasing priority: defaults, the
// config file (cfgFile, or config.yaml in the working directory when empty),
// .env and PLDASH_* environment variables, then any flags that were set.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Tree.ThreeLevelMajors = lo.Uniq(lo.Compact(cfg.Tree.ThreeLevelMajors))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if c.RowTolerance < 0 {
		problems = append(problems, fmt.Sprintf("row_tolerance must not be negative, got %d", c.RowTolerance))
	}
	if c.Labels.Major == "" || c.Labels.Mid == "" {
		problems = append(problems, "labels.major and labels.mid are required")
	}
	if c.Labels.MonthUnit == "" {
		problems = append(problems, "labels.month_unit is required")
	}
	if c.Ratio.RatioMajor == "" || c.Ratio.NumeratorMajor == "" || c.Ratio.DenominatorMajor == "" {
		problems = append(problems, "ratio.ratio_major, ratio.numerator_major and ratio.denominator_major are required")
	} else if c.Ratio.RatioMajor == c.Ratio.NumeratorMajor || c.Ratio.RatioMajor == c.Ratio.DenominatorMajor {
		problems = append(problems, fmt.Sprintf("ratio.ratio_major %q must differ from its numerator and denominator", c.Ratio.RatioMajor))
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("invalid log_level %q", c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// Level returns the configured log level, info when it does not parse.
func (c *Config) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

func (c *Config) ParserOptions() parser.Options {
	return parser.Options{
		MajorMarker:  c.Labels.Major,
		MidMarker:    c.Labels.Mid,
		MinorMarker:  c.Labels.Minor,
		YearUnit:     c.Labels.YearUnit,
		MonthUnit:    c.Labels.MonthUnit,
		RowTolerance: c.RowTolerance,
	}
}

func (c *Config) TreeConfig() tree.Config {
	return tree.Config{
		ThreeLevelMajors: c.Tree.ThreeLevelMajors,
		OtherLabel:       c.Tree.OtherLabel,
	}
}

func (c *Config) RatioConfig() tree.RatioConfig {
	return tree.RatioConfig{
		RatioMajor:       c.Ratio.RatioMajor,
		NumeratorMajor:   c.Ratio.NumeratorMajor,
		DenominatorMajor: c.Ratio.DenominatorMajor,
	}
}
