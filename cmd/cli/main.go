package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/yurifrl/pldash/pkg/config"
	"github.com/yurifrl/pldash/pkg/csv"
	"github.com/yurifrl/pldash/pkg/manifest"
	"github.com/yurifrl/pldash/pkg/report"
	"github.com/yurifrl/pldash/pkg/server"
	"github.com/yurifrl/pldash/pkg/service"
)

var (
	cliFilters filters
	cfgFile    string
)

var rootCmd = &cobra.Command{
	Use:   "pldash-cli",
	Short: "P/L dashboard command-line interface",
	RunE: func(cmd *cobra.Command, _ []string) error {
		// Show help when no subcommand is provided
		return cmd.Help()
	},
}

// setup loads configuration (config file + env + flag overrides) and the logger.
func setup(cmd *cobra.Command) (*config.Config, *log.Logger, error) {
	cfg, err := config.Build(cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "pldash-cli",
		Level:           cfg.Level(),
	})
	return cfg, logger, nil
}

var treeCmd = &cobra.Command{
	Use:   "tree [flags] <file>",
	Short: "Parse a P/L export and print its category tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		encoding, _ := cmd.Flags().GetString("encoding")
		format, _ := cmd.Flags().GetString("format")

		forest, err := service.NewProcessor(cfg, logger, nil).LoadFile(args[0], encoding)
		if err != nil {
			return err
		}

		switch format {
		case "pp":
			printer := pp.New()
			printer.SetOutput(cmd.OutOrStdout())
			_, err = printer.Println(forest)
			return err
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(forest)
		default:
			return fmt.Errorf("unknown format %q", format)
		}
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare [flags] <prior_file> <current_file>",
	Short: "Compare two P/L exports for a month",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		encoding, _ := cmd.Flags().GetString("encoding")
		month, _ := cmd.Flags().GetInt("month")
		asCSV, _ := cmd.Flags().GetBool("csv")

		processor := service.NewProcessor(cfg, logger, nil)
		result, err := processor.CompareFiles(cmd.Context(), args[0], args[1], encoding, month)
		if err != nil {
			return err
		}

		if asCSV {
			_, err = cmd.OutOrStdout().Write(csv.Create(result.Rows, cliFilters.toFilterFunc()))
			return err
		}
		return report.Render(cmd.OutOrStdout(), result.Month, cliFilters.apply(result.Rows))
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [flags] <input_path>",
	Short: "Write <name>-tree.json for every P/L export in matching directories",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		outputDir, _ := cmd.Flags().GetString("out")

		processor := service.NewProcessor(cfg, logger, nil)

		matches, err := filepath.Glob(args[0])
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			return fmt.Errorf("no directories found matching pattern %s", args[0])
		}

		for _, match := range matches {
			fileInfo, err := os.Stat(match)
			if err != nil {
				logger.Warn("failed to stat path", "error", err, "path", match)
				continue
			}
			if !fileInfo.IsDir() {
				logger.Warn("skipping non-directory", "path", match)
				continue
			}
			if err := processor.ExportDirectory(match, outputDir); err != nil {
				logger.Warn("failed to export directory", "error", err, "dir", match)
			}
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the P/L tree and comparison API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		m, err := manifest.Load(cfg.Manifest)
		if err != nil {
			return err
		}

		srv := server.New(service.NewProcessor(cfg, logger, m), logger)
		logger.Info("starting server", "addr", cfg.Addr, "manifest", cfg.Manifest)
		return srv.Start(cfg.Addr)
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default is config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Int("row-tolerance", 5, "Trailing cells a data line may be missing")

	// Filter flags (global)
	rootCmd.PersistentFlags().IntVar(&cliFilters.maxDepth, "depth", 0, "Only rows up to this depth (0 = all)")
	rootCmd.PersistentFlags().StringVar(&cliFilters.label, "label", "", "Filter by label (case insensitive)")
	rootCmd.PersistentFlags().BoolVar(&cliFilters.ratioOnly, "ratio-only", false, "Only ratio rows")
	rootCmd.PersistentFlags().BoolVar(&cliFilters.hideMissing, "hide-missing", false, "Hide rows present on one side only")

	treeCmd.Flags().String("encoding", "", "Source encoding for text exports (utf-8, euc-kr, cp949)")
	treeCmd.Flags().String("format", "json", "Output format (json, pp)")

	compareCmd.Flags().String("encoding", "", "Source encoding for text exports (utf-8, euc-kr, cp949)")
	compareCmd.Flags().Int("month", 0, "Month to compare (1-12)")
	compareCmd.Flags().Bool("csv", false, "Print CSV instead of a table")
	_ = compareCmd.MarkFlagRequired("month")

	exportCmd.Flags().StringP("out", "o", "", "Output directory (default: next to each export)")

	serveCmd.Flags().String("manifest", "manifest.yaml", "Manifest file listing periods, entities and sources")
	serveCmd.Flags().String("addr", "0.0.0.0:3000", "Listen address")

	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
