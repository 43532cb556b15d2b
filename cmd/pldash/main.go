package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	flag "github.com/spf13/pflag"

	"github.com/yurifrl/pldash/pkg/config"
	"github.com/yurifrl/pldash/pkg/service"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "pldash",
	})

	var outputPath string
	flag.StringVarP(&outputPath, "out", "o", "", "Output directory (default: same as input file)")
	flag.String("log-level", "info", "Log level")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		logger.Error("invalid usage", "args", args)
		fmt.Fprintf(os.Stderr, "Usage: pldash [-o output_dir] <directory>\n")
		os.Exit(1)
	}

	cfg, err := config.Build("", flag.CommandLine)
	if err != nil {
		logger.Fatal("invalid configuration", "error", err)
	}
	logger.SetLevel(cfg.Level())

	processor := service.NewProcessor(cfg, logger, nil)
	if err := processor.ExportDirectory(args[0], outputPath); err != nil {
		logger.Fatal("export failed", "error", err)
	}
}
