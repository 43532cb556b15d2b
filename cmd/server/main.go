package main

import (
	"os"

	"github.com/charmbracelet/log"
	flag "github.com/spf13/pflag"

	"github.com/yurifrl/pldash/pkg/config"
	"github.com/yurifrl/pldash/pkg/manifest"
	"github.com/yurifrl/pldash/pkg/server"
	"github.com/yurifrl/pldash/pkg/service"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "pldash",
	})

	cfgFile := flag.StringP("config", "c", "", "Config file (default is config.yaml)")
	flag.String("addr", "0.0.0.0:3000", "Listen address")
	flag.String("manifest", "manifest.yaml", "Manifest file")
	flag.String("log-level", "info", "Log level")
	flag.Parse()

	cfg, err := config.Build(*cfgFile, flag.CommandLine)
	if err != nil {
		logger.Fatal("invalid configuration", "err", err)
	}
	logger.SetLevel(cfg.Level())

	m, err := manifest.Load(cfg.Manifest)
	if err != nil {
		logger.Fatal("failed to load manifest", "err", err, "path", cfg.Manifest)
	}

	srv := server.New(service.NewProcessor(cfg, logger, m), logger)
	logger.Info("starting server", "addr", cfg.Addr, "periods", m.Periods, "entities", m.Entities, "sources", len(m.All()))
	if err := srv.Start(cfg.Addr); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
