package main

import (
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"rentchain/config"
	"rentchain/core"
	"rentchain/native/nft"
	"rentchain/observability/logging"
	"rentchain/storage"
)

func main() {
	configPath := flag.String("config", "./config.toml", "Path to the config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Setup("rentchaind", "").Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger := logging.Setup("rentchaind", cfg.Environment)

	db, err := storage.NewLevelDB(filepath.Join(cfg.DataDir, "chaindata"))
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	node := core.NewNode(db, cfg.GenesisTime)
	node.SetLogger(logger)
	node.SetRandomness(nft.Blake3Randomness{Seed: []byte(cfg.RandomnessSeed)})

	logger.Info("node started",
		"network", cfg.NetworkName,
		"dataDir", cfg.DataDir,
		"blockIntervalMillis", cfg.BlockIntervalMillis)

	ticker := time.NewTicker(time.Duration(cfg.BlockIntervalMillis) * time.Millisecond)
	defer ticker.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			emitted, err := node.CommitBlock()
			if err != nil {
				logger.Error("block processing failed", "height", node.Height(), "error", err)
				os.Exit(1)
			}
			for _, evt := range emitted {
				logger.Info("event", "type", evt.EventType(), "height", node.Height())
			}
		case sig := <-stop:
			logger.Info("shutting down", "signal", sig.String(), "height", node.Height())
			return
		}
	}
}
