package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fableforge/fable-sync/internal/adapter"
	"github.com/fableforge/fable-sync/internal/config"
	"github.com/fableforge/fable-sync/internal/logger"
	"github.com/fableforge/fable-sync/internal/netmon"
	"github.com/fableforge/fable-sync/internal/service"
	"github.com/fableforge/fable-sync/internal/store"
	"github.com/fableforge/fable-sync/internal/workers"
	"github.com/fableforge/fable-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	// stdout carries the status stream; engine logs go to the file next
	// to the binary
	log := logger.NewFileLogger("fable-sync")
	cfg, err := config.GetSyncConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	db, err := store.NewConnectSQLite(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create state database")
	}

	kv := store.NewSQLiteKVStore(db, log)
	defer kv.Close()
	snapshots := store.NewSnapshotStore(kv, log)

	remote, err := adapter.NewHTTPRemoteAPI(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create remote adapter")
	}

	monitor, err := netmon.NewPingMonitor(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create connectivity monitor")
	}

	coordinator, err := service.NewSyncCoordinator(ctx, cfg, remote, monitor, snapshots, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create sync coordinator")
	}
	defer coordinator.Close()

	coordinator.Subscribe(func(update models.StatusUpdate) {
		payload, _ := json.Marshal(update)
		fmt.Fprintf(os.Stdout, "%s\n", payload)
	})

	job := service.NewDrainJob(coordinator)
	defer job.Stop()

	workers.NewWorkers(ctx, monitor, job, cfg.Workers.DrainInterval).Run()
	defer monitor.Stop()

	log.Info().Str("device_id", cfg.DeviceID).Msg("sync engine started")
	<-ctx.Done()
	log.Info().Msg("shutting down")
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
