package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Lombado/finlords-investor-portal/config"
	"github.com/Lombado/finlords-investor-portal/data"
	"github.com/Lombado/finlords-investor-portal/data/repository"
	"github.com/Lombado/finlords-investor-portal/data/session"
	"github.com/Lombado/finlords-investor-portal/internal/cli"
	"github.com/Lombado/finlords-investor-portal/internal/externalApi/cloudStorageApi/googleDriveApi"
	"github.com/Lombado/finlords-investor-portal/internal/reportGenerator/xslsxGenerator"
	"github.com/Lombado/finlords-investor-portal/internal/scheduler"
	"github.com/Lombado/finlords-investor-portal/internal/service/portalService"
	"github.com/Lombado/finlords-investor-portal/internal/tgbot"
	"github.com/Lombado/finlords-investor-portal/internal/transport/telegram"
)

func main() {
	rootCmd := cli.NewRootCmd(serve)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	cli.SetupLogger(cfg, os.Stdout)

	slog.Debug("config", slog.String("dataSource", cfg.DataSource), slog.Any("portal", cfg.Portal))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	repo, closeRepo, err := repository.Open(cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	redisClient, err := data.NewRedisClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	redisSession := session.NewRedisSession(redisClient, cfg.SessionExpiration)

	reportGenerator := xslsxGenerator.New()

	var cloudStorage portalService.CloudStorage
	if cfg.GoogleDrive.CredentialsFile != "" {
		googleCloudStorage, err := googleDriveApi.New(ctx, cfg)
		if err != nil {
			return err
		}
		cloudStorage = googleCloudStorage
	}

	portalSrv := portalService.New(cfg, repo, portalService.NewEngine(cfg), reportGenerator, cloudStorage)
	if err = portalSrv.ReloadReferenceData(ctx); err != nil {
		return fmt.Errorf("initial reference data load: %w", err)
	}

	sched, err := scheduler.New()
	if err != nil {
		return err
	}
	err = sched.NewIntervalJob("reload reference data", portalSrv.ReloadReferenceData, cfg.Jobs.ReloadReferenceDataInterval, false)
	if err != nil {
		return err
	}
	err = sched.NewCrontabJob("delete old reports", portalSrv.DeleteOldReports, cfg.Jobs.DeleteOldReportsCrontab, false)
	if err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	tgController := telegram.NewController(cfg, portalSrv, redisSession)

	tgBot, err := tgbot.New(cfg, tgController, redisSession)
	if err != nil {
		return err
	}
	tgBot.Start()
	defer tgBot.Stop()

	// Waiting interruption signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	select {
	case <-interrupt:
	case <-ctx.Done():
	}

	return nil
}
