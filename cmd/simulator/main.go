package main

import (
	"context"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"RollDice/config"
	"RollDice/internal/dice"
	"RollDice/internal/simulation"
	"RollDice/pkg/logger"
	"RollDice/pkg/metrics"
	pkgotel "RollDice/pkg/otel"
	"RollDice/pkg/snowflake"
)

func main() {

	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Logger.Info("Simulator received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	logger.Logger.Info("=== RollDice trace simulator ===",
		zap.String("service", config.Cfg.ServiceName),
		zap.String("environment", config.Cfg.Environment),
		zap.String("endpoint", config.Cfg.OTLPEndpoint),
	)

	tc, err := simulation.NewTracingContext(ctx, pkgotel.Config{
		ServiceName:    config.Cfg.ServiceName,
		ServiceVersion: config.Cfg.ServiceVersion,
		Environment:    config.Cfg.Environment,
		OTLPEndpoint:   config.Cfg.OTLPEndpoint,
		SampleRatio:    config.Cfg.SampleRatio,
	})
	if err != nil {
		logger.Logger.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	if err := metrics.InitMetrics(); err != nil {
		logger.Logger.Warn("Failed to initialize metrics, continuing without them", zap.Error(err))
	}

	// 考虑与 server 作区分
	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake for simulator", zap.Error(err))
	}

	roller := dice.NewRoller(rand.New(rand.NewSource(time.Now().UnixNano())))
	pipeline := simulation.NewPipeline(tc, roller)
	driver := simulation.NewDriver(pipeline, config.Cfg.RequestInterval(), logger.Logger)

	if err := driver.Run(ctx, config.Cfg.RequestCount); err != nil {
		logger.Logger.Warn("Simulation did not run to completion", zap.Error(err))
	}

	// 尽力刷新：固定 5s 预算，刷不完的 span 接受丢失
	logger.Logger.Info("All requests processed, flushing traces...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := tc.Shutdown(shutdownCtx); err != nil {
		logger.Logger.Warn("Trace flush did not complete, buffered spans may be lost", zap.Error(err))
	}

	logger.Logger.Info("Done! Check your tracing backend for the emitted traces")
}
