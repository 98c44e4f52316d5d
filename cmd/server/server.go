package main

import (
	"context"
	"math/rand"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"go.uber.org/zap"

	"RollDice/config"
	"RollDice/internal/dice"
	"RollDice/internal/handler"
	"RollDice/internal/middleware"
	"RollDice/internal/router"
	"RollDice/internal/simulation"
	"RollDice/pkg/logger"
	"RollDice/pkg/metrics"
	pkgotel "RollDice/pkg/otel"
	"RollDice/pkg/snowflake"
)

func main() {
	// 日志部分
	logger.Init()
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

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

	if err := snowflake.Init(config.Cfg.SnowflakeMachineID, config.Cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	// HTTP 模式和模拟器共用同一条管线，trace 形态保持一致
	roller := dice.NewRoller(rand.New(rand.NewSource(time.Now().UnixNano())))
	handler.Init(simulation.NewPipeline(tc, roller))

	logger.Logger.Info("Server starting",
		zap.String("service", config.Cfg.ServiceName),
		zap.String("port", config.Cfg.ServerPort),
		zap.String("environment", config.Cfg.Environment),
	)

	addr := net.JoinHostPort(config.Cfg.ServerHost, config.Cfg.ServerPort)

	tracerCfg, tracingMw := middleware.NewServerTracerConfig()
	h := server.Default(server.WithHostPorts(addr), tracerCfg)

	router.Register(h, tracingMw)

	// 优雅关闭：在单独的 goroutine 中监听关闭信号并调用 Shutdown
	go func() {
		<-ctx.Done()
		logger.Logger.Info("Initiating graceful shutdown...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := h.Shutdown(shutdownCtx); err != nil {
			logger.Logger.Error("Failed to shutdown HTTP server", zap.Error(err))
		}

		if err := tc.Shutdown(shutdownCtx); err != nil {
			logger.Logger.Warn("Trace flush did not complete, buffered spans may be lost", zap.Error(err))
		}
	}()

	logger.Logger.Info("HTTP server listening", zap.String("addr", addr))
	h.Spin()
}
