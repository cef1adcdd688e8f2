package main

import (
	"Automancy/internal/game/actor"
	"Automancy/internal/game/actors"
	"Automancy/internal/game/interfaces"
	"Automancy/internal/game/metrics"
	"Automancy/internal/game/resource"
	"Automancy/internal/shared/logs"
	"Automancy/internal/shared/serverconfig"
	transporthttp "Automancy/internal/shared/transport/http"
	"Automancy/internal/shared/transport/ws"
	"Automancy/modules/kit/logx"
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "config file; configs/conf.yml is searched upward when empty")
	pflag.Parse()

	serverconfig.Load(*configPath)
	if err := logs.Init("game", serverconfig.Conf.Log); err != nil {
		panic(err)
	}
	defer logs.Sync()
	logs.Info("conf", zap.Any("conf", serverconfig.Conf))
	conf := serverconfig.Conf

	baseLogger := logx.NewZapLogger(logs.Logger())

	reg, err := resource.Load(conf.Resources.Dir)
	if err != nil {
		logs.Fatal("load resources failed", logx.ErrorFields(err)...)
	}
	logs.Info("resources loaded",
		zap.Int("tiles", len(reg.TileIDs())),
		zap.Int("items", len(reg.ItemIDs())),
		zap.Int("scripts", len(reg.ScriptIDs())))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openRepository(ctx, conf.Storage, reg, baseLogger)
	if err != nil {
		logs.Fatal("open map storage failed", zap.String("driver", conf.Storage.Driver), zap.Error(err))
	}
	defer closeRepo()

	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	gameMetrics, err := metrics.New(promReg)
	if err != nil {
		logs.Fatal("register metrics failed", zap.Error(err))
	}

	runtime := actor.NewRuntime(actors.Options{
		Registry:           reg,
		Repository:         repo,
		Logger:             baseLogger.With(zap.String("component", "game")),
		Metrics:            gameMetrics,
		TickInterval:       conf.Game.TickInterval,
		MaxTickDuration:    conf.Game.MaxTickDuration,
		AskTimeout:         conf.Game.AskTimeout,
		UndoLimit:          conf.Game.UndoLimit,
		TransactionsPerKey: conf.Game.TransactionsPerKey,
		MapName:            conf.Game.InitialMap,
		LazyPopulate:       conf.Game.LazyPopulate,
	})

	gameModule := interfaces.New(runtime, conf.Game.TransactionTTL, baseLogger)

	var httpServer *transporthttp.Server
	errCh := make(chan error, 1)
	if conf.HTTPServer.Enabled {
		addr := fmt.Sprintf("%s:%d", conf.HTTPServer.Host, conf.HTTPServer.Port)
		httpServer = transporthttp.NewHttpServer(addr, nil, baseLogger)
		engine := httpServer.Engine()
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(promReg, promhttp.HandlerOpts{Registry: promReg})))

		httpModules := []transporthttp.Registrar{gameModule}
		for _, m := range httpModules {
			m.HttpRegister(engine.Group("/api"))
		}

		wsRouter := ws.NewRouter(baseLogger)
		wsModules := []ws.Registrar{gameModule}
		for _, m := range wsModules {
			m.WsRegister(wsRouter)
		}
		engine.GET("/ws/render", gin.WrapH(ws.NewServer(wsRouter, baseLogger)))

		go func() {
			logs.Info("http server listening", zap.String("addr", addr))
			if err := httpServer.Start(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
				errCh <- fmt.Errorf("http server start failed: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		logs.Info("shutdown signal received")
	case err := <-errCh:
		logs.Error("server exited", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if httpServer != nil {
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logs.Warn("http server shutdown", zap.Error(err))
		}
	}
	if err := runtime.Shutdown(shutdownCtx); err != nil {
		logs.Error("game shutdown", logx.ErrorFields(err)...)
	}
}
