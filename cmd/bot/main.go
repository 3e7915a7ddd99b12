package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	zLog "github.com/rs/zerolog/log"

	"flatbot/internal/agents/episode/handler"
	"flatbot/internal/announce"
	"flatbot/internal/api"
	"flatbot/internal/config"
	"flatbot/internal/delivery"
	"flatbot/internal/llm"
	"flatbot/internal/roster"
	"flatbot/internal/scheduler"
	"flatbot/internal/tools"
	"flatbot/pkg/logger"
)

// Expects OPENAI_API_KEY in the environment; everything else comes from
// the config file with FLATBOT_* overrides.
func main() {
	configPath := flag.String("config", "", "path to config file (default ./config.yaml)")
	flag.Parse()

	log.Println("starting flatbot")
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Panicf("failed to load config: %v", err)
	}
	if err := logger.NewGlobal(cfg.Log.Level, cfg.Log.Pretty); err != nil {
		log.Panicf("failed to initialize logger: %v", err)
	}

	engine, err := roster.New(cfg.Roster)
	if err != nil {
		zLog.Panic().Err(err).Msg("invalid roster config")
	}

	var deliverer delivery.Deliverer = delivery.Log{}
	if cfg.Delivery.WebhookURL != "" {
		deliverer = delivery.NewWebhook(cfg.Delivery.WebhookURL, cfg.Delivery.Timeout)
	}

	sched := scheduler.New(cfg.Reminders.MaxDelay, cfg.Reminders.SweepInterval, func(target, message string) {
		if err := deliverer.Deliver(target, "ACHTUNG! Reminder: "+message); err != nil {
			zLog.Error().Err(err).Str(logger.SenderField, target).Msg("reminder delivery failed")
		}
	})

	inferencer, err := llm.NewChainInferencer(cfg.LLM)
	if err != nil {
		zLog.Panic().Err(err).Msg("failed to initialize inference")
	}

	registry := tools.NewRegistry(
		tools.NewCalculator(),
		tools.NewSearchTool(tools.NewDuckDuckGoSearcher(cfg.Search.Timeout), cfg.Search.Timeout),
		tools.NewScheduleTool(engine, time.Now),
		tools.NewRemindTool(sched, nil),
	)

	system := actor.NewActorSystem().Root
	h := handler.New(inferencer, registry, cfg.Reasoning.MaxSteps)
	app := api.New(system, h, sched, engine, cfg.HTTP.Addr, cfg.Reasoning.EpisodeTimeout)

	runCtx, stopWorkers := context.WithCancel(context.Background())
	go sched.Run(runCtx)
	if cfg.Announce.Enabled {
		go announce.New(engine, deliverer, cfg.Announce).Run(runCtx)
	}

	go func() {
		if err := app.Start(); err != nil {
			zLog.Panic().Err(err).Msg("server crash")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	stop()
	zLog.Info().Msg("shutting down gracefully")
	stopWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(shutdownCtx); err != nil {
		zLog.Panic().Err(err).Msg("server forced to shutdown")
	}

	zLog.Info().Msg("flatbot exiting")
}
