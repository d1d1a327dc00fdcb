// ShootFlow Daemon - assistant engines, automation and HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shootflow/shootflow/internal/actions"
	"github.com/shootflow/shootflow/internal/agent"
	"github.com/shootflow/shootflow/internal/api"
	"github.com/shootflow/shootflow/internal/automation"
	"github.com/shootflow/shootflow/internal/config"
	"github.com/shootflow/shootflow/internal/core"
	"github.com/shootflow/shootflow/internal/engine"
	"github.com/shootflow/shootflow/internal/intelligence"
	"github.com/shootflow/shootflow/internal/logging"
	"github.com/shootflow/shootflow/internal/scheduler"
	"github.com/shootflow/shootflow/internal/skills"
	"github.com/shootflow/shootflow/internal/storage"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "shootflow",
		Short: "ShootFlow Daemon - production assistant for fashion shoots",
		RunE:  runDaemon,
	}
	rootCmd.Flags().StringVar(&configPath, "config", "", "config file path")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logging.SetLevel(logging.ParseLevel(cfg.LogLevel))
	log := logging.WithField("component", "daemon")

	db, err := storage.Open(storage.Config{Path: cfg.DatabasePath()})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	// Engines
	scorer := engine.NewQualityScorer(cfg.Quality)
	matcher := engine.NewMatcher(cfg.Assignment)
	planner := engine.NewPlanner(cfg.Batching)

	// Skills
	logistics := skills.NewLogistics(planner, cfg.Logistics)
	events := skills.NewEvents()
	media := skills.NewMedia(scorer, cfg.Media)
	services := skills.NewServices(cfg.Services)
	navigator := skills.NewNavigator(cfg.Navigator)

	// Intelligence and routing
	scanner := intelligence.NewRiskScanner(logistics, events, scorer, matcher, cfg.Risk)
	classifier := agent.NewClassifier(cfg.Classifier)
	assistant := agent.NewRouter(classifier, logistics, events, media, services, navigator)
	orchestrator := automation.New(scorer, matcher, planner, scanner, cfg.Automation)

	server := api.New(api.Config{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		Assistant:    assistant,
		Orchestrator: orchestrator,
		Scanner:      scanner,
		Registry:     actions.NewDefaultRegistry(),
		DB:           db,
	})

	// Daily automation sweep. The daemon has no live production snapshot of
	// its own; the sweep runs the risk scan over an empty snapshot so the
	// trigger history stays warm, clients feed real snapshots over HTTP.
	sched := scheduler.New(cfg.Scheduler.Timezone)
	if cfg.Scheduler.Enabled {
		runStore := storage.NewRunStore(db)
		job := scheduler.DailyJob("daily-sweep", "scheduled risk sweep", cfg.Scheduler.DailyHour,
			func(ctx context.Context) error {
				report, err := orchestrator.Run(automation.TriggerScheduledDaily, core.AssistantContext{})
				if err != nil {
					return err
				}
				if err := runStore.Save(report); err != nil {
					return err
				}
				server.Broadcast("automation_report", report)
				return nil
			})
		if err := sched.Register(job); err != nil {
			return fmt.Errorf("register sweep job: %w", err)
		}
		if err := sched.Start(); err != nil {
			return fmt.Errorf("start scheduler: %w", err)
		}
		defer sched.Stop()
		log.Info("daily sweep scheduled at %02d:00 %s", cfg.Scheduler.DailyHour, cfg.Scheduler.Timezone)
	}

	// Shutdown on SIGINT/SIGTERM.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Stop(ctx); err != nil {
			log.Error("shutdown: %v", err)
		}
	}()

	log.Info("ShootFlow daemon ready")
	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
