package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/swasthyasetu/risk-engine/internal/api"
	"github.com/swasthyasetu/risk-engine/internal/api/handlers"
	"github.com/swasthyasetu/risk-engine/internal/api/ws"
	"github.com/swasthyasetu/risk-engine/internal/scheduler"
	"github.com/swasthyasetu/risk-engine/internal/scheduler/jobs"
)

// apiCmd represents the api command.
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Start the REST API server with background jobs.

This command:
- serves the district, national, and scoring endpoints
- streams outbreak alerts over /ws/alerts
- runs the climate ingestion and outbreak watch jobs

Example:
  go run ./cmd/riskctl api
  go run ./cmd/riskctl api --port 8086 --no-jobs`,
	RunE: runAPIServer,
}

var (
	apiPort   string
	apiNoJobs bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
	apiCmd.Flags().BoolVar(&apiNoJobs, "no-jobs", false, "disable background jobs")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	d, cleanup, err := initDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	if apiPort != "" {
		d.cfg.Port = apiPort
	}

	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()

	hub := ws.NewHub(d.log)
	go hub.Run(hubCtx)

	var sched *scheduler.Scheduler
	if !apiNoJobs {
		sched = scheduler.New(d.log)
		if err := sched.AddJob(jobs.NewClimateJob(d.ingestor, d.recalculator, d.log)); err != nil {
			return fmt.Errorf("add climate job: %w", err)
		}
		if err := sched.AddJob(jobs.NewOutbreakWatchJob(d.outbreaks, hub, d.log)); err != nil {
			return fmt.Errorf("add outbreak watch job: %w", err)
		}
		sched.Start()
		defer sched.Stop()
	}

	districtHandler := handlers.NewDistrictHandler(d.districts, d.hotspots, d.outbreaks, d.resources, d.forecasts, d.log)
	nationalHandler := handlers.NewNationalHandler(d.national, d.log)
	riskHandler := handlers.NewRiskHandler(d.provider, d.log)
	systemHandler := handlers.NewSystemHandler(d.db, d.telemetry, sched, d.log)

	router := api.NewRouter(districtHandler, nationalHandler, riskHandler, systemHandler, hub, d.log)
	server := api.New(d.cfg, d.log, router)

	go func() {
		if err := server.Start(); err != nil {
			d.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", d.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
