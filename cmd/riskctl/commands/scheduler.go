package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/swasthyasetu/risk-engine/internal/scheduler"
	"github.com/swasthyasetu/risk-engine/internal/scheduler/jobs"
)

// schedulerCmd manages the background job daemon.
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Background job daemon",
	Long: `Run or inspect the background job scheduler.

Registered jobs:
- climate_ingestion: every 6 hours (climate readings + student rescoring)
- outbreak_watch: hourly (block scan, alert broadcast)

Subcommands:
  start - run the scheduler daemon
  run   - execute one job immediately

Example:
  go run ./cmd/riskctl scheduler start
  go run ./cmd/riskctl scheduler run climate_ingestion`,
}

var schedulerStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the scheduler daemon",
	RunE:  runScheduler,
}

var schedulerRunCmd = &cobra.Command{
	Use:   "run [job_name]",
	Short: "Execute one job immediately",
	Args:  cobra.ExactArgs(1),
	RunE:  runSingleJob,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func newScheduler() (*scheduler.Scheduler, func(), error) {
	d, cleanup, err := initDeps()
	if err != nil {
		return nil, nil, err
	}

	sched := scheduler.New(d.log)
	if err := sched.AddJob(jobs.NewClimateJob(d.ingestor, d.recalculator, d.log)); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("add climate job: %w", err)
	}

	return sched, cleanup, nil
}

func runScheduler(cmd *cobra.Command, args []string) error {
	sched, cleanup, err := newScheduler()
	if err != nil {
		return err
	}
	defer cleanup()

	sched.Start()

	fmt.Println("Scheduler started. Registered jobs:")
	for _, jobName := range sched.GetAllJobs() {
		fmt.Printf("  - %s\n", jobName)
	}
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}

func runSingleJob(cmd *cobra.Command, args []string) error {
	d, cleanup, err := initDeps()
	if err != nil {
		return err
	}
	defer cleanup()

	registered := map[string]scheduler.Job{}
	for _, job := range []scheduler.Job{
		jobs.NewClimateJob(d.ingestor, d.recalculator, d.log),
	} {
		registered[job.Name()] = job
	}

	job, ok := registered[args[0]]
	if !ok {
		return fmt.Errorf("job %s not found", args[0])
	}

	fmt.Printf("Running job %s\n", job.Name())
	if err := job.Run(cmd.Context()); err != nil {
		return fmt.Errorf("job %s failed: %w", job.Name(), err)
	}
	fmt.Printf("Job %s completed\n", job.Name())
	return nil
}
