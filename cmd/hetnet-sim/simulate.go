package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hetnet-sim/internal/admin"
	"hetnet-sim/internal/config"
	"hetnet-sim/internal/logging"
	"hetnet-sim/internal/sim"
)

var (
	simPrintOnly     bool
	simTUI           bool
	simConfigPath    string
	simSchemaPath    string
	simTick          time.Duration
	simLogFile       string
	simGnuplotPrefix string
	simAdminAddr     string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the real-time attachment simulator",
	Long:  "simulate places cells and terminals, then runs the tick loop emitting attachment, migration, and state rows.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(simConfigPath, simSchemaPath)
		if err != nil {
			return err
		}

		writer, migWriter, stateWriter, cleanup, err := newWriters(cfg, simPrintOnly, simTUI, simLogFile)
		if err != nil {
			return err
		}
		defer cleanup()

		runID := os.Getenv("RUN_ID")
		if runID == "" {
			runID = "run-01"
		}

		tickInterval := simTick
		if envTick := os.Getenv("TICK_INTERVAL"); envTick != "" {
			d, err := time.ParseDuration(envTick)
			if err != nil {
				return err
			}
			tickInterval = d
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		ctx = logging.NewContext(ctx, logging.New())

		simulator, err := sim.NewSimulator(runID, cfg, writer, migWriter, stateWriter, tickInterval, nil, nil)
		if err != nil {
			return err
		}

		if simGnuplotPrefix != "" {
			cells, terminals := simulator.Topology()
			if err := sim.WriteGnuplotTopology(simGnuplotPrefix, cells, terminals, cfg.TechPriority()); err != nil {
				return err
			}
		}

		srv := admin.NewServer(simulator)
		go func() {
			log.Printf("[Main] Admin UI listening on %s", simAdminAddr)
			if err := srv.Start(ctx, simAdminAddr); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Admin server failed: %v", err)
			}
		}()

		done := make(chan error, 1)
		go func() { done <- simulator.Run(ctx) }()

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-sigs:
			cancel()
			err = <-done
		case err = <-done:
		}
		if err != nil {
			return err
		}
		log.Println("[Main] Simulation stopped.")
		return nil
	},
}

func init() {
	simulateCmd.Flags().BoolVar(&simPrintOnly, "print-only", false, "Print rows to STDOUT instead of writing to DB")
	simulateCmd.Flags().BoolVar(&simTUI, "tui", false, "Render a live terminal dashboard instead of plain output")
	simulateCmd.Flags().StringVar(&simConfigPath, "config", "config/simulation.yaml", "Path to simulation configuration YAML")
	simulateCmd.Flags().StringVar(&simSchemaPath, "schema", "schemas/simulation.cue", "Path to CUE schema file")
	simulateCmd.Flags().DurationVar(&simTick, "tick", time.Second, "Tick interval (e.g. 500ms, 2s)")
	simulateCmd.Flags().StringVar(&simLogFile, "log-file", "", "Path to export attachment/migration/state logs (JSONL)")
	simulateCmd.Flags().StringVar(&simGnuplotPrefix, "gnuplot", "", "Prefix for gnuplot topology label dumps")
	simulateCmd.Flags().StringVar(&simAdminAddr, "admin-addr", ":8080", "Listen address for the admin UI")
}
