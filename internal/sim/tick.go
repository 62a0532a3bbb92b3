package sim

import (
	"context"
	"time"

	"hetnet-sim/internal/attach"
	"hetnet-sim/internal/logging"
	"hetnet-sim/internal/telemetry"
	"hetnet-sim/internal/topology"
)

// Run starts the simulation loop and stops after the configured tick count,
// or when the context is done. Every completed tick is a valid stopping
// point; no tick is ever partially applied.
func (s *Simulator) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)
	log.Info("starting simulator", "tick_interval", s.tickInterval, "ticks", s.cfg.Ticks)
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.step(ctx); err != nil {
				log.Error("tick failed", "tick", s.Tick(), "err", err)
				return err
			}
			if s.cfg.Ticks > 0 && s.Tick() >= s.cfg.Ticks {
				log.Info("simulation completed", "ticks", s.Tick())
				return nil
			}
		case <-ctx.Done():
			log.Info("stopping simulator", "ticks_completed", s.Tick())
			return nil
		}
	}
}

// step processes one tick to completion: mobility, workload, resolution,
// tracking, accounting, reporting. Resolution commits cell capacity serially
// in sorted terminal order, so capacity accounting is race-free and
// deterministic.
func (s *Simulator) step(ctx context.Context) error {
	log := logging.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tick++

	if err := s.mobility.Step(s.store); err != nil {
		return err
	}
	if err := s.workload.Step(s.store); err != nil {
		return err
	}
	if s.surgeMode {
		for _, term := range s.store.Terminals() {
			if err := s.store.SetWorkload(term.ID, term.Demand*s.cfg.SurgeFactor, term.DataVolume); err != nil {
				return err
			}
		}
	}

	cells := s.store.Cells()
	load := make(map[string]float64, len(cells))
	ts := s.now().UTC()

	var batch []telemetry.AttachmentRow
	var migrations []telemetry.MigrationRow
	state := telemetry.TickStateRow{
		RunID:     s.runID,
		Tick:      s.tick,
		SurgeMode: s.surgeMode,
		Timestamp: ts,
	}

	for _, term := range s.store.Terminals() {
		cellID := s.resolver.Resolve(term, cells, load)

		var servingCell *topology.Cell
		var capacity, distance float64
		var tech string
		if cellID != attach.NoCell {
			servingCell, _ = s.store.Cell(cellID)
			capacity = servingCell.Capacity
			distance = topology.Distance(term.Position, servingCell.Position)
			tech = servingCell.Technology
			load[cellID] += term.Demand
			state.Attached++
		} else {
			state.Unattached++
			log.Warn("no capacity available", "terminal", term.ID, "tick", s.tick)
		}

		event, migrated := s.tracker.Update(term.ID, cellID, s.tick)
		proc, mig, err := s.engine.AccountTick(term.ID, term.Demand, term.DataVolume, capacity, cellID != attach.NoCell, migrated)
		if err != nil {
			return err
		}

		tally := s.engine.Tally(term.ID)
		batch = append(batch, telemetry.AttachmentRow{
			RunID:           s.runID,
			TerminalID:      term.ID,
			Tick:            s.tick,
			CellID:          cellID,
			Technology:      tech,
			Distance:        distance,
			Demand:          term.Demand,
			ProcessingDelta: proc,
			MigrationDelta:  mig,
			ProcessingTotal: tally.Processing,
			MigrationTotal:  tally.Migration,
			Degraded:        cellID == attach.NoCell,
			Timestamp:       ts,
		})
		state.TotalEnergy += tally.Total()

		if migrated {
			state.Migrations++
			migrations = append(migrations, telemetry.MigrationRow{
				RunID:      s.runID,
				TerminalID: term.ID,
				Tick:       s.tick,
				FromCell:   event.FromCell,
				ToCell:     event.ToCell,
				DataVolume: term.DataVolume,
				Energy:     mig,
				Timestamp:  ts,
			})
		}
	}

	s.lastState = state

	// Batch support if writer implements WriteBatch
	if bw, ok := s.writer.(batchAttachmentWriter); ok {
		if err := bw.WriteBatch(batch); err != nil {
			log.Error("batch write failed", "err", err)
		}
	} else {
		for _, row := range batch {
			if err := s.writer.Write(row); err != nil {
				log.Error("write failed", "terminal", row.TerminalID, "err", err)
			}
		}
	}

	// Write migration events if any
	if len(migrations) > 0 && s.migWriter != nil {
		if bw, ok := s.migWriter.(batchMigrationWriter); ok {
			if err := bw.WriteMigrations(migrations); err != nil {
				log.Error("migration batch write failed", "err", err)
			}
		} else {
			for _, m := range migrations {
				if err := s.migWriter.WriteMigration(m); err != nil {
					log.Error("migration write failed", "err", err)
				}
			}
		}
	}

	if s.stateWriter != nil {
		if err := s.stateWriter.WriteState(state); err != nil {
			log.Error("state write failed", "err", err)
		}
	}
	return nil
}
